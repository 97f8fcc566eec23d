// Command seed populates the database with the initial categories and
// coffee items. Safe to run repeatedly; existing rows are skipped.
// Pass --clear to wipe all data first.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/iliyamo/coffee-shop-api/internal/config"
	"github.com/iliyamo/coffee-shop-api/internal/database"
	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

var categories = []model.Category{
	{ID: "all", Name: "All", Description: "All coffees", SortOrder: 0, Active: true},
	{ID: "espresso", Name: "Espresso", Description: "Italian espresso drinks", SortOrder: 1, Active: true},
	{ID: "filter", Name: "Filter", Description: "Hand-brewed filter coffee", SortOrder: 2, Active: true},
	{ID: "coldbrew", Name: "Cold Brew", Description: "Cold brew and iced coffee", SortOrder: 3, Active: true},
	{ID: "specialty", Name: "Specialty", Description: "Signature drinks", SortOrder: 4, Active: true},
}

var coffees = []model.Coffee{
	{Name: "Cappuccino", Description: "Classic Italian coffee with dense milk foam and a light nutty note", Price: 25.00, CategoryID: "espresso", Available: true, ImageURL: "/images/cappuccino.jpg"},
	{Name: "Latte", Description: "Rich espresso blended with silky steamed milk", Price: 28.00, CategoryID: "espresso", Available: true, ImageURL: "/images/latte.jpg"},
	{Name: "Mocha", Description: "A sweet meeting of chocolate and coffee", Price: 30.00, CategoryID: "espresso", Available: true, ImageURL: "/images/mocha.jpg"},
	{Name: "Caramel Macchiato", Description: "Layers of vanilla syrup, steamed milk, espresso and caramel", Price: 32.00, CategoryID: "espresso", Available: true, ImageURL: "/images/caramel-macchiato.jpg"},
	{Name: "Flat White", Description: "Australian classic, microfoam over a double shot", Price: 26.00, CategoryID: "espresso", Available: true, ImageURL: "/images/flat-white.jpg"},
	{Name: "Pour Over", Description: "Single-origin beans, brewed by hand", Price: 35.00, CategoryID: "filter", Available: true, ImageURL: "/images/pour-over.jpg"},
	{Name: "Americano", Description: "Classic black coffee, clean taste", Price: 22.00, CategoryID: "filter", Available: true, ImageURL: "/images/americano.jpg"},
	{Name: "Cold Brew", Description: "Steeped cold for 12 hours, smooth finish", Price: 28.00, CategoryID: "coldbrew", Available: true, ImageURL: "/images/cold-brew.jpg"},
	{Name: "Iced Latte", Description: "Espresso over cold milk and ice", Price: 30.00, CategoryID: "coldbrew", Available: true, ImageURL: "/images/iced-latte.jpg"},
	{Name: "Matcha Latte", Description: "Japanese matcha with vanilla milk", Price: 32.00, CategoryID: "specialty", Available: true, ImageURL: "/images/matcha-latte.jpg"},
	{Name: "Taro Latte", Description: "Purple taro meets coffee", Price: 30.00, CategoryID: "specialty", Available: true, ImageURL: "/images/taro-latte.jpg"},
	{Name: "Red Velvet Latte", Description: "Red velvet cake flavor with chocolate", Price: 34.00, CategoryID: "specialty", Available: true, ImageURL: "/images/red-velvet-latte.jpg"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if len(os.Args) > 1 && os.Args[1] == "--clear" {
		clear(ctx, db)
	}

	seedCategories(ctx, db)
	seedCoffees(ctx, db)
	summarize(ctx, db)
}

// clear deletes all rows, children before parents.
func clear(ctx context.Context, db *sql.DB) {
	log.Println("clearing existing data")
	tables := []string{"reviews", "order_items", "payments", "orders", "rewards", "coffees", "categories", "users"}
	for _, t := range tables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			log.Fatalf("clear %s: %v", t, err)
		}
	}
}

func seedCategories(ctx context.Context, db *sql.DB) {
	repo := repository.NewCategoryRepo(db)
	for _, cat := range categories {
		if _, err := repo.Create(ctx, cat); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				log.Printf("category exists: %s", cat.ID)
				continue
			}
			log.Fatalf("create category %s: %v", cat.ID, err)
		}
		log.Printf("created category: %s", cat.Name)
	}
}

func seedCoffees(ctx context.Context, db *sql.DB) {
	repo := repository.NewCoffeeRepo(db)
	for _, coffee := range coffees {
		var n int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM coffees WHERE name = ? AND category_id = ?",
			coffee.Name, coffee.CategoryID).Scan(&n)
		if err != nil {
			log.Fatalf("check coffee %s: %v", coffee.Name, err)
		}
		if n > 0 {
			log.Printf("coffee exists: %s", coffee.Name)
			continue
		}
		if _, err := repo.Create(ctx, coffee); err != nil {
			log.Fatalf("create coffee %s: %v", coffee.Name, err)
		}
		log.Printf("created coffee: %s (%.2f)", coffee.Name, coffee.Price)
	}
}

func summarize(ctx context.Context, db *sql.DB) {
	var cats, items int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&cats); err != nil {
		log.Fatalf("count categories: %v", err)
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM coffees").Scan(&items); err != nil {
		log.Fatalf("count coffees: %v", err)
	}
	log.Printf("done: %d categories, %d coffee items", cats, items)
}
