package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// CoffeeRepo provides access to the coffees table.
type CoffeeRepo struct {
	db *sql.DB
}

// NewCoffeeRepo returns a CoffeeRepo bound to the given database.
func NewCoffeeRepo(db *sql.DB) *CoffeeRepo { return &CoffeeRepo{db: db} }

const coffeeColumns = "id, name, description, price, category_id, available, image_url, created_at, updated_at"

func scanCoffee(row interface{ Scan(...any) error }) (model.Coffee, error) {
	var c model.Coffee
	var imageURL sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.CategoryID,
		&c.Available, &imageURL, &c.CreatedAt, &c.UpdatedAt)
	c.ImageURL = imageURL.String
	return c, err
}

// ListAvailable returns available coffees ordered by name, optionally
// restricted to one category.
func (r *CoffeeRepo) ListAvailable(ctx context.Context, categoryID string) ([]model.Coffee, error) {
	query := "SELECT " + coffeeColumns + " FROM coffees WHERE available = 1"
	args := []any{}
	if categoryID != "" {
		query += " AND category_id = ?"
		args = append(args, categoryID)
	}
	query += " ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Coffee, 0)
	for rows.Next() {
		c, err := scanCoffee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches one coffee regardless of availability, ErrNotFound
// when absent.
func (r *CoffeeRepo) GetByID(ctx context.Context, id string) (model.Coffee, error) {
	c, err := scanCoffee(r.db.QueryRowContext(ctx,
		"SELECT "+coffeeColumns+" FROM coffees WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return model.Coffee{}, ErrNotFound
	}
	return c, err
}

// GetWithCategory fetches a coffee joined with its category.
func (r *CoffeeRepo) GetWithCategory(ctx context.Context, id string) (model.Coffee, error) {
	const q = `SELECT co.id, co.name, co.description, co.price, co.category_id,
	                  co.available, co.image_url, co.created_at, co.updated_at,
	                  ca.id, ca.name, ca.description, ca.sort_order, ca.active, ca.created_at, ca.updated_at
	           FROM coffees co
	           JOIN categories ca ON ca.id = co.category_id
	           WHERE co.id = ?`
	var c model.Coffee
	var cat model.Category
	var imageURL sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Price, &c.CategoryID,
		&c.Available, &imageURL, &c.CreatedAt, &c.UpdatedAt,
		&cat.ID, &cat.Name, &cat.Description, &cat.SortOrder, &cat.Active, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return model.Coffee{}, ErrNotFound
	}
	if err != nil {
		return model.Coffee{}, err
	}
	c.ImageURL = imageURL.String
	c.Category = &cat
	return c, nil
}

// Create inserts a coffee. An unknown category yields
// ErrInvalidReference.
func (r *CoffeeRepo) Create(ctx context.Context, c model.Coffee) (model.Coffee, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO coffees (id, name, description, price, category_id, available, image_url) VALUES (?,?,?,?,?,?,?)",
		c.ID, c.Name, c.Description, c.Price, c.CategoryID, c.Available, c.ImageURL)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Coffee{}, ErrInvalidReference
		}
		return model.Coffee{}, err
	}
	return r.GetWithCategory(ctx, c.ID)
}

// CoffeePatch carries optional field updates; nil means unchanged.
type CoffeePatch struct {
	Name        *string
	Description *string
	Price       *float64
	CategoryID  *string
	Available   *bool
	ImageURL    *string
}

// Update applies a partial update and returns the fresh row with its
// category. Changing the category to an unknown one yields
// ErrInvalidReference.
func (r *CoffeeRepo) Update(ctx context.Context, id string, p CoffeePatch) (model.Coffee, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Coffee{}, err
	}
	query := "UPDATE coffees SET "
	args := make([]any, 0, 7)
	sep := ""
	appendSet := func(col string, v any) {
		query += sep + col + " = ?"
		args = append(args, v)
		sep = ", "
	}
	if p.Name != nil {
		appendSet("name", *p.Name)
	}
	if p.Description != nil {
		appendSet("description", *p.Description)
	}
	if p.Price != nil {
		appendSet("price", *p.Price)
	}
	if p.CategoryID != nil {
		appendSet("category_id", *p.CategoryID)
	}
	if p.Available != nil {
		appendSet("available", *p.Available)
	}
	if p.ImageURL != nil {
		appendSet("image_url", *p.ImageURL)
	}
	if len(args) == 0 {
		return r.GetWithCategory(ctx, id)
	}
	query += " WHERE id = ?"
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return model.Coffee{}, ErrInvalidReference
		}
		return model.Coffee{}, err
	}
	return r.GetWithCategory(ctx, id)
}

// SoftDelete marks a coffee unavailable. The row is kept so that
// historical order items stay valid; there is no way back to
// available through this method.
func (r *CoffeeRepo) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE coffees SET available = 0 WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// either absent or already unavailable; distinguish
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
