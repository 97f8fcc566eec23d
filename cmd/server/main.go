package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/coffee-shop-api/internal/config"
	"github.com/iliyamo/coffee-shop-api/internal/database"
	"github.com/iliyamo/coffee-shop-api/internal/handler"
	"github.com/iliyamo/coffee-shop-api/internal/identity"
	"github.com/iliyamo/coffee-shop-api/internal/middleware"
	"github.com/iliyamo/coffee-shop-api/internal/queue"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
	"github.com/iliyamo/coffee-shop-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	coffeeRepo := repository.NewCoffeeRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	rewardsRepo := repository.NewRewardsRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	analyticsRepo := repository.NewAnalyticsRepo(db)

	verifier := identity.NewVerifier(cfg.AuthJWTSecret, cfg.AuthIssuer)
	provider := identity.NewProviderClient(cfg.AuthAPIURL, cfg.AuthAPIKey)
	resolver := identity.NewResolver(verifier, provider, userRepo)

	cacheCfg := config.LoadCacheConfig()
	invalidator := middleware.NewCacheInvalidator(cacheCfg.Prefix, rdb)

	menuHandler := handler.NewMenuHandler(categoryRepo, coffeeRepo)
	authHandler := handler.NewAuthHandler(rewardsRepo)
	orderHandler := handler.NewCustomerOrderHandler(orderRepo, coffeeRepo, rewardsRepo, paymentRepo, cfg.DefaultPageSize, cfg.MaxPageSize)
	reviewHandler := handler.NewReviewHandler(reviewRepo, coffeeRepo, orderRepo, cfg.DefaultPageSize, cfg.MaxPageSize)
	rewardsHandler := handler.NewRewardsHandler(rewardsRepo, orderRepo, coffeeRepo)
	adminMenuHandler := handler.NewAdminMenuHandler(categoryRepo, coffeeRepo, invalidator)
	adminOrderHandler := handler.NewAdminOrderHandler(orderRepo, rewardsRepo, cfg.DefaultPageSize, cfg.MaxPageSize)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsRepo)

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterPublic(e, menuHandler, reviewHandler, resolver, middleware.ResponseCache(cacheCfg, rdb))
	router.RegisterCustomer(e, authHandler, orderHandler, reviewHandler, rewardsHandler, resolver)
	router.RegisterAdmin(e, adminMenuHandler, adminOrderHandler, analyticsHandler, resolver)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
