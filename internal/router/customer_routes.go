package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/handler"
	"github.com/iliyamo/coffee-shop-api/internal/middleware"
)

// RegisterCustomer registers the authenticated customer surface under
// /api/v1. Every route requires a valid bearer token; ownership checks
// happen in the handlers.
func RegisterCustomer(e *echo.Echo, auth *handler.AuthHandler, orders *handler.CustomerOrderHandler, reviews *handler.ReviewHandler, rewards *handler.RewardsHandler, resolver middleware.Resolver) {
	g := e.Group("/api/v1", middleware.Authenticate(resolver))

	g.GET("/auth/me", auth.Me)
	g.GET("/auth/verify", auth.Verify)

	g.POST("/customer/orders", orders.Create)
	g.GET("/customer/orders", orders.List)
	g.GET("/customer/orders/:id", orders.Get)
	g.PATCH("/customer/orders/:id/cancel", orders.Cancel)

	g.POST("/customer/reviews", reviews.Create)
	g.GET("/customer/reviews/my", reviews.My)
	g.PUT("/customer/reviews/:id", reviews.Update)
	g.DELETE("/customer/reviews/:id", reviews.Delete)

	g.GET("/customer/rewards/my", rewards.My)
	g.GET("/customer/rewards/history", rewards.History)
	g.POST("/customer/rewards/redeem", rewards.Redeem)
	g.GET("/customer/rewards/benefits", rewards.Benefits)
}
