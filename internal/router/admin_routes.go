package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/handler"
	"github.com/iliyamo/coffee-shop-api/internal/middleware"
)

// RegisterAdmin registers the staff surface under /api/v1/admin. All
// routes require a valid token and the admin role.
func RegisterAdmin(e *echo.Echo, menu *handler.AdminMenuHandler, orders *handler.AdminOrderHandler, analytics *handler.AnalyticsHandler, resolver middleware.Resolver) {
	g := e.Group(
		"/api/v1/admin",
		middleware.Authenticate(resolver),
		middleware.RequireAdmin(),
	)

	g.POST("/menu/categories", menu.CreateCategory)
	g.PUT("/menu/categories/:id", menu.UpdateCategory)
	g.DELETE("/menu/categories/:id", menu.DeleteCategory)
	g.POST("/menu/items", menu.CreateItem)
	g.PUT("/menu/items/:id", menu.UpdateItem)
	g.DELETE("/menu/items/:id", menu.DeleteItem)

	g.GET("/orders", orders.List)
	g.GET("/orders/stats/pending-count", orders.PendingCount)
	g.GET("/orders/:id", orders.Get)
	g.PATCH("/orders/:id/status", orders.UpdateStatus)

	g.GET("/analytics/overview", analytics.Overview)
	g.GET("/analytics/sales", analytics.Sales)
	g.GET("/analytics/products", analytics.Products)
	g.GET("/analytics/customers", analytics.Customers)
}
