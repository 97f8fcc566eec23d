package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/handler"
	"github.com/iliyamo/coffee-shop-api/internal/middleware"
)

// RegisterPublic registers the guest-visible surface: the menu (behind
// the Redis response cache) and per-coffee reviews. The review listing
// takes optional authentication so a signed-in caller sees their own
// review first.
func RegisterPublic(e *echo.Echo, menu *handler.MenuHandler, reviews *handler.ReviewHandler, resolver middleware.Resolver, cache echo.MiddlewareFunc) {
	g := e.Group("/api/v1")

	m := g.Group("/menu", cache)
	m.GET("/categories", menu.ListCategories)
	m.GET("/items", menu.ListItems)
	m.GET("/items/:id", menu.GetItem)

	g.GET("/customer/reviews/coffee/:id", reviews.ByCoffee, middleware.OptionalAuthenticate(resolver))
}
