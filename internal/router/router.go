// Package router wires handlers to routes. Public, customer and admin
// surfaces are registered separately so each can carry its own
// middleware chain.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/handler"
)

// RegisterRoutes registers routes that carry no authentication at all.
// Currently only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}
