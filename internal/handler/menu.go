package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

// MenuHandler serves the public catalog: active categories and
// available coffees. These routes sit behind the response cache.
type MenuHandler struct {
	Categories *repository.CategoryRepo
	Coffees    *repository.CoffeeRepo
}

// NewMenuHandler constructs a MenuHandler.
func NewMenuHandler(categories *repository.CategoryRepo, coffees *repository.CoffeeRepo) *MenuHandler {
	return &MenuHandler{Categories: categories, Coffees: coffees}
}

// ListCategories handles GET /menu/categories. Only active categories
// are returned, ordered by sort order.
func (h *MenuHandler) ListCategories(c echo.Context) error {
	cats, err := h.Categories.ListActive(c.Request().Context())
	if err != nil {
		return dbError(c, err)
	}
	return respond(c, http.StatusOK, cats, "categories retrieved")
}

// ListItems handles GET /menu/items. Only available coffees are
// returned; ?category= narrows to one category.
func (h *MenuHandler) ListItems(c echo.Context) error {
	items, err := h.Coffees.ListAvailable(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return dbError(c, err)
	}
	return respond(c, http.StatusOK, items, "menu items retrieved")
}

// GetItem handles GET /menu/items/:id. Unavailable coffees are hidden
// from the public surface, so both absent and soft-deleted items 404.
func (h *MenuHandler) GetItem(c echo.Context) error {
	item, err := h.Coffees.GetWithCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return repoError(c, err, "menu item not found")
	}
	if !item.Available {
		return fail(c, http.StatusNotFound, CodeNotFound, "menu item not found")
	}
	return respond(c, http.StatusOK, item, "menu item retrieved")
}
