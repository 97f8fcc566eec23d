package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/middleware"
	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

// AdminMenuHandler manages the catalog: category CRUD and coffee CRUD.
// Mutations invalidate the public menu cache.
type AdminMenuHandler struct {
	Categories *repository.CategoryRepo
	Coffees    *repository.CoffeeRepo
	Cache      *middleware.CacheInvalidator
}

// NewAdminMenuHandler constructs an AdminMenuHandler.
func NewAdminMenuHandler(categories *repository.CategoryRepo, coffees *repository.CoffeeRepo, cache *middleware.CacheInvalidator) *AdminMenuHandler {
	return &AdminMenuHandler{Categories: categories, Coffees: coffees, Cache: cache}
}

type categoryRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   *int   `json:"sort_order"`
	Active      *bool  `json:"active"`
}

// CreateCategory handles POST /admin/menu/categories. The caller
// supplies the category id (a stable slug like "espresso").
func (h *AdminMenuHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid request body")
	}
	if req.ID == "" || req.Name == "" {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "id and name are required")
	}
	cat := model.Category{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if req.SortOrder != nil {
		cat.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		cat.Active = *req.Active
	}
	created, err := h.Categories.Create(c.Request().Context(), cat)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusBadRequest, CodeConflict, "category already exists")
		}
		return dbError(c, err)
	}
	h.Cache.Invalidate(c.Request().Context())
	return respond(c, http.StatusCreated, created, "category created")
}

// UpdateCategory handles PUT /admin/menu/categories/:id. Only fields
// present in the body are changed.
func (h *AdminMenuHandler) UpdateCategory(c echo.Context) error {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		SortOrder   *int    `json:"sort_order"`
		Active      *bool   `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid request body")
	}
	updated, err := h.Categories.Update(c.Request().Context(), c.Param("id"), repository.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		Active:      req.Active,
	})
	if err != nil {
		return repoError(c, err, "category not found")
	}
	h.Cache.Invalidate(c.Request().Context())
	return respond(c, http.StatusOK, updated, "category updated")
}

// DeleteCategory handles DELETE /admin/menu/categories/:id. A category
// that still has coffees cannot be removed.
func (h *AdminMenuHandler) DeleteCategory(c echo.Context) error {
	err := h.Categories.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusBadRequest, CodeCategoryInUse, "category still has menu items")
		}
		return repoError(c, err, "category not found")
	}
	h.Cache.Invalidate(c.Request().Context())
	return respond(c, http.StatusOK, nil, "category deleted")
}

type coffeeRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"category_id"`
	ImageURL    string  `json:"image_url"`
	Available   *bool   `json:"available"`
}

// CreateItem handles POST /admin/menu/items.
func (h *AdminMenuHandler) CreateItem(c echo.Context) error {
	var req coffeeRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid request body")
	}
	if req.Name == "" || req.CategoryID == "" {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "name and category_id are required")
	}
	if req.Price <= 0 {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "price must be positive")
	}
	coffee := model.Coffee{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Available:   true,
	}
	if req.Available != nil {
		coffee.Available = *req.Available
	}
	created, err := h.Coffees.Create(c.Request().Context(), coffee)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return fail(c, http.StatusBadRequest, CodeInvalidReference, "category does not exist")
		}
		return dbError(c, err)
	}
	h.Cache.Invalidate(c.Request().Context())
	return respond(c, http.StatusCreated, created, "menu item created")
}

// UpdateItem handles PUT /admin/menu/items/:id.
func (h *AdminMenuHandler) UpdateItem(c echo.Context) error {
	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		CategoryID  *string  `json:"category_id"`
		ImageURL    *string  `json:"image_url"`
		Available   *bool    `json:"available"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid request body")
	}
	if req.Price != nil && *req.Price <= 0 {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "price must be positive")
	}
	updated, err := h.Coffees.Update(c.Request().Context(), c.Param("id"), repository.CoffeePatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Available:   req.Available,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return fail(c, http.StatusBadRequest, CodeInvalidReference, "category does not exist")
		}
		return repoError(c, err, "menu item not found")
	}
	h.Cache.Invalidate(c.Request().Context())
	return respond(c, http.StatusOK, updated, "menu item updated")
}

// DeleteItem handles DELETE /admin/menu/items/:id. The item is marked
// unavailable rather than removed, so past orders keep their lines.
func (h *AdminMenuHandler) DeleteItem(c echo.Context) error {
	if err := h.Coffees.SoftDelete(c.Request().Context(), c.Param("id")); err != nil {
		return repoError(c, err, "menu item not found")
	}
	h.Cache.Invalidate(c.Request().Context())
	return respond(c, http.StatusOK, nil, "menu item removed from sale")
}
