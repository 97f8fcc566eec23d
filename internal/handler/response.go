// Package handler contains the HTTP handlers. All responses share one
// envelope: {success, data, message, timestamp} on success and
// {success:false, error:{code, message, details?}, timestamp} on
// failure. Domain and repository errors map to stable error codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/middleware"
	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

// Error codes returned in the failure envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeInsufficientPoints = "INSUFFICIENT_POINTS"
	CodePurchaseRequired   = "PURCHASE_REQUIRED"
	CodeDuplicateReview    = "DUPLICATE_REVIEW"
	CodeCategoryInUse      = "CATEGORY_IN_USE"
	CodeItemUnavailable    = "ITEM_UNAVAILABLE"
	CodeInvalidReference   = "INVALID_REFERENCE"
	CodeDatabase           = "DATABASE_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     *apiError `json:"error,omitempty"`
	Timestamp string    `json:"timestamp"`
}

func stamp() string { return time.Now().UTC().Format(time.RFC3339) }

// respond writes the success envelope.
func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, envelope{Success: true, Data: data, Message: message, Timestamp: stamp()})
}

// fail writes the failure envelope.
func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, envelope{
		Success:   false,
		Error:     &apiError{Code: code, Message: message},
		Timestamp: stamp(),
	})
}

// failDetails is fail with a details payload (field errors, ids).
func failDetails(c echo.Context, status int, code, message string, details any) error {
	return c.JSON(status, envelope{
		Success:   false,
		Error:     &apiError{Code: code, Message: message, Details: details},
		Timestamp: stamp(),
	})
}

// dbError logs the underlying failure and reports a generic 500, so
// storage details never leak to clients.
func dbError(c echo.Context, err error) error {
	c.Logger().Errorf("database error: %v", err)
	return fail(c, http.StatusInternalServerError, CodeDatabase, "database operation failed")
}

// repoError translates the repository sentinels; anything unmatched is
// treated as a database failure.
func repoError(c echo.Context, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, CodeNotFound, notFoundMsg)
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusBadRequest, CodeConflict, "resource already exists")
	case errors.Is(err, repository.ErrInvalidReference):
		return fail(c, http.StatusBadRequest, CodeInvalidReference, "referenced resource does not exist")
	default:
		return dbError(c, err)
	}
}

// currentUser returns the authenticated user; handlers behind
// Authenticate can rely on it being present, this guards the wiring.
func currentUser(c echo.Context) (*model.User, error) {
	if u := middleware.CurrentUser(c); u != nil {
		return u, nil
	}
	return nil, fail(c, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
}

// pageParams reads limit/skip query parameters, clamping limit to
// [1, max] with the given default and skip to >= 0.
func pageParams(c echo.Context, def, max int) (limit, skip int) {
	limit = def
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	if v := c.QueryParam("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			skip = n
		}
	}
	return limit, skip
}
