// Package middleware provides the HTTP middleware chain: bearer-token
// authentication backed by the external identity provider, role
// guards, Redis response caching and distributed rate limiting.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/identity"
	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// userKey is the echo context key under which the resolved user is stored.
const userKey = "user"

// Resolver resolves a bearer token into a local user. Satisfied by
// *identity.Resolver; tests substitute a stub.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// CurrentUser returns the authenticated user stored by Authenticate or
// OptionalAuthenticate, or nil for anonymous requests.
func CurrentUser(c echo.Context) *model.User {
	if u, ok := c.Get(userKey).(*model.User); ok {
		return u
	}
	return nil
}

// Authenticate requires a valid bearer token. The resolved user is
// stored in the context for handlers; missing or invalid credentials
// end the request with 401.
func Authenticate(r Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return failJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			}
			u, err := r.Resolve(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, identity.ErrUnauthorized) {
					return failJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				}
				c.Logger().Errorf("resolve user: %v", err)
				return failJSON(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not resolve user")
			}
			c.Set(userKey, u)
			return next(c)
		}
	}
}

// OptionalAuthenticate resolves a bearer token when one is present and
// otherwise lets the request through anonymously. A token that is
// present but invalid is ignored rather than rejected, so public
// endpoints stay public.
func OptionalAuthenticate(r Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if u, err := r.Resolve(c.Request().Context(), token); err == nil {
					c.Set(userKey, u)
				}
			}
			return next(c)
		}
	}
}

// RequireAdmin ends the request with 403 unless the authenticated user
// has the admin role. Must run after Authenticate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				return failJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			}
			if !u.IsAdmin() {
				return failJSON(c, http.StatusForbidden, "FORBIDDEN", "admin access required")
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return token, token != ""
}

// failJSON writes the API error envelope. Duplicated from the handler
// package to keep middleware free of a handler dependency.
func failJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{
		"success":   false,
		"error":     echo.Map{"code": code, "message": message},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
