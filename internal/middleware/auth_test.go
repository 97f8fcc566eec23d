package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-api/internal/identity"
	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// stubResolver resolves a fixed token to a fixed user and rejects
// everything else.
type stubResolver struct {
	token string
	user  *model.User
}

func (s *stubResolver) Resolve(_ context.Context, token string) (*model.User, error) {
	if token == s.token {
		return s.user, nil
	}
	return nil, identity.ErrUnauthorized
}

func doRequest(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *model.User) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *model.User
	handler := mw(func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, seen
}

func TestAuthenticateMissingToken(t *testing.T) {
	r := &stubResolver{token: "good", user: &model.User{ID: "u1"}}

	rec, _ := doRequest(Authenticate(r), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")

	rec, _ = doRequest(Authenticate(r), "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	r := &stubResolver{token: "good", user: &model.User{ID: "u1"}}
	rec, seen := doRequest(Authenticate(r), "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestAuthenticateStoresUser(t *testing.T) {
	u := &model.User{ID: "u1", Role: model.RoleCustomer}
	rec, seen := doRequest(Authenticate(&stubResolver{token: "good", user: u}), "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.ID)
}

func TestOptionalAuthenticate(t *testing.T) {
	u := &model.User{ID: "u1"}
	r := &stubResolver{token: "good", user: u}

	// anonymous requests pass through
	rec, seen := doRequest(OptionalAuthenticate(r), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)

	// a bad token is ignored, not rejected
	rec, seen = doRequest(OptionalAuthenticate(r), "Bearer bad")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)

	rec, seen = doRequest(OptionalAuthenticate(r), "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.ID)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	run := func(u *model.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if u != nil {
			c.Set("user", u)
		}
		handler := RequireAdmin()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		_ = handler(c)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, run(nil).Code)
	assert.Equal(t, http.StatusForbidden, run(&model.User{ID: "u1", Role: model.RoleCustomer}).Code)
	assert.Equal(t, http.StatusOK, run(&model.User{ID: "u2", Role: model.RoleAdmin}).Code)
}
