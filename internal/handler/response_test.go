package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

func newContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRespondEnvelope(t *testing.T) {
	c, rec := newContext("/")
	require.NoError(t, respond(c, http.StatusOK, echo.Map{"id": "x"}, "done"))

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "done", env["message"])
	assert.NotEmpty(t, env["timestamp"])
	assert.NotContains(t, env, "error")

	data, ok := env["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "x", data["id"])
}

func TestFailEnvelope(t *testing.T) {
	c, rec := newContext("/")
	require.NoError(t, fail(c, http.StatusNotFound, CodeNotFound, "order not found"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, false, env["success"])
	assert.NotContains(t, env, "data")

	apiErr, ok := env["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", apiErr["code"])
	assert.Equal(t, "order not found", apiErr["message"])
	assert.NotContains(t, apiErr, "details")
}

func TestFailDetails(t *testing.T) {
	c, rec := newContext("/")
	require.NoError(t, failDetails(c, http.StatusBadRequest, CodeInvalidTransition, "bad move",
		echo.Map{"from": "PENDING", "to": "COMPLETED"}))

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	apiErr := env["error"].(map[string]any)
	details, ok := apiErr["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "PENDING", details["from"])
}

func TestRepoErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{repository.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{repository.ErrConflict, http.StatusBadRequest, "CONFLICT"},
		{repository.ErrInvalidReference, http.StatusBadRequest, "INVALID_REFERENCE"},
		{assert.AnError, http.StatusInternalServerError, "DATABASE_ERROR"},
	}
	for _, tc := range cases {
		c, rec := newContext("/")
		require.NoError(t, repoError(c, tc.err, "missing"))
		assert.Equal(t, tc.status, rec.Code)

		var env map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, tc.code, env["error"].(map[string]any)["code"])
	}
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query     string
		wantLimit int
		wantSkip  int
	}{
		{"", 50, 0},
		{"?limit=10&skip=20", 10, 20},
		{"?limit=500", 100, 0},
		{"?limit=0", 1, 0},
		{"?limit=-5&skip=-3", 1, 0},
		{"?limit=abc&skip=xyz", 50, 0},
	}
	for _, tc := range cases {
		c, _ := newContext("/" + tc.query)
		limit, skip := pageParams(c, 50, 100)
		assert.Equal(t, tc.wantLimit, limit, "query %q", tc.query)
		assert.Equal(t, tc.wantSkip, skip, "query %q", tc.query)
	}
}
