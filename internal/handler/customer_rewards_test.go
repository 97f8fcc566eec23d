package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

func newRedeemContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/customer/rewards/redeem", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &model.User{ID: "u1", Role: model.RoleCustomer})
	return c, rec
}

func redeemErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	apiErr, ok := env["error"].(map[string]any)
	require.True(t, ok)
	code, _ := apiErr["code"].(string)
	return code
}

func TestRedeemRequiresCoffee(t *testing.T) {
	h := &RewardsHandler{}
	c, rec := newRedeemContext(`{}`)

	require.NoError(t, h.Redeem(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, CodeValidation, redeemErrorCode(t, rec))
}

func TestRedeemRejectsUnknownSize(t *testing.T) {
	h := &RewardsHandler{}
	c, rec := newRedeemContext(`{"coffee_id":"c1","size":"VENTI"}`)

	require.NoError(t, h.Redeem(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, CodeValidation, redeemErrorCode(t, rec))
}

func TestRedeemRejectsMalformedBody(t *testing.T) {
	h := &RewardsHandler{}
	c, rec := newRedeemContext(`{"coffee_id":`)

	require.NoError(t, h.Redeem(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, CodeValidation, redeemErrorCode(t, rec))
}
