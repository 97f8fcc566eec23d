package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/repository"
	"github.com/iliyamo/coffee-shop-api/internal/rewards"
)

// AuthHandler exposes the identity of the calling user. Token
// verification itself happens in middleware; these endpoints report
// the result back to clients.
type AuthHandler struct {
	Rewards *repository.RewardsRepo
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(rw *repository.RewardsRepo) *AuthHandler {
	return &AuthHandler{Rewards: rw}
}

// Me handles GET /auth/me: the local user record plus the loyalty tier.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	rw, rerr := h.Rewards.GetOrCreate(c.Request().Context(), u.ID)
	if rerr != nil {
		return dbError(c, rerr)
	}
	tier := rewards.TierFor(rw.TotalEarned)
	return respond(c, http.StatusOK, echo.Map{
		"user":   u,
		"points": rw.CurrentPoints,
		"tier":   tier.Name,
	}, "user retrieved")
}

// Verify handles GET /auth/verify: a cheap token check for clients.
// Reaching the handler at all means the token resolved.
func (h *AuthHandler) Verify(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{
		"valid":   true,
		"user_id": u.ID,
		"role":    u.Role,
	}, "token is valid")
}
