package handler

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/order"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
	"github.com/iliyamo/coffee-shop-api/internal/rewards"
)

// RewardsHandler serves the loyalty-program endpoints. Redemption runs
// in a transaction with the rewards row locked so concurrent redeems
// cannot overdraw the balance.
type RewardsHandler struct {
	Rewards *repository.RewardsRepo
	Orders  *repository.OrderRepo
	Coffees *repository.CoffeeRepo
}

// NewRewardsHandler constructs a RewardsHandler.
func NewRewardsHandler(rw *repository.RewardsRepo, orders *repository.OrderRepo, coffees *repository.CoffeeRepo) *RewardsHandler {
	return &RewardsHandler{Rewards: rw, Orders: orders, Coffees: coffees}
}

// My handles GET /customer/rewards/my: balance, lifetime counters and
// the current tier.
func (h *RewardsHandler) My(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	rw, err := h.Rewards.GetOrCreate(c.Request().Context(), u.ID)
	if err != nil {
		return dbError(c, err)
	}
	tier := rewards.TierFor(rw.TotalEarned)
	return respond(c, http.StatusOK, echo.Map{
		"current_points": rw.CurrentPoints,
		"total_earned":   rw.TotalEarned,
		"total_redeemed": rw.TotalRedeemed,
		"tier":           tier,
	}, "rewards retrieved")
}

// historyEntry is one row of the rewards history, derived from orders
// rather than a stored ledger.
type historyEntry struct {
	Type        string    `json:"type"` // EARNED or REDEEMED
	Points      int       `json:"points"`
	OrderNumber string    `json:"order_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// History handles GET /customer/rewards/history. EARNED entries come
// from completed orders, REDEEMED entries from redemption orders;
// merged newest first.
func (h *RewardsHandler) History(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	completed, err := h.Orders.ListCompletedByUser(ctx, u.ID, 100)
	if err != nil {
		return dbError(c, err)
	}
	redemptions, err := h.Orders.ListRedemptionsByUser(ctx, u.ID, 100)
	if err != nil {
		return dbError(c, err)
	}

	entries := make([]historyEntry, 0, len(completed)+len(redemptions))
	for _, o := range completed {
		entries = append(entries, historyEntry{
			Type:        "EARNED",
			Points:      order.Points(o.Total),
			OrderNumber: o.OrderNumber,
			CreatedAt:   o.CreatedAt,
		})
	}
	for _, o := range redemptions {
		entries = append(entries, historyEntry{
			Type:        "REDEEMED",
			Points:      -rewards.RedeemCost,
			OrderNumber: o.OrderNumber,
			CreatedAt:   o.CreatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return respond(c, http.StatusOK, entries, "rewards history retrieved")
}

type redeemRequest struct {
	CoffeeID string `json:"coffee_id"`
	Size     string `json:"size"`
}

// Redeem handles POST /customer/rewards/redeem: 200 points buy one
// free coffee of the caller's choice, materialized as a zero-price
// CONFIRMED pickup order with an RWD-prefixed number and a single
// zero-price item.
func (h *RewardsHandler) Redeem(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid request body")
	}
	if req.CoffeeID == "" {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "coffee_id is required")
	}
	if req.Size == "" {
		req.Size = model.SizeMedium
	}
	if !model.ValidSize(req.Size) {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid size")
	}
	ctx := c.Request().Context()

	coffee, err := h.Coffees.GetByID(ctx, req.CoffeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusBadRequest, CodeInvalidReference, "unknown coffee")
		}
		return dbError(c, err)
	}
	if !coffee.Available {
		return fail(c, http.StatusBadRequest, CodeItemUnavailable, coffee.Name+" is currently unavailable")
	}

	// ensure the row exists before locking it
	if _, err := h.Rewards.GetOrCreate(ctx, u.ID); err != nil {
		return dbError(c, err)
	}

	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return dbError(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rw, err := h.Rewards.GetForUpdateTx(ctx, tx, u.ID)
	if err != nil {
		return dbError(c, err)
	}
	if !rewards.CanRedeem(rw.CurrentPoints) {
		return failDetails(c, http.StatusBadRequest, CodeInsufficientPoints,
			"not enough points to redeem",
			echo.Map{"current_points": rw.CurrentPoints, "required": rewards.RedeemCost})
	}

	o := model.Order{
		OrderNumber: order.RedemptionNumber(time.Now().UTC()),
		UserID:      u.ID,
		Status:      string(order.StatusConfirmed),
		Type:        model.OrderTypePickup,
		Items: []model.OrderItem{{
			CoffeeID: coffee.ID,
			Quantity: 1,
			Price:    0,
			Size:     req.Size,
			Notes:    "rewards redemption",
		}},
	}
	if err := h.Orders.CreateTx(ctx, tx, &o); err != nil {
		if !h.Orders.IsDuplicateNumber(err) {
			return dbError(c, err)
		}
		o.OrderNumber = order.WithSuffix(o.OrderNumber)
		if err := h.Orders.CreateTx(ctx, tx, &o); err != nil {
			return dbError(c, err)
		}
	}
	if err := h.Rewards.RedeemTx(ctx, tx, u.ID, rewards.RedeemCost); err != nil {
		return dbError(c, err)
	}

	if err := tx.Commit(); err != nil {
		return dbError(c, err)
	}
	committed = true

	return respond(c, http.StatusOK, echo.Map{
		"order":            o,
		"points_spent":     rewards.RedeemCost,
		"remaining_points": rw.CurrentPoints - rewards.RedeemCost,
	}, "points redeemed")
}

// Benefits handles GET /customer/rewards/benefits: the caller's tier
// with its perks and the distance to the next tier.
func (h *RewardsHandler) Benefits(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	rw, err := h.Rewards.GetOrCreate(c.Request().Context(), u.ID)
	if err != nil {
		return dbError(c, err)
	}
	return respond(c, http.StatusOK, rewards.TierFor(rw.TotalEarned), "benefits retrieved")
}
