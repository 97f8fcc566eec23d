package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/order"
	"github.com/iliyamo/coffee-shop-api/internal/queue"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
	"github.com/iliyamo/coffee-shop-api/internal/service"
)

// AdminOrderHandler serves the staff-side order management endpoints:
// listing with filters, detail, the status state machine and the
// pending-count rollup.
type AdminOrderHandler struct {
	Orders  *repository.OrderRepo
	Rewards *repository.RewardsRepo
	PageDef int
	PageMax int
}

// NewAdminOrderHandler constructs an AdminOrderHandler.
func NewAdminOrderHandler(orders *repository.OrderRepo, rw *repository.RewardsRepo, pageDef, pageMax int) *AdminOrderHandler {
	return &AdminOrderHandler{Orders: orders, Rewards: rw, PageDef: pageDef, PageMax: pageMax}
}

// List handles GET /admin/orders with status/type/user_id filters and
// limit/skip pagination.
func (h *AdminOrderHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !order.ValidStatus(order.Status(status)) {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid status filter")
	}
	limit, skip := pageParams(c, h.PageDef, h.PageMax)
	orders, err := h.Orders.List(c.Request().Context(), repository.OrderFilter{
		UserID: c.QueryParam("user_id"),
		Status: status,
		Type:   c.QueryParam("type"),
		Limit:  limit,
		Offset: skip,
	})
	if err != nil {
		return dbError(c, err)
	}
	return respond(c, http.StatusOK, orders, "orders retrieved")
}

// Get handles GET /admin/orders/:id: the full order with items,
// customer and payment.
func (h *AdminOrderHandler) Get(c echo.Context) error {
	o, err := h.Orders.GetDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return repoError(c, err, "order not found")
	}
	return respond(c, http.StatusOK, o, "order retrieved")
}

// UpdateStatus handles PATCH /admin/orders/:id/status. The transition
// table is enforced under a row lock; completion credits points and
// cancellation of a confirmed-or-later order reverses them.
func (h *AdminOrderHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid request body")
	}
	to := order.Status(req.Status)
	if !order.ValidStatus(to) {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "unknown order status")
	}

	ctx := c.Request().Context()
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

	o, err := h.Orders.GetForUpdateTx(ctx, tx, c.Param("id"))
	if err != nil {
		return repoError(c, err, "order not found")
	}
	from := order.Status(o.Status)
	if terr := order.ValidateTransition(from, to); terr != nil {
		return failDetails(c, http.StatusBadRequest, CodeInvalidTransition, terr.Error(),
			echo.Map{"from": from, "to": to})
	}

	if err := h.Orders.UpdateStatusTx(ctx, tx, o.ID, string(to)); err != nil {
		return dbError(c, err)
	}

	pts := order.Points(o.Total)
	switch {
	case to == order.StatusCompleted && pts > 0:
		if err := h.Rewards.CreditTx(ctx, tx, o.UserID, pts); err != nil {
			return dbError(c, err)
		}
	case to == order.StatusCancelled && from != order.StatusPending && pts > 0:
		if err := h.Rewards.ReverseTx(ctx, tx, o.UserID, pts); err != nil {
			return dbError(c, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError(c, err)
	}
	committed = true

	go func() {
		_ = service.PublishOrderStatusChanged(context.Background(), queue.OrderStatusChangedEvent{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			UserID:      o.UserID,
			From:        string(from),
			To:          string(to),
			ChangedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}()

	o.Status = string(to)
	return respond(c, http.StatusOK, o, "order status updated")
}

// activeOrderCounts reduces per-status counts to the four in-flight
// statuses plus their sum. Statuses absent from the input show up as
// zero; terminal statuses are excluded.
func activeOrderCounts(counts map[string]int) echo.Map {
	pending := counts[string(order.StatusPending)]
	confirmed := counts[string(order.StatusConfirmed)]
	preparing := counts[string(order.StatusPreparing)]
	ready := counts[string(order.StatusReady)]
	return echo.Map{
		"pending":   pending,
		"confirmed": confirmed,
		"preparing": preparing,
		"ready":     ready,
		"total":     pending + confirmed + preparing + ready,
	}
}

// PendingCount handles GET /admin/orders/stats/pending-count: how many
// orders are currently in flight, broken down by status, for the
// dashboard poll.
func (h *AdminOrderHandler) PendingCount(c echo.Context) error {
	counts, err := h.Orders.StatusCounts(c.Request().Context())
	if err != nil {
		return dbError(c, err)
	}
	return respond(c, http.StatusOK, activeOrderCounts(counts), "pending count retrieved")
}
