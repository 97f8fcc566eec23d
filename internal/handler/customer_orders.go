package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/order"
	"github.com/iliyamo/coffee-shop-api/internal/queue"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
	"github.com/iliyamo/coffee-shop-api/internal/service"
)

// CustomerOrderHandler serves the customer-facing order endpoints.
// Order creation, cancellation and their rewards side effects each run
// inside a single database transaction.
type CustomerOrderHandler struct {
	Orders   *repository.OrderRepo
	Coffees  *repository.CoffeeRepo
	Rewards  *repository.RewardsRepo
	Payments *repository.PaymentRepo
	PageDef  int
	PageMax  int
}

// NewCustomerOrderHandler constructs a CustomerOrderHandler.
func NewCustomerOrderHandler(orders *repository.OrderRepo, coffees *repository.CoffeeRepo, rw *repository.RewardsRepo, payments *repository.PaymentRepo, pageDef, pageMax int) *CustomerOrderHandler {
	if orders == nil || coffees == nil || rw == nil || payments == nil {
		panic("nil repository passed to NewCustomerOrderHandler")
	}
	return &CustomerOrderHandler{
		Orders: orders, Coffees: coffees, Rewards: rw, Payments: payments,
		PageDef: pageDef, PageMax: pageMax,
	}
}

type orderItemRequest struct {
	CoffeeID string `json:"coffee_id"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	Notes    string `json:"notes"`
}

type createOrderRequest struct {
	Type          string             `json:"type"`
	Items         []orderItemRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"`
}

// Create handles POST /customer/orders. Items are validated against
// the catalog, totals computed server-side, points credited and the
// optional payment recorded, all in one transaction. An order-number
// collision gets one retry with a random suffix.
func (h *CustomerOrderHandler) Create(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid request body")
	}
	if req.Type == "" {
		req.Type = model.OrderTypePickup
	}
	if !model.ValidOrderType(req.Type) {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid order type")
	}
	if len(req.Items) == 0 {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "order must contain at least one item")
	}
	for _, it := range req.Items {
		if it.CoffeeID == "" || it.Quantity < 1 || it.Quantity > 50 {
			return fail(c, http.StatusUnprocessableEntity, CodeValidation, "each item needs a coffee_id and a quantity between 1 and 50")
		}
		if it.Size == "" {
			continue
		}
		if !model.ValidSize(it.Size) {
			return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid item size")
		}
	}

	ctx := c.Request().Context()

	// Resolve every line against the catalog before touching the DB
	// for writes. Unavailable items are a business rule, not a 404.
	items := make([]model.OrderItem, 0, len(req.Items))
	lines := make([]order.Line, 0, len(req.Items))
	for _, it := range req.Items {
		coffee, cerr := h.Coffees.GetByID(ctx, it.CoffeeID)
		if cerr != nil {
			return repoError(c, cerr, "coffee not found: "+it.CoffeeID)
		}
		if !coffee.Available {
			return failDetails(c, http.StatusBadRequest, CodeItemUnavailable, "item is not available", echo.Map{"coffee_id": coffee.ID})
		}
		size := it.Size
		if size == "" {
			size = model.SizeMedium
		}
		items = append(items, model.OrderItem{
			CoffeeID: coffee.ID,
			Quantity: it.Quantity,
			Price:    coffee.Price,
			Size:     size,
			Notes:    it.Notes,
		})
		lines = append(lines, order.Line{UnitPrice: coffee.Price, Quantity: it.Quantity})
	}
	subtotal, tax, total := order.Totals(lines)

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

	o := model.Order{
		OrderNumber: order.Number(time.Now().UTC()),
		UserID:      u.ID,
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       total,
		Status:      string(order.StatusPending),
		Type:        req.Type,
		Items:       items,
	}
	if err := h.Orders.CreateTx(ctx, tx, &o); err != nil {
		if !h.Orders.IsDuplicateNumber(err) {
			return dbError(c, err)
		}
		// same-second collision, retry once with a random suffix
		o.OrderNumber = order.WithSuffix(o.OrderNumber)
		if err := h.Orders.CreateTx(ctx, tx, &o); err != nil {
			return dbError(c, err)
		}
	}

	if pts := order.Points(total); pts > 0 {
		if err := h.Rewards.CreditTx(ctx, tx, u.ID, pts); err != nil {
			return dbError(c, err)
		}
	}

	if req.PaymentMethod != "" {
		p := model.Payment{
			OrderID: o.ID,
			Amount:  total,
			Method:  req.PaymentMethod,
			Status:  "COMPLETED",
		}
		if err := h.Payments.CreateTx(ctx, tx, &p); err != nil {
			return dbError(c, err)
		}
		o.Payment = &p
	}

	if err := tx.Commit(); err != nil {
		return dbError(c, err)
	}
	committed = true

	go func() {
		_ = service.PublishOrderPlaced(context.Background(), queue.OrderPlacedEvent{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			UserID:      u.ID,
			Type:        o.Type,
			ItemCount:   len(o.Items),
			Total:       o.Total,
			PlacedAt:    time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return respond(c, http.StatusCreated, o, "order created")
}

// List handles GET /customer/orders: the caller's orders, newest
// first, with limit/skip pagination and an optional status filter.
func (h *CustomerOrderHandler) List(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	status := c.QueryParam("status")
	if status != "" && !order.ValidStatus(order.Status(status)) {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid status filter")
	}
	limit, skip := pageParams(c, h.PageDef, h.PageMax)
	orders, err := h.Orders.List(c.Request().Context(), repository.OrderFilter{
		UserID: u.ID,
		Status: status,
		Limit:  limit,
		Offset: skip,
	})
	if err != nil {
		return dbError(c, err)
	}
	return respond(c, http.StatusOK, orders, "orders retrieved")
}

// Get handles GET /customer/orders/:id with an ownership check.
func (h *CustomerOrderHandler) Get(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	o, err := h.Orders.GetDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return repoError(c, err, "order not found")
	}
	if o.UserID != u.ID {
		return fail(c, http.StatusForbidden, CodeForbidden, "order belongs to another user")
	}
	return respond(c, http.StatusOK, o, "order retrieved")
}

// Cancel handles PATCH /customer/orders/:id/cancel. Customers may
// cancel PENDING and CONFIRMED orders; points credited at creation are
// reversed when the order had been confirmed. The order row is locked
// for the duration of the transaction.
func (h *CustomerOrderHandler) Cancel(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
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
	if o.UserID != u.ID {
		return fail(c, http.StatusForbidden, CodeForbidden, "order belongs to another user")
	}
	from := order.Status(o.Status)
	if !order.Cancellable(from) {
		return failDetails(c, http.StatusBadRequest, CodeInvalidTransition,
			"order can no longer be cancelled",
			echo.Map{"from": from, "to": order.StatusCancelled})
	}

	if err := h.Orders.UpdateStatusTx(ctx, tx, o.ID, string(order.StatusCancelled)); err != nil {
		return dbError(c, err)
	}
	if from == order.StatusConfirmed {
		if pts := order.Points(o.Total); pts > 0 {
			if err := h.Rewards.ReverseTx(ctx, tx, u.ID, pts); err != nil {
				return dbError(c, err)
			}
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
			To:          string(order.StatusCancelled),
			ChangedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}()

	// the locked read skips items; reload so the payload matches the
	// other order endpoints
	cancelled, err := h.Orders.GetByID(ctx, o.ID)
	if err != nil {
		return dbError(c, err)
	}
	return respond(c, http.StatusOK, cancelled, "order cancelled")
}
