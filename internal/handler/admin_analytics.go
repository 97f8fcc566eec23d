package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/analytics"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

// AnalyticsHandler serves the admin dashboard reports. All aggregation
// math lives in internal/analytics; this layer only resolves the
// requested window and loads the rows.
type AnalyticsHandler struct {
	Analytics *repository.AnalyticsRepo
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(a *repository.AnalyticsRepo) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: a}
}

func period(c echo.Context) string {
	if p := c.QueryParam("period"); p != "" {
		return p
	}
	return analytics.PeriodToday
}

// Overview handles GET /admin/analytics/overview: revenue with
// change against the previous window, order and customer counts and
// the top five items by quantity.
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	ctx := c.Request().Context()
	p := period(c)
	now := time.Now().UTC()
	start := analytics.PeriodStart(p, now)
	prevStart, prevEnd := analytics.PreviousRange(p, start)

	current, err := h.Analytics.CompletedOrders(ctx, start, time.Time{})
	if err != nil {
		return dbError(c, err)
	}
	previous, err := h.Analytics.CompletedOrders(ctx, prevStart, prevEnd)
	if err != nil {
		return dbError(c, err)
	}
	items, err := h.Analytics.CompletedItems(ctx, start)
	if err != nil {
		return dbError(c, err)
	}

	return respond(c, http.StatusOK, analytics.BuildOverview(p, current, previous, items), "overview retrieved")
}

// Sales handles GET /admin/analytics/sales: a zero-filled daily
// revenue/order series over the window plus summary totals.
func (h *AnalyticsHandler) Sales(c echo.Context) error {
	ctx := c.Request().Context()
	now := time.Now().UTC()
	start := analytics.PeriodStart(period(c), now)

	rows, err := h.Analytics.CompletedOrders(ctx, start, time.Time{})
	if err != nil {
		return dbError(c, err)
	}
	days := analytics.DailySeries(rows, start, now)
	return respond(c, http.StatusOK, echo.Map{
		"daily":   days,
		"summary": analytics.Summarize(days),
	}, "sales report retrieved")
}

// Products handles GET /admin/analytics/products: per-product volume
// and revenue, sorted by revenue.
func (h *AnalyticsHandler) Products(c echo.Context) error {
	ctx := c.Request().Context()
	start := analytics.PeriodStart(period(c), time.Now().UTC())

	items, err := h.Analytics.CompletedItems(ctx, start)
	if err != nil {
		return dbError(c, err)
	}
	return respond(c, http.StatusOK, analytics.ProductTable(items), "product report retrieved")
}

// Customers handles GET /admin/analytics/customers: headline numbers,
// new/regular/vip segments and the top ten customers by spend.
func (h *AnalyticsHandler) Customers(c echo.Context) error {
	ctx := c.Request().Context()
	start := analytics.PeriodStart(period(c), time.Now().UTC())

	rows, err := h.Analytics.CustomersWithOrders(ctx, start)
	if err != nil {
		return dbError(c, err)
	}
	summary, segments, top := analytics.SegmentCustomers(rows, start)
	return respond(c, http.StatusOK, echo.Map{
		"summary":      summary,
		"segments":     segments,
		"topCustomers": top,
	}, "customer report retrieved")
}
