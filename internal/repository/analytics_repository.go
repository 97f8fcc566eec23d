package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/coffee-shop-api/internal/analytics"
)

// AnalyticsRepo loads the flat rows the analytics package aggregates.
// All queries are restricted to COMPLETED orders; rollup math lives in
// internal/analytics where it can be tested without a database.
type AnalyticsRepo struct {
	db *sql.DB
}

// NewAnalyticsRepo returns an AnalyticsRepo bound to the given database.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// CompletedOrders returns completed orders created in [from, to). A
// zero `to` means no upper bound.
func (r *AnalyticsRepo) CompletedOrders(ctx context.Context, from, to time.Time) ([]analytics.OrderRow, error) {
	query := "SELECT user_id, total, created_at FROM orders WHERE status = 'COMPLETED' AND created_at >= ?"
	args := []any{from}
	if !to.IsZero() {
		query += " AND created_at < ?"
		args = append(args, to)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]analytics.OrderRow, 0)
	for rows.Next() {
		var o analytics.OrderRow
		if err := rows.Scan(&o.UserID, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CompletedItems returns completed order lines joined with coffee and
// category names for orders created since from.
func (r *AnalyticsRepo) CompletedItems(ctx context.Context, from time.Time) ([]analytics.ItemRow, error) {
	const q = `SELECT oi.coffee_id, co.name, ca.name, co.price, oi.quantity, oi.price * oi.quantity
	           FROM order_items oi
	           JOIN orders o ON o.id = oi.order_id
	           JOIN coffees co ON co.id = oi.coffee_id
	           JOIN categories ca ON ca.id = co.category_id
	           WHERE o.status = 'COMPLETED' AND o.created_at >= ?`
	rows, err := r.db.QueryContext(ctx, q, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]analytics.ItemRow, 0)
	for rows.Next() {
		var it analytics.ItemRow
		if err := rows.Scan(&it.CoffeeID, &it.Name, &it.Category, &it.UnitPrice, &it.Quantity, &it.LineTotal); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CustomersWithOrders returns, per customer with at least one
// completed order since from, their window aggregates plus account
// creation time and points balance.
func (r *AnalyticsRepo) CustomersWithOrders(ctx context.Context, from time.Time) ([]analytics.CustomerRow, error) {
	const q = `SELECT u.id, u.name, u.email, u.created_at,
	                  COUNT(o.id), COALESCE(SUM(o.total), 0), COALESCE(rw.current_points, 0)
	           FROM users u
	           JOIN orders o ON o.user_id = u.id AND o.status = 'COMPLETED' AND o.created_at >= ?
	           LEFT JOIN rewards rw ON rw.user_id = u.id
	           GROUP BY u.id, u.name, u.email, u.created_at, rw.current_points`
	rows, err := r.db.QueryContext(ctx, q, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]analytics.CustomerRow, 0)
	for rows.Next() {
		var c analytics.CustomerRow
		if err := rows.Scan(&c.UserID, &c.Name, &c.Email, &c.CreatedAt, &c.OrderCount, &c.TotalSpent, &c.Points); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
