package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// OrderRepo provides access to the orders and order_items tables.
// Creation and status changes run inside caller-owned transactions so
// that the rewards ledger moves atomically with the order row.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *OrderRepo) DB() *sql.DB { return r.db }

const orderColumns = "id, order_number, user_id, subtotal, tax, total, status, type, created_at, updated_at"

func scanOrder(row interface{ Scan(...any) error }) (model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Subtotal, &o.Tax, &o.Total,
		&o.Status, &o.Type, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// CreateTx inserts an order and its items within a transaction. IDs
// are generated here; the caller supplies the order number and all
// captured prices. A duplicate order number surfaces as a raw
// duplicate error so the caller can regenerate the number and retry.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO orders (id, order_number, user_id, subtotal, tax, total, status, type) VALUES (?,?,?,?,?,?,?,?)",
		o.ID, o.OrderNumber, o.UserID, o.Subtotal, o.Tax, o.Total, o.Status, o.Type)
	if err != nil {
		return err
	}
	if len(o.Items) > 0 {
		query := "INSERT INTO order_items (id, order_id, coffee_id, quantity, price, size, notes) VALUES "
		args := make([]any, 0, len(o.Items)*7)
		for i := range o.Items {
			if i > 0 {
				query += ","
			}
			query += "(?,?,?,?,?,?,?)"
			it := &o.Items[i]
			if it.ID == "" {
				it.ID = uuid.NewString()
			}
			it.OrderID = o.ID
			args = append(args, it.ID, it.OrderID, it.CoffeeID, it.Quantity, it.Price, it.Size, it.Notes)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	// read back defaults so the caller can return the stored row
	return tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM orders WHERE id = ?", o.ID).
		Scan(&o.CreatedAt, &o.UpdatedAt)
}

// IsDuplicateNumber reports whether err is a unique-index collision on
// the order number.
func (r *OrderRepo) IsDuplicateNumber(err error) bool { return isDuplicate(err) }

// GetByID fetches an order with its items and each item's coffee,
// ErrNotFound when absent.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	orders := []model.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return model.Order{}, err
	}
	return orders[0], nil
}

// GetDetail is GetByID plus the owning user and payment record, used
// by the detail endpoints.
func (r *OrderRepo) GetDetail(ctx context.Context, id string) (model.Order, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	var u model.User
	err = r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", o.UserID).
		Scan(&u.ID, &u.ProviderID, &u.Email, &u.Name, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil && err != sql.ErrNoRows {
		return model.Order{}, err
	}
	if err == nil {
		o.User = &u
	}
	var p model.Payment
	err = r.db.QueryRowContext(ctx,
		"SELECT id, order_id, amount, method, status, transaction_id, created_at FROM payments WHERE order_id = ?", o.ID).
		Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.TransactionID, &p.CreatedAt)
	if err != nil && err != sql.ErrNoRows {
		return model.Order{}, err
	}
	if err == nil {
		o.Payment = &p
	}
	return o, nil
}

// OrderFilter narrows List. Zero values mean "no filter"; Limit is
// clamped by the handler.
type OrderFilter struct {
	UserID string
	Status string
	Type   string
	Limit  int
	Offset int
}

// List returns orders newest first with items attached.
func (r *OrderRepo) List(ctx context.Context, f OrderFilter) ([]model.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders"
	var conds []string
	var args []any
	if f.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, f.Type)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items (with coffee) for a page of orders in a
// single IN query.
func (r *OrderRepo) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	index := make(map[string]int, len(orders))
	ids := make([]any, 0, len(orders))
	placeholders := make([]string, 0, len(orders))
	for i := range orders {
		orders[i].Items = []model.OrderItem{}
		index[orders[i].ID] = i
		ids = append(ids, orders[i].ID)
		placeholders = append(placeholders, "?")
	}
	query := `SELECT oi.id, oi.order_id, oi.coffee_id, oi.quantity, oi.price, oi.size, oi.notes,
	                 co.id, co.name, co.description, co.price, co.category_id, co.available, co.image_url, co.created_at, co.updated_at
	          FROM order_items oi
	          JOIN coffees co ON co.id = oi.coffee_id
	          WHERE oi.order_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY oi.order_id, oi.id`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.OrderItem
		var co model.Coffee
		var notes, imageURL sql.NullString
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.CoffeeID, &it.Quantity, &it.Price, &it.Size, &notes,
			&co.ID, &co.Name, &co.Description, &co.Price, &co.CategoryID, &co.Available, &imageURL, &co.CreatedAt, &co.UpdatedAt,
		); err != nil {
			return err
		}
		it.Notes = notes.String
		co.ImageURL = imageURL.String
		it.Coffee = &co
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

// GetForUpdateTx locks and returns the bare order row, preventing a
// concurrent status change from racing the read-validate-write
// sequence. ErrNotFound when absent.
func (r *OrderRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (model.Order, error) {
	o, err := scanOrder(tx.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ? FOR UPDATE", id))
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	return o, err
}

// UpdateStatusTx moves the order to the given status. Transition
// validation happens in the order package before this is called.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id, status string) error {
	_, err := tx.ExecContext(ctx, "UPDATE orders SET status = ? WHERE id = ?", status, id)
	return err
}

// StatusCounts returns the number of orders per status in one query.
func (r *OrderRepo) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// HasCompletedPurchase reports whether the user has a COMPLETED order
// containing the coffee. It gates review creation.
func (r *OrderRepo) HasCompletedPurchase(ctx context.Context, userID, coffeeID string) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM order_items oi
	             JOIN orders o ON o.id = oi.order_id
	             WHERE oi.coffee_id = ? AND o.user_id = ? AND o.status = 'COMPLETED')`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, coffeeID, userID).Scan(&exists)
	return exists, err
}

// ListCompletedByUser returns the user's COMPLETED orders, newest
// first, capped at limit. The rewards history is derived from it.
func (r *OrderRepo) ListCompletedByUser(ctx context.Context, userID string, limit int) ([]model.Order, error) {
	return r.List(ctx, OrderFilter{
		UserID: userID,
		Status: "COMPLETED",
		Limit:  limit,
	})
}

// ListRedemptionsByUser returns the user's redemption orders (number
// prefix RWD), newest first, capped at limit.
func (r *OrderRepo) ListRedemptionsByUser(ctx context.Context, userID string, limit int) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = ? AND order_number LIKE 'RWD%' ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
