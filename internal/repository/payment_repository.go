package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// PaymentRepo provides access to the payments table. Payment rows are
// write-once records; nothing updates them after creation.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx records a payment for an order within the order-creation
// transaction.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.TransactionID == "" {
		p.TransactionID = uuid.NewString()
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO payments (id, order_id, amount, method, status, transaction_id) VALUES (?,?,?,?,?,?)",
		p.ID, p.OrderID, p.Amount, p.Method, p.Status, p.TransactionID)
	return err
}

// GetByOrderID fetches the payment for an order, ErrNotFound when the
// order has none.
func (r *PaymentRepo) GetByOrderID(ctx context.Context, orderID string) (model.Payment, error) {
	var p model.Payment
	err := r.db.QueryRowContext(ctx,
		"SELECT id, order_id, amount, method, status, transaction_id, created_at FROM payments WHERE order_id = ?",
		orderID).Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.TransactionID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrNotFound
	}
	return p, err
}
