package model

import "time"

// Payment is a payment record from the `payments` table. Rows are
// written once when an order is placed and never mutated afterwards;
// there is no gateway integration.
type Payment struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"orderId"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}
