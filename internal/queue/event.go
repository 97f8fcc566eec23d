// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried on the order.events queue.
const (
	KindOrderPlaced        = "order.placed"
	KindOrderStatusChanged = "order.status_changed"
)

// OrderPlacedEvent is published when a customer order is created. It
// carries enough detail for downstream consumers to log or notify
// without querying the primary database.
type OrderPlacedEvent struct {
	Kind        string  `json:"kind"`
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	UserID      string  `json:"user_id"`
	Type        string  `json:"type"`
	ItemCount   int     `json:"item_count"`
	Total       float64 `json:"total"`
	PlacedAt    string  `json:"placed_at"`
}

// OrderStatusChangedEvent is published on every order status
// transition, including cancellations.
type OrderStatusChangedEvent struct {
	Kind        string `json:"kind"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      string `json:"user_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	ChangedAt   string `json:"changed_at"`
}
