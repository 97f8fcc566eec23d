package model

import "time"

// Order types.
const (
	OrderTypePickup   = "PICKUP"
	OrderTypeDelivery = "DELIVERY"
)

// Item sizes.
const (
	SizeSmall  = "SMALL"
	SizeMedium = "MEDIUM"
	SizeLarge  = "LARGE"
)

// Order is a customer order from the `orders` table together with its
// items. Monetary fields are captured at creation time; later catalog
// price changes never alter historical orders. Status values and the
// legal transitions between them live in the order package.
//
// Fields:
//
//	OrderNumber – human-readable number derived from the creation time
//	              ("ORD20250114093045", "RWD..." for redemptions). A
//	              unique index backs it; collisions under concurrent
//	              same-second creation are retried with a suffix.
//	Subtotal    – sum of item price × quantity.
//	Tax         – fixed 8% of the subtotal.
//	Total       – subtotal + tax.
type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	UserID      string      `json:"userId"`
	Subtotal    float64     `json:"subtotal"`
	Tax         float64     `json:"tax"`
	Total       float64     `json:"total"`
	Status      string      `json:"status"`
	Type        string      `json:"type"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Items       []OrderItem `json:"items"`

	// User and Payment are populated on detail lookups.
	User    *User    `json:"user,omitempty"`
	Payment *Payment `json:"payment,omitempty"`
}

// OrderItem is a single line of an order. Price is the unit price at
// order-creation time, not a live lookup.
type OrderItem struct {
	ID       string  `json:"id"`
	OrderID  string  `json:"orderId"`
	CoffeeID string  `json:"coffeeId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Size     string  `json:"size"`
	Notes    string  `json:"notes"`

	Coffee *Coffee `json:"coffee,omitempty"`
}

// ValidOrderType reports whether t is a known order type.
func ValidOrderType(t string) bool {
	return t == OrderTypePickup || t == OrderTypeDelivery
}

// ValidSize reports whether s is a known item size.
func ValidSize(s string) bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}
