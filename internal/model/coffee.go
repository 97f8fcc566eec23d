package model

import "time"

// Coffee is a sellable menu item from the `coffees` table. "Deleting"
// a coffee only flips Available to false so that historical order
// items keep a valid reference; unavailable items are hidden from
// public listings.
type Coffee struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  string    `json:"categoryId"`
	Available   bool      `json:"available"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Category is populated by lookups that join the category row.
	Category *Category `json:"category,omitempty"`
}
