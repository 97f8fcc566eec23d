package model

import "time"

// Review is a product review from the `reviews` table. At most one
// review exists per (user, coffee) pair, enforced by a unique index,
// and creation requires a COMPLETED order containing the coffee.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CoffeeID  string    `json:"coffeeId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User   *User   `json:"user,omitempty"`
	Coffee *Coffee `json:"coffee,omitempty"`
}
