package model

import "time"

// Rewards is a user's loyalty ledger from the `rewards` table, keyed
// 1:1 with the user and created lazily with zero counters on first
// access. TotalEarned and TotalRedeemed only grow, except that
// cancelling a credited order reverses its earned points.
type Rewards struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	CurrentPoints int       `json:"currentPoints"`
	TotalEarned   int       `json:"totalEarned"`
	TotalRedeemed int       `json:"totalRedeemed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
