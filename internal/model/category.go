package model

import "time"

// Category is a menu category as stored in the `categories` table.
// Unlike the other entities its primary key is supplied by the caller
// (e.g. "espresso", "coldbrew") so that the storefront can use stable,
// human-readable identifiers. Categories are never hard-deleted while
// a coffee still references them.
//
// Fields:
//
//	ID          – caller-supplied stable identifier.
//	Name        – display name.
//	Description – optional description shown in the storefront.
//	SortOrder   – ascending display ordering.
//	Active      – whether the category appears in public listings.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sortOrder"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
