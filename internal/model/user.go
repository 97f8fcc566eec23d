package model

import "time"

// User roles. STAFF exists in the schema for future counter tooling;
// only CUSTOMER and ADMIN are assigned today.
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
	RoleAdmin    = "ADMIN"
)

// User is a local user record from the `users` table. Accounts are
// provisioned lazily: the first time a bearer token for an unknown
// subject verifies, the profile is pulled from the identity provider
// and a row is created. ProviderID is the provider's immutable subject
// identifier and is unique.
type User struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"-"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user may access admin endpoints.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
