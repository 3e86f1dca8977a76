package domain

import "time"

// User roles. Admin accounts may manage the catalog; everyone else is a
// customer.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a registered storefront account. Email is the unique key.
//
// The password is stored as given. This storefront is an explicit demo of
// client-side persistence; login is a case-sensitive exact match against the
// stored value.
type User struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session marks the currently authenticated user. At most one session exists
// at a time; its absence means logged out.
type Session struct {
	Email string `json:"email"`
}
