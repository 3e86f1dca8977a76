package domain

import "time"

// ShippingInfo is the delivery address collected during checkout.
type ShippingInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Order is created exactly once per completed checkout and never mutated
// afterwards. Items is a snapshot of the cart lines at placement time,
// independent of later cart changes.
type Order struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	Items     []CartLine   `json:"items"`
	Totals    Totals       `json:"totals"`
	Shipping  ShippingInfo `json:"shipping"`
}
