package domain

import "time"

// CartLine is one entry in the shopping cart. Lines are identified by the
// (ProductID, Size, Color) triple; adding a matching item merges quantities
// instead of appending a duplicate. Qty never drops below 1.
type CartLine struct {
	ProductID int64     `json:"productId"`
	Qty       int       `json:"qty"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

// SameVariant reports whether two lines refer to the same product variant
// and should therefore be merged.
func (l CartLine) SameVariant(productID int64, size, color string) bool {
	return l.ProductID == productID && l.Size == size && l.Color == color
}

// Cart is the whole persisted cart document: the line items plus the promo
// flag set when a valid promo code has been applied.
type Cart struct {
	Lines []CartLine `json:"lines"`
	Promo string     `json:"promo,omitempty"`
}

// ItemCount is the total quantity across all lines, displayed as the cart
// badge value.
func (c Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Qty
	}
	return count
}

// Totals is the priced summary of a cart or order snapshot.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}
