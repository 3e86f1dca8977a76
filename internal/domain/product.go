package domain

import "time"

// Product represents an item in the storefront catalog. The catalog is
// seeded once on first run and only changes through admin edits.
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	Colors      []string  `json:"colors"`
	Sizes       []string  `json:"sizes"`
	Description string    `json:"description"`
	Stock       int       `json:"stock"`
	Bestseller  bool      `json:"bestseller"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasColor reports whether the product is available in the given color.
func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// HasSize reports whether the product is available in the given size.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Review is a customer review attached to a single product. Reviews are
// append-only and kept newest-first.
type Review struct {
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}
