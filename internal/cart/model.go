package cart

import (
	"sabores-app/internal/product"
)

// Line is one distinct product in the cart. Quantity never drops below 1
// through Decrease; removing the line is a separate explicit action.
type Line struct {
	Product  product.Product `json:"product"`
	ImageURL *string         `json:"image_url,omitempty"`
	Discount *float64        `json:"discount,omitempty"`
	Quantity int             `json:"quantity"`

	// seq preserves insertion order when listing lines.
	seq int
}

// Subtotal prices the line, applying the promotional discount fraction when
// one is attached.
func (l Line) Subtotal() float64 {
	total := l.Product.Price * float64(l.Quantity)
	if l.Discount != nil {
		total *= 1 - *l.Discount
	}
	return total
}
