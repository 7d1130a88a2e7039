package product

// Product is the client-side view of a catalog entry: just enough to render
// a cart line and price it.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL *string `json:"image_url,omitempty"`
}
