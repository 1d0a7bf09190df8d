package domain

// ProductSnapshot is the copy of a product kept inside a cart line, so the
// cart renders without another database round trip.
type ProductSnapshot struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"imageUrl,omitempty"`
	CategoryID string  `json:"category_id,omitempty"`
}

// Snapshot copies the fields of p a cart line needs.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		ImageURL:   p.ImageURL,
		CategoryID: p.CategoryID,
	}
}

// CartLine is one product plus quantity in a shopping cart. Quantity is always >= 1.
type CartLine struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price × quantity for the line.
func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}
