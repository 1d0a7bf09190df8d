// Package cart holds the shopping-cart state: an ordered list of lines, at most
// one per product, persisted as a whole after every mutation.
package cart

import (
	"context"
	"fmt"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
)

// MaxLineQuantity caps the quantity of a single line. Additions past it
// saturate instead of overflowing.
const MaxLineQuantity = 999

// Cart is the in-memory line list. The zero value is an empty cart.
type Cart struct {
	lines []domain.CartLine
}

// FromLines builds a cart from persisted lines, merging duplicates and dropping
// lines with a non-positive quantity.
func FromLines(lines []domain.CartLine) *Cart {
	c := &Cart{}
	for _, l := range lines {
		c.Add(l.Product, l.Quantity)
	}
	return c
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Add changes the quantity of product by delta. A product not yet in the cart
// is inserted only when delta is positive. When an adjustment would take a
// line below 1 the line is removed, so no zero-quantity line ever exists.
// Quantities never exceed MaxLineQuantity. It reports whether the cart changed.
func (c *Cart) Add(product domain.ProductSnapshot, delta int) bool {
	if delta == 0 {
		return false
	}
	i := c.index(product.ID)
	if i < 0 {
		if delta < 0 {
			return false
		}
		c.lines = append(c.lines, domain.CartLine{Product: product, Quantity: min(delta, MaxLineQuantity)})
		return true
	}

	cur := c.lines[i].Quantity
	if delta > 0 && cur >= MaxLineQuantity-delta {
		// also covers cur+delta overflowing int
		if cur == MaxLineQuantity {
			return false
		}
		delta = MaxLineQuantity - cur
	}
	qty := cur + delta
	if qty < 1 {
		c.removeAt(i)
		return true
	}
	c.lines[i].Quantity = qty
	// keep the snapshot current (price changes between adds)
	if product.Name != "" {
		c.lines[i].Product = product
	}
	return true
}

// Remove deletes the line for productID entirely.
func (c *Cart) Remove(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Quantity returns the quantity held for productID, 0 when absent.
func (c *Cart) Quantity(productID string) int {
	if i := c.index(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// TotalItems is the sum of quantities.
func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the sum of price × quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) index(productID string) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Store binds a Cart to a persister key. Every mutation writes the full line
// list back before returning.
type Store struct {
	key       string
	persister ports.CartPersister
	cart      *Cart
}

// Open loads the cart stored under key. A missing key yields an empty cart.
func Open(ctx context.Context, persister ports.CartPersister, key string) (*Store, error) {
	lines, err := persister.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", key, err)
	}
	return &Store{key: key, persister: persister, cart: FromLines(lines)}, nil
}

// Cart exposes the current state for reading.
func (s *Store) Cart() *Cart { return s.cart }

func (s *Store) AddToCart(ctx context.Context, product domain.ProductSnapshot, delta int) error {
	if !s.cart.Add(product, delta) {
		return nil
	}
	return s.save(ctx)
}

func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	if !s.cart.Remove(productID) {
		return nil
	}
	return s.save(ctx)
}

func (s *Store) ClearCart(ctx context.Context) error {
	s.cart.Clear()
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	if err := s.persister.Save(ctx, s.key, s.cart.Lines()); err != nil {
		return fmt.Errorf("save cart %s: %w", s.key, err)
	}
	return nil
}
