package service

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/cart"
	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/ports"
)

const cartStripes = 64

// ProductFinder resolves the product a cart line refers to.
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
}

// CartView is the rendered state of one cart.
type CartView struct {
	ID         string            `json:"id"`
	Lines      []domain.CartLine `json:"lines"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

// CartService mutates carts persisted per cart id. Mutations of the same
// cart are serialized; different carts proceed in parallel.
type CartService struct {
	products ProductFinder
	carts    ports.CartPersister
	log      zerolog.Logger
	locks    [cartStripes]sync.Mutex
}

func NewCartService(products ProductFinder, carts ports.CartPersister, log zerolog.Logger) *CartService {
	return &CartService{products: products, carts: carts, log: log}
}

func (s *CartService) Get(ctx context.Context, cartID string) envelope.Envelope[CartView] {
	const op = "getCart"
	return s.with(ctx, op, "Carrito obtenido correctamente", cartID, func(*cart.Store) error { return nil })
}

// Add puts quantity units of a product in the cart. The product must exist
// and not be soft-deleted.
func (s *CartService) Add(ctx context.Context, cartID, productID string, quantity int) envelope.Envelope[CartView] {
	const op = "addToCart"

	if quantity < 1 || quantity > cart.MaxLineQuantity {
		return fail[CartView](s.log, op, domain.ErrInvalidQuantity)
	}
	snap, err := s.resolve(ctx, productID)
	if err != nil {
		return fail[CartView](s.log, op, err)
	}
	return s.with(ctx, op, "Producto agregado al carrito", cartID, func(st *cart.Store) error {
		return st.AddToCart(ctx, snap, quantity)
	})
}

// Adjust changes the quantity of a line by delta. A line taken below 1 is
// removed. Increasing re-reads the product so the snapshot stays current.
func (s *CartService) Adjust(ctx context.Context, cartID, productID string, delta int) envelope.Envelope[CartView] {
	const op = "updateCartItem"

	if delta == 0 || delta > cart.MaxLineQuantity || delta < -cart.MaxLineQuantity {
		return fail[CartView](s.log, op, domain.ErrInvalidQuantity)
	}
	snap := domain.ProductSnapshot{ID: productID}
	if delta > 0 {
		var err error
		if snap, err = s.resolve(ctx, productID); err != nil {
			return fail[CartView](s.log, op, err)
		}
	}
	return s.with(ctx, op, "Carrito actualizado correctamente", cartID, func(st *cart.Store) error {
		return st.AddToCart(ctx, snap, delta)
	})
}

func (s *CartService) Remove(ctx context.Context, cartID, productID string) envelope.Envelope[CartView] {
	const op = "removeFromCart"
	return s.with(ctx, op, "Producto eliminado del carrito", cartID, func(st *cart.Store) error {
		return st.RemoveFromCart(ctx, productID)
	})
}

func (s *CartService) Clear(ctx context.Context, cartID string) envelope.Envelope[CartView] {
	const op = "clearCart"
	return s.with(ctx, op, "Carrito vaciado correctamente", cartID, func(st *cart.Store) error {
		return st.ClearCart(ctx)
	})
}

func (s *CartService) resolve(ctx context.Context, productID string) (domain.ProductSnapshot, error) {
	if strings.TrimSpace(productID) == "" {
		return domain.ProductSnapshot{}, invalid("product id is required")
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.ProductSnapshot{}, err
	}
	if p.Deleted {
		return domain.ProductSnapshot{}, domain.ErrProductNotFound
	}
	return p.Snapshot(), nil
}

func (s *CartService) with(ctx context.Context, op, msg, cartID string, fn func(*cart.Store) error) envelope.Envelope[CartView] {
	if strings.TrimSpace(cartID) == "" {
		return fail[CartView](s.log, op, invalid("cart id is required"))
	}

	mu := s.lock(cartID)
	mu.Lock()
	defer mu.Unlock()

	st, err := cart.Open(ctx, s.carts, cartID)
	if err != nil {
		return fail[CartView](s.log, op, err)
	}
	if err := fn(st); err != nil {
		return fail[CartView](s.log, op, err)
	}
	c := st.Cart()
	return envelope.OK(msg, CartView{
		ID:         cartID,
		Lines:      c.Lines(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}, op)
}

func (s *CartService) lock(cartID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(cartID))
	return &s.locks[h.Sum32()%cartStripes]
}
