package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/pkg/sanitize"
)

type ProductService struct {
	collection[domain.Product]
	products ports.ProductRepository
}

func NewProductService(products ports.ProductRepository, log zerolog.Logger) *ProductService {
	s := &ProductService{products: products}
	s.init(products, log,
		messages{
			listed:   "Productos obtenidos correctamente",
			found:    "Producto obtenido correctamente",
			created:  "Producto creado correctamente",
			updated:  "Producto actualizado correctamente",
			deleted:  "Producto eliminado correctamente",
			restored: "Producto restaurado correctamente",
		},
		ops{"getProducts", "getProductById", "createProduct", "updateProduct", "softDeleteProduct", "restoreProduct"},
	)
	return s
}

func (s *ProductService) Create(ctx context.Context, in ports.ProductInput) envelope.Envelope[Ref] {
	const op = "createProduct"

	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        sanitize.Text(in.Name),
		Description: sanitize.RichText(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		ImageURL:    sanitize.URL(in.ImageURL),
		Audit:       domain.NewAudit(now()),
	}
	if err := validateProduct(p.Name, p.Price, p.Stock); err != nil {
		return fail[Ref](s.log, op, err)
	}
	if err := s.products.Create(ctx, p); err != nil {
		return fail[Ref](s.log, op, err)
	}
	return s.mutated(op, s.msg.created, p.ID)
}

func (s *ProductService) Update(ctx context.Context, id string, p ports.ProductPatch) envelope.Envelope[Ref] {
	const op = "updateProduct"

	if p.Name != nil {
		*p.Name = sanitize.Text(*p.Name)
		if *p.Name == "" {
			return fail[Ref](s.log, op, invalid("name is required"))
		}
	}
	if p.Description != nil {
		*p.Description = sanitize.RichText(*p.Description)
	}
	if p.ImageURL != nil {
		*p.ImageURL = sanitize.URL(*p.ImageURL)
	}
	if p.Price != nil && *p.Price <= 0 {
		return fail[Ref](s.log, op, invalid("price must be greater than zero"))
	}
	if p.Stock != nil && *p.Stock < 0 {
		return fail[Ref](s.log, op, invalid("stock cannot be negative"))
	}

	if err := s.products.Update(ctx, id, p, now()); err != nil {
		return fail[Ref](s.log, op, err)
	}
	return s.mutated(op, s.msg.updated, id)
}

// ListByCategory returns the live products of a category, optionally leaving
// one product out (the "related products" of a detail screen).
func (s *ProductService) ListByCategory(ctx context.Context, categoryID, excludeID string) envelope.Envelope[[]domain.Product] {
	const op = "getProductsByCategory"

	if strings.TrimSpace(categoryID) == "" {
		return fail[[]domain.Product](s.log, op, invalid("category id is required"))
	}
	items, err := s.products.ListByCategory(ctx, categoryID, excludeID)
	if err != nil {
		return fail[[]domain.Product](s.log, op, err)
	}
	return envelope.OK("Productos relacionados obtenidos correctamente", items, op)
}

func validateProduct(name string, price float64, stock int) error {
	switch {
	case name == "":
		return invalid("name is required")
	case price <= 0:
		return invalid("price must be greater than zero")
	case stock < 0:
		return invalid("stock cannot be negative")
	}
	return nil
}
