package service

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/fetch"
	"github.com/onestopshop/storefront/internal/core/ports"
)

// Revisioner exposes the mutation counter of a collection service.
type Revisioner interface {
	Revision() uint64
}

// ProductDetail is the payload of the product detail screen.
type ProductDetail struct {
	Product  domain.Product   `json:"product"`
	Category *domain.Category `json:"category"`
	Related  []domain.Product `json:"related"`
}

// MenuEntry is one category in the public catalog menu.
type MenuEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
	Products int    `json:"products"`
}

// CatalogService serves the public storefront screens.
type CatalogService struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	revs       []Revisioner
	menu       *fetch.Resource[[]MenuEntry]
	log        zerolog.Logger
}

// NewCatalogService builds the service. The menu loader refetches whenever
// one of revs reports a new revision.
func NewCatalogService(products ports.ProductRepository, categories ports.CategoryRepository, log zerolog.Logger, revs ...Revisioner) *CatalogService {
	s := &CatalogService{products: products, categories: categories, revs: revs, log: log}
	s.menu = fetch.New(s.loadMenu, fetch.WithNotifier(func(op, msg string) {
		log.Warn().Str("op", op).Msg(msg)
	}))
	return s
}

// Home returns the categories shown on the landing screen.
func (s *CatalogService) Home(ctx context.Context) envelope.Envelope[[]domain.Category] {
	const op = "getCategories"

	items, err := s.categories.List(ctx)
	if err != nil {
		return fail[[]domain.Category](s.log, op, err)
	}
	return envelope.OK("Categorías obtenidas correctamente", items, op)
}

// Products lists live products narrowed by f. CategoryIDs and CategoryName
// are combined; Search matches the product name ignoring case.
func (s *CatalogService) Products(ctx context.Context, f ports.ProductFilter) envelope.Envelope[[]domain.Product] {
	const op = "getProducts"

	items, err := s.products.List(ctx)
	if err != nil {
		return fail[[]domain.Product](s.log, op, err)
	}

	ids := slices.Clone(f.CategoryIDs)
	if name := strings.TrimSpace(f.CategoryName); name != "" {
		cats, err := s.categories.List(ctx)
		if err != nil {
			return fail[[]domain.Product](s.log, op, err)
		}
		matched := false
		for _, c := range cats {
			if strings.EqualFold(c.Name, name) {
				ids = append(ids, c.ID)
				matched = true
			}
		}
		if !matched {
			return fail[[]domain.Product](s.log, op, domain.ErrCategoryNotFound)
		}
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if len(ids) > 0 && !slices.Contains(ids, p.CategoryID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return envelope.OK("Productos obtenidos correctamente", out, op)
}

// Detail returns a product with its category and the other products of
// that category. A missing category is not an error.
func (s *CatalogService) Detail(ctx context.Context, id string) envelope.Envelope[*ProductDetail] {
	const op = "getProductById"

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return fail[*ProductDetail](s.log, op, err)
	}
	if p.Deleted {
		return fail[*ProductDetail](s.log, op, domain.ErrProductNotFound)
	}

	d := &ProductDetail{Product: *p, Related: []domain.Product{}}
	if p.CategoryID == "" {
		return envelope.OK("Producto obtenido correctamente", d, op)
	}

	cat, err := s.categories.FindByID(ctx, p.CategoryID)
	switch {
	case err == nil && !cat.Deleted:
		d.Category = cat
	case err != nil && !domain.IsNotFound(err):
		return fail[*ProductDetail](s.log, op, err)
	}

	related, err := s.products.ListByCategory(ctx, p.CategoryID, p.ID)
	if err != nil {
		return fail[*ProductDetail](s.log, op, err)
	}
	d.Related = related
	return envelope.OK("Producto obtenido correctamente", d, op)
}

// Menu returns the category menu, reloading it when products or categories
// changed since the last call.
func (s *CatalogService) Menu(ctx context.Context) fetch.State[[]MenuEntry] {
	return s.menu.Use(ctx, revisions(s.revs)...)
}

// RefreshMenu reloads the menu unconditionally.
func (s *CatalogService) RefreshMenu(ctx context.Context) error {
	st := s.menu.Refetch(ctx)
	if st.Failed() {
		return envelopeError(st.Error)
	}
	return nil
}

func (s *CatalogService) loadMenu(ctx context.Context) envelope.Envelope[[]MenuEntry] {
	const op = "getCatalogMenu"

	cats, err := s.categories.List(ctx)
	if err != nil {
		return fail[[]MenuEntry](s.log, op, err)
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return fail[[]MenuEntry](s.log, op, err)
	}

	counts := make(map[string]int, len(cats))
	for _, p := range products {
		counts[p.CategoryID]++
	}
	out := make([]MenuEntry, 0, len(cats))
	for _, c := range cats {
		out = append(out, MenuEntry{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL, Products: counts[c.ID]})
	}
	return envelope.OK("Menú obtenido correctamente", out, op)
}

func revisions(revs []Revisioner) []any {
	out := make([]any, len(revs))
	for i, r := range revs {
		out[i] = r.Revision()
	}
	return out
}

type envelopeError string

func (e envelopeError) Error() string { return string(e) }
