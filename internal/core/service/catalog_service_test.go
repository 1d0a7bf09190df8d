package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
)

func catalogFixture() (*CatalogService, *ProductService, *stubProductRepo, *stubCategoryRepo) {
	products := newStubProductRepo(
		domain.Product{ID: "p1", Name: "Café de Huila", Price: 20, CategoryID: "c1"},
		domain.Product{ID: "p2", Name: "Café Tostado", Price: 18, CategoryID: "c1"},
		domain.Product{ID: "p3", Name: "Aguacate", Price: 4, CategoryID: "c2"},
		domain.Product{ID: "p4", Name: "Sin categoría", Price: 1},
	)
	categories := newStubCategoryRepo(
		domain.Category{ID: "c1", Name: "Bebidas"},
		domain.Category{ID: "c2", Name: "Frutas"},
	)
	productSvc := NewProductService(products, zerolog.Nop())
	categorySvc := NewCategoryService(categories, zerolog.Nop())
	svc := NewCatalogService(products, categories, zerolog.Nop(), productSvc, categorySvc)
	return svc, productSvc, products, categories
}

func ids(items []domain.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestCatalogService_ProductsFilters(t *testing.T) {
	svc, _, _, _ := catalogFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ports.ProductFilter
		want   []string
	}{
		{"no filter", ports.ProductFilter{}, []string{"p1", "p2", "p3", "p4"}},
		{"by category id", ports.ProductFilter{CategoryIDs: []string{"c2"}}, []string{"p3"}},
		{"by category name ignoring case", ports.ProductFilter{CategoryName: "bebidas"}, []string{"p1", "p2"}},
		{"search", ports.ProductFilter{Search: "TOSTADO"}, []string{"p2"}},
		{"category and search", ports.ProductFilter{CategoryIDs: []string{"c1"}, Search: "huila"}, []string{"p1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := svc.Products(ctx, tt.filter)
			if !env.Success {
				t.Fatalf("Products failed: %s", env.Message)
			}
			got := ids(env.Data)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestCatalogService_ProductsUnknownCategoryName(t *testing.T) {
	svc, _, _, _ := catalogFixture()
	env := svc.Products(context.Background(), ports.ProductFilter{CategoryName: "Juguetes"})
	if env.Success || !errors.Is(env.Err(), domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %+v", env)
	}
}

func TestCatalogService_DetailWithRelated(t *testing.T) {
	svc, _, _, _ := catalogFixture()

	env := svc.Detail(context.Background(), "p1")
	if !env.Success {
		t.Fatalf("Detail failed: %s", env.Message)
	}
	if env.Data.Category == nil || env.Data.Category.ID != "c1" {
		t.Fatalf("expected category c1, got %+v", env.Data.Category)
	}
	if got := ids(env.Data.Related); len(got) != 1 || got[0] != "p2" {
		t.Fatalf("related must exclude the product itself, got %v", got)
	}
}

func TestCatalogService_DetailSoftDeletedProduct(t *testing.T) {
	svc, productSvc, _, _ := catalogFixture()
	productSvc.SoftDelete(context.Background(), "p3")

	env := svc.Detail(context.Background(), "p3")
	if env.Success || !errors.Is(env.Err(), domain.ErrProductNotFound) {
		t.Fatalf("expected not found, got %+v", env)
	}
}

func TestCatalogService_MenuFollowsRevisions(t *testing.T) {
	svc, productSvc, _, _ := catalogFixture()
	ctx := context.Background()

	st := svc.Menu(ctx)
	if st.Failed() || len(st.Data) != 2 {
		t.Fatalf("unexpected menu: %+v", st)
	}
	if st.Data[0].Products != 2 || st.Data[1].Products != 1 {
		t.Fatalf("unexpected counts: %+v", st.Data)
	}
	gen := st.Generation

	if again := svc.Menu(ctx); again.Generation != gen {
		t.Fatalf("menu reloaded without any change")
	}

	productSvc.SoftDelete(ctx, "p1")
	st = svc.Menu(ctx)
	if st.Generation == gen {
		t.Fatalf("menu not reloaded after a product mutation")
	}
	if st.Data[0].Products != 1 {
		t.Fatalf("expected 1 product in Bebidas, got %d", st.Data[0].Products)
	}
}

func TestCatalogService_MenuKeepsDataOnFailure(t *testing.T) {
	svc, _, _, categories := catalogFixture()
	ctx := context.Background()

	if st := svc.Menu(ctx); st.Failed() {
		t.Fatalf("first load failed: %s", st.Error)
	}
	categories.err = errBackend
	if err := svc.RefreshMenu(ctx); err == nil {
		t.Fatalf("expected refresh error")
	}
	st := svc.Menu(ctx)
	if !st.Failed() || len(st.Data) != 2 {
		t.Fatalf("expected previous data with an error, got %+v", st)
	}
}
