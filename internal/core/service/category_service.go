package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/pkg/sanitize"
)

// CategoryService manages categories. Soft-deleting a category leaves its
// products untouched.
type CategoryService struct {
	collection[domain.Category]
	categories ports.CategoryRepository
}

func NewCategoryService(categories ports.CategoryRepository, log zerolog.Logger) *CategoryService {
	s := &CategoryService{categories: categories}
	s.init(categories, log,
		messages{
			listed:   "Categorías obtenidas correctamente",
			found:    "Categoría obtenida correctamente",
			created:  "Categoría creada correctamente",
			updated:  "Categoría actualizada correctamente",
			deleted:  "Categoría eliminada correctamente",
			restored: "Categoría restaurada correctamente",
		},
		ops{"getCategories", "getCategoryById", "createCategory", "updateCategory", "softDeleteCategory", "restoreCategory"},
	)
	return s
}

func (s *CategoryService) Create(ctx context.Context, in ports.CategoryInput) envelope.Envelope[Ref] {
	const op = "createCategory"

	c := &domain.Category{
		ID:          uuid.NewString(),
		Name:        sanitize.Text(in.Name),
		Description: sanitize.RichText(in.Description),
		ImageURL:    sanitize.URL(in.ImageURL),
		Audit:       domain.NewAudit(now()),
	}
	if c.Name == "" {
		return fail[Ref](s.log, op, invalid("name is required"))
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return fail[Ref](s.log, op, err)
	}
	return s.mutated(op, s.msg.created, c.ID)
}

func (s *CategoryService) Update(ctx context.Context, id string, p ports.CategoryPatch) envelope.Envelope[Ref] {
	const op = "updateCategory"

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
	if err := s.categories.Update(ctx, id, p, now()); err != nil {
		return fail[Ref](s.log, op, err)
	}
	return s.mutated(op, s.msg.updated, id)
}
