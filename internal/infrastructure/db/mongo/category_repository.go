package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
)

type CategoryRepository struct {
	softDeleteCollection[domain.Category]
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{newSoftDeleteCollection[domain.Category](db, collectionCategories, domain.ErrCategoryNotFound)}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	return r.insert(ctx, c)
}

func (r *CategoryRepository) Update(ctx context.Context, id string, p ports.CategoryPatch, at time.Time) error {
	set := bson.M{}
	setIf(set, "name", p.Name)
	setIf(set, "description", p.Description)
	setIf(set, "imageUrl", p.ImageURL)
	return r.update(ctx, id, set, at)
}
