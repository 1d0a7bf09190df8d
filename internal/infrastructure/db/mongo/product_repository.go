package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
)

type ProductRepository struct {
	softDeleteCollection[domain.Product]
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{newSoftDeleteCollection[domain.Product](db, collectionProducts, domain.ErrProductNotFound)}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.insert(ctx, p)
}

func (r *ProductRepository) Update(ctx context.Context, id string, p ports.ProductPatch, at time.Time) error {
	set := bson.M{}
	setIf(set, "name", p.Name)
	setIf(set, "description", p.Description)
	setIf(set, "price", p.Price)
	setIf(set, "stock", p.Stock)
	setIf(set, "category_id", p.CategoryID)
	setIf(set, "imageUrl", p.ImageURL)
	return r.update(ctx, id, set, at)
}

// ListByCategory returns live products of categoryID, oldest first.
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID, excludeID string) ([]domain.Product, error) {
	filter := bson.M{"deleted": false, "category_id": categoryID}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.find(ctx, filter)
}
