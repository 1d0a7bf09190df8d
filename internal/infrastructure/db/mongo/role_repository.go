package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
)

type RoleRepository struct {
	softDeleteCollection[domain.Role]
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{newSoftDeleteCollection[domain.Role](db, collectionRoles, domain.ErrRoleNotFound)}
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	return r.insert(ctx, role)
}

func (r *RoleRepository) Update(ctx context.Context, id string, p ports.RolePatch, at time.Time) error {
	set := bson.M{}
	setIf(set, "name", p.Name)
	setIf(set, "title", p.Title)
	setIf(set, "description", p.Description)
	return r.update(ctx, id, set, at)
}
