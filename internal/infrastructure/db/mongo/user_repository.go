package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
)

// UserRepository stores profile documents keyed by identity UID.
type UserRepository struct {
	softDeleteCollection[domain.User]
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{newSoftDeleteCollection[domain.User](db, collectionUsers, domain.ErrUserNotFound)}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.insert(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrUserExists
	}
	return err
}

func (r *UserRepository) Update(ctx context.Context, id string, p ports.UserPatch, at time.Time) error {
	set := bson.M{}
	setIf(set, "email", p.Email)
	setIf(set, "displayName", p.DisplayName)
	setIf(set, "f_name", p.FirstName)
	setIf(set, "s_name", p.SecondName)
	setIf(set, "f_lastname", p.FirstLastname)
	setIf(set, "s_lastname", p.SecondLastname)
	setIf(set, "role", p.Role)
	return r.update(ctx, id, set, at)
}
