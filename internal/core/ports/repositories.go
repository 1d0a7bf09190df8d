package ports

import (
	"context"
	"time"

	"github.com/onestopshop/storefront/internal/core/domain"
)

// SoftDeleteRepository is the operation set every collection shares.
// List never returns documents flagged as deleted; FindByID does.
type SoftDeleteRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Count(ctx context.Context) (int64, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string, at time.Time) error
}

type UserRepository interface {
	SoftDeleteRepository[domain.User]
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id string, patch UserPatch, at time.Time) error
}

type ProductRepository interface {
	SoftDeleteRepository[domain.Product]
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id string, patch ProductPatch, at time.Time) error
	// ListByCategory returns live products of a category, skipping excludeID when set.
	ListByCategory(ctx context.Context, categoryID, excludeID string) ([]domain.Product, error)
}

type CategoryRepository interface {
	SoftDeleteRepository[domain.Category]
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, id string, patch CategoryPatch, at time.Time) error
}

type RoleRepository interface {
	SoftDeleteRepository[domain.Role]
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, id string, patch RolePatch, at time.Time) error
}

// CartPersister stores the serialized line list of one cart under a key.
type CartPersister interface {
	Load(ctx context.Context, key string) ([]domain.CartLine, error)
	Save(ctx context.Context, key string, lines []domain.CartLine) error
}
