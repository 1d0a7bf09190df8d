package ports

import (
	"context"
	"time"

	"github.com/onestopshop/storefront/internal/core/domain"
)

// IdentityRepository persists credential records for the identity provider.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	Delete(ctx context.Context, uid string) error
}

// Session is a signed-in session minted by the identity provider.
type Session struct {
	ID        string
	UID       string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Claims are the verified contents of a session token.
type Claims struct {
	SessionID string
	UID       string
	Email     string
	ExpiresAt time.Time
}

// IdentityProvider issues and revokes sessions. SignIn always mints a fresh token.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, claims Claims) error
	// Discard removes an identity whose profile could not be stored, freeing
	// the email for another sign-up. Unknown uids are not an error.
	Discard(ctx context.Context, uid string) error
}

// TokenRevocations tracks tokens that were signed out before they expired.
type TokenRevocations interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// TokenVerifier validates a bearer token and returns its claims. Revoked and
// expired tokens fail with domain.ErrUnauthenticated.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}
