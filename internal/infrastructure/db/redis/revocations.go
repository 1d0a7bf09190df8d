package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/onestopshop/storefront/internal/core/ports"
)

// Revocations is the signed-out token denylist.
// Key format: revoked:<session_id>, expiring with the token.
type Revocations struct {
	client redis.UniversalClient
}

var _ ports.TokenRevocations = (*Revocations)(nil)

func NewRevocations(client redis.UniversalClient) *Revocations {
	return &Revocations{client: client}
}

// Revoke marks sessionID as signed out. A non-positive ttl means the token
// already expired and nothing is stored.
func (r *Revocations) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKey(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func revokedKey(sessionID string) string {
	return "revoked:" + sessionID
}
