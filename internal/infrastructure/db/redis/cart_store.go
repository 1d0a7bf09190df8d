package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
)

const defaultCartTTL = 30 * 24 * time.Hour

// CartStore persists cart lines as one JSON document per cart.
// Key format: cart:<cart_id>. Every save renews the TTL.
type CartStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ ports.CartPersister = (*CartStore)(nil)

func NewCartStore(client redis.UniversalClient, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &CartStore{client: client, ttl: ttl}
}

// Load returns the stored lines; a missing key is an empty cart.
func (s *CartStore) Load(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	raw, err := s.client.Get(ctx, CartKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart get: %w", err)
	}
	return decodeLines(raw)
}

// Save writes the full line list. An empty list removes the key.
func (s *CartStore) Save(ctx context.Context, cartID string, lines []domain.CartLine) error {
	key := CartKey(cartID)
	if len(lines) == 0 {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("cart del: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart encode: %w", err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cart set: %w", err)
	}
	return nil
}

func CartKey(cartID string) string {
	return "cart:" + cartID
}

func decodeLines(raw []byte) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("cart decode: %w", err)
	}
	return lines, nil
}
