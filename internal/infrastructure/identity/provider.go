// Package identity is the credential backend: bcrypt password hashes stored
// in MongoDB and HS256 session tokens that can be revoked before expiry.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Provider implements ports.IdentityProvider and ports.TokenVerifier.
type Provider struct {
	identities  ports.IdentityRepository
	revocations ports.TokenRevocations
	events      ports.SessionEventPublisher
	secret      []byte
	ttl         time.Duration
	cost        int
	now         func() time.Time
	log         zerolog.Logger
}

var (
	_ ports.IdentityProvider = (*Provider)(nil)
	_ ports.TokenVerifier    = (*Provider)(nil)
)

func NewProvider(
	identities ports.IdentityRepository,
	revocations ports.TokenRevocations,
	events ports.SessionEventPublisher,
	secret string,
	ttl time.Duration,
	log zerolog.Logger,
) *Provider {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Provider{
		identities:  identities,
		revocations: revocations,
		events:      events,
		secret:      []byte(secret),
		ttl:         ttl,
		cost:        bcrypt.DefaultCost,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// TTL is the lifetime of minted tokens.
func (p *Provider) TTL() time.Duration { return p.ttl }

func (p *Provider) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := &domain.Identity{
		UID:          uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
	}
	if err := p.identities.Create(ctx, id); err != nil {
		return nil, err
	}
	return id, nil
}

func (p *Provider) Discard(ctx context.Context, uid string) error {
	if err := p.identities.Delete(ctx, uid); err != nil {
		return err
	}
	p.log.Warn().Str("uid", uid).Msg("identity discarded")
	return nil
}

// SignIn checks the password and mints a fresh token with a new session id.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*ports.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	id, err := p.identities.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := p.mint(id)
	if err != nil {
		return nil, err
	}
	p.publish(ctx, ports.SessionEvent{UID: sess.UID, SessionID: sess.ID, Kind: ports.SessionSignIn, At: p.now()})
	return sess, nil
}

// SignOut revokes the token for the rest of its lifetime and tells every
// instance to drop the session.
func (p *Provider) SignOut(ctx context.Context, c ports.Claims) error {
	if err := p.revocations.Revoke(ctx, c.SessionID, c.ExpiresAt.Sub(p.now())); err != nil {
		return err
	}
	p.publish(ctx, ports.SessionEvent{UID: c.UID, SessionID: c.SessionID, Kind: ports.SessionSignOut, At: p.now()})
	return nil
}

// Verify validates signature and expiry, then consults the denylist.
func (p *Provider) Verify(ctx context.Context, token string) (*ports.Claims, error) {
	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || tc.Subject == "" || tc.ID == "" {
		return nil, domain.ErrUnauthenticated
	}

	revoked, err := p.revocations.IsRevoked(ctx, tc.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrUnauthenticated
	}

	return &ports.Claims{
		SessionID: tc.ID,
		UID:       tc.Subject,
		Email:     tc.Email,
		ExpiresAt: tc.ExpiresAt.Time,
	}, nil
}

func (p *Provider) mint(id *domain.Identity) (*ports.Session, error) {
	now := p.now()
	sess := &ports.Session{
		ID:        uuid.NewString(),
		UID:       id.UID,
		Email:     id.Email,
		ExpiresAt: now.Add(p.ttl).Truncate(time.Second),
	}
	claims := tokenClaims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	sess.Token = signed
	return sess, nil
}

// publish is best effort: a lost event only delays other instances until the
// session entry expires or is re-derived.
func (p *Provider) publish(ctx context.Context, ev ports.SessionEvent) {
	if p.events == nil {
		return
	}
	if err := p.events.Publish(ctx, ev); err != nil {
		p.log.Warn().Err(err).Str("uid", ev.UID).Str("kind", string(ev.Kind)).Msg("session event not published")
	}
}
