package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/core/session"
	"github.com/onestopshop/storefront/internal/pkg/sanitize"
)

// SessionStore is the part of the auth session store the service drives.
type SessionStore interface {
	Open(ctx context.Context, sid, uid string, ttl time.Duration) (session.Snapshot, error)
	Current(ctx context.Context, sid, uid string) (session.Snapshot, error)
	Close(sid string)
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// AuthService implements registration, login, logout and the current-user
// lookup on top of the identity provider and the session store.
type AuthService struct {
	identity ports.IdentityProvider
	users    ports.UserRepository
	sessions SessionStore
	log      zerolog.Logger
}

func NewAuthService(identity ports.IdentityProvider, users ports.UserRepository, sessions SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{identity: identity, users: users, sessions: sessions, log: log}
}

// Register creates the identity and a client profile, then signs in.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) envelope.Envelope[*AuthResult] {
	const op = "registerUser"

	id, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		return fail[*AuthResult](s.log, op, err)
	}

	u := &domain.User{
		ID:          id.UID,
		Email:       id.Email,
		DisplayName: sanitize.Text(displayName),
		Role:        domain.RoleClient,
		Audit:       domain.NewAudit(now()),
	}
	if err := s.users.Create(ctx, u); err != nil {
		discardIdentity(ctx, s.identity, s.log, id.UID)
		return fail[*AuthResult](s.log, op, err)
	}

	res, err := s.signIn(ctx, email, password)
	if err != nil {
		return fail[*AuthResult](s.log, op, err)
	}
	s.log.Info().Str("uid", u.ID).Msg("user registered")
	return envelope.OK("Registro exitoso", res, op)
}

// Login mints a fresh token and re-hydrates the profile. Soft-deleted users
// are refused and the minted session is revoked right away.
func (s *AuthService) Login(ctx context.Context, email, password string) envelope.Envelope[*AuthResult] {
	const op = "loginUser"

	res, err := s.signIn(ctx, email, password)
	if err != nil {
		return fail[*AuthResult](s.log, op, err)
	}
	return envelope.OK("Inicio de sesión exitoso", res, op)
}

func (s *AuthService) signIn(ctx context.Context, email, password string) (*AuthResult, error) {
	sess, err := s.identity.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}

	snap, err := s.sessions.Open(ctx, sess.ID, sess.UID, time.Until(sess.ExpiresAt))
	if err != nil {
		s.discard(ctx, sess)
		return nil, err
	}
	if snap.User == nil {
		s.discard(ctx, sess)
		if _, ferr := s.users.FindByID(ctx, sess.UID); errors.Is(ferr, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.ErrUserDisabled
	}

	return &AuthResult{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: snap.User}, nil
}

func (s *AuthService) discard(ctx context.Context, sess *ports.Session) {
	s.sessions.Close(sess.ID)
	claims := ports.Claims{SessionID: sess.ID, UID: sess.UID, Email: sess.Email, ExpiresAt: sess.ExpiresAt}
	if err := s.identity.SignOut(ctx, claims); err != nil {
		s.log.Warn().Err(err).Str("uid", sess.UID).Msg("could not revoke refused session")
	}
}

// Logout revokes the token and drops the session.
func (s *AuthService) Logout(ctx context.Context, claims ports.Claims) envelope.Envelope[Ref] {
	const op = "logoutUser"

	if err := s.identity.SignOut(ctx, claims); err != nil {
		return fail[Ref](s.log, op, err)
	}
	s.sessions.Close(claims.SessionID)
	return envelope.OK("Sesión cerrada correctamente", Ref{ID: claims.UID}, op)
}

// Me returns the user currently bound to the session.
func (s *AuthService) Me(ctx context.Context, claims ports.Claims) envelope.Envelope[*domain.User] {
	const op = "getCurrentUser"

	snap, err := s.sessions.Current(ctx, claims.SessionID, claims.UID)
	switch {
	case err != nil:
		return fail[*domain.User](s.log, op, err)
	case snap.Loading:
		return fail[*domain.User](s.log, op, context.DeadlineExceeded)
	case snap.User == nil:
		return fail[*domain.User](s.log, op, domain.ErrUnauthenticated)
	}
	return envelope.OK("Usuario obtenido correctamente", snap.User, op)
}
