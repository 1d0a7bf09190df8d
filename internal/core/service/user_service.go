package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/pkg/sanitize"
)

// UserService manages profile documents. Creating a user also creates its
// identity; role changes and soft deletes are broadcast so open sessions
// re-derive the user.
type UserService struct {
	collection[domain.User]
	users    ports.UserRepository
	identity ports.IdentityProvider
	events   ports.SessionEventPublisher
}

func NewUserService(users ports.UserRepository, identity ports.IdentityProvider, events ports.SessionEventPublisher, log zerolog.Logger) *UserService {
	s := &UserService{users: users, identity: identity, events: events}
	s.init(users, log,
		messages{
			listed:   "Usuarios obtenidos correctamente",
			found:    "Usuario obtenido correctamente",
			created:  "Usuario creado correctamente",
			updated:  "Usuario actualizado correctamente",
			deleted:  "Usuario eliminado correctamente",
			restored: "Usuario restaurado correctamente",
		},
		ops{"getUsers", "getUserById", "createUser", "updateUser", "softDeleteUser", "restoreUser"},
	)
	return s
}

// Create is not idempotent: a second call with the same email fails with
// domain.ErrUserExists from the identity provider.
func (s *UserService) Create(ctx context.Context, in ports.UserInput) envelope.Envelope[Ref] {
	const op = "createUser"

	if in.Role == "" {
		in.Role = domain.RoleClient
	}
	if !domain.ValidRole(in.Role) {
		return fail[Ref](s.log, op, invalid("unknown role %q", in.Role))
	}

	id, err := s.identity.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return fail[Ref](s.log, op, err)
	}

	u := &domain.User{
		ID:             id.UID,
		Email:          id.Email,
		DisplayName:    sanitize.Text(in.DisplayName),
		FirstName:      sanitize.Text(in.FirstName),
		SecondName:     sanitize.Text(in.SecondName),
		FirstLastname:  sanitize.Text(in.FirstLastname),
		SecondLastname: sanitize.Text(in.SecondLastname),
		Role:           in.Role,
		Audit:          domain.NewAudit(now()),
	}
	if u.DisplayName == "" {
		u.DisplayName = joinName(u)
	}
	if err := s.users.Create(ctx, u); err != nil {
		discardIdentity(ctx, s.identity, s.log, id.UID)
		return fail[Ref](s.log, op, err)
	}

	s.log.Info().Str("uid", u.ID).Str("role", u.Role).Msg("user created")
	return s.mutated(op, s.msg.created, u.ID)
}

func (s *UserService) Update(ctx context.Context, id string, p ports.UserPatch) envelope.Envelope[Ref] {
	const op = "updateUser"

	if p.Role != nil && !domain.ValidRole(*p.Role) {
		return fail[Ref](s.log, op, invalid("unknown role %q", *p.Role))
	}
	sanitizePtr(p.DisplayName)
	sanitizePtr(p.FirstName)
	sanitizePtr(p.SecondName)
	sanitizePtr(p.FirstLastname)
	sanitizePtr(p.SecondLastname)

	if err := s.users.Update(ctx, id, p, now()); err != nil {
		return fail[Ref](s.log, op, err)
	}
	if p.Role != nil {
		s.refresh(ctx, id)
	}
	return s.mutated(op, s.msg.updated, id)
}

func (s *UserService) SoftDelete(ctx context.Context, id string) envelope.Envelope[Ref] {
	env := s.collection.SoftDelete(ctx, id)
	if env.Success {
		s.refresh(ctx, id)
	}
	return env
}

func (s *UserService) Restore(ctx context.Context, id string) envelope.Envelope[Ref] {
	env := s.collection.Restore(ctx, id)
	if env.Success {
		s.refresh(ctx, id)
	}
	return env
}

func (s *UserService) refresh(ctx context.Context, uid string) {
	if s.events == nil {
		return
	}
	ev := ports.SessionEvent{UID: uid, Kind: ports.SessionRefresh, At: now()}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("uid", uid).Msg("session refresh not published")
	}
}

func joinName(u *domain.User) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{u.FirstName, u.SecondName, u.FirstLastname, u.SecondLastname} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func sanitizePtr(s *string) {
	if s != nil {
		*s = sanitize.Text(*s)
	}
}
