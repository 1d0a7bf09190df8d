package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/pkg/sanitize"
)

type RoleService struct {
	collection[domain.Role]
	roles ports.RoleRepository
}

func NewRoleService(roles ports.RoleRepository, log zerolog.Logger) *RoleService {
	s := &RoleService{roles: roles}
	s.init(roles, log,
		messages{
			listed:   "Roles obtenidos correctamente",
			found:    "Rol obtenido correctamente",
			created:  "Rol creado correctamente",
			updated:  "Rol actualizado correctamente",
			deleted:  "Rol eliminado correctamente",
			restored: "Rol restaurado correctamente",
		},
		ops{"getRoles", "getRoleById", "createRole", "updateRole", "softDeleteRole", "restoreRole"},
	)
	return s
}

// Create stores a role. Name is the machine key, kept lower-case.
func (s *RoleService) Create(ctx context.Context, in ports.RoleInput) envelope.Envelope[Ref] {
	const op = "createRole"

	r := &domain.Role{
		ID:          uuid.NewString(),
		Name:        strings.ToLower(sanitize.Text(in.Name)),
		Title:       sanitize.Text(in.Title),
		Description: sanitize.Text(in.Description),
		Audit:       domain.NewAudit(now()),
	}
	if r.Name == "" || r.Title == "" {
		return fail[Ref](s.log, op, invalid("name and title are required"))
	}
	if err := s.roles.Create(ctx, r); err != nil {
		return fail[Ref](s.log, op, err)
	}
	return s.mutated(op, s.msg.created, r.ID)
}

func (s *RoleService) Update(ctx context.Context, id string, p ports.RolePatch) envelope.Envelope[Ref] {
	const op = "updateRole"

	if p.Name != nil {
		*p.Name = strings.ToLower(sanitize.Text(*p.Name))
		if *p.Name == "" {
			return fail[Ref](s.log, op, invalid("name is required"))
		}
	}
	sanitizePtr(p.Title)
	sanitizePtr(p.Description)

	if err := s.roles.Update(ctx, id, p, now()); err != nil {
		return fail[Ref](s.log, op, err)
	}
	return s.mutated(op, s.msg.updated, id)
}
