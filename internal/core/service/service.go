package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/ports"
)

var now = func() time.Time { return time.Now().UTC() }

// Ref is the payload of mutations: the id of the affected document.
type Ref struct {
	ID string `json:"id"`
}

// expected reports whether err is an ordinary domain outcome (logged at warn)
// rather than an infrastructure failure (logged at error).
func expected(err error) bool {
	return domain.IsNotFound(err) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrUserExists) ||
		errors.Is(err, domain.ErrInvalidCredentials) ||
		errors.Is(err, domain.ErrUserDisabled) ||
		errors.Is(err, domain.ErrUnauthenticated) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNothingToExport)
}

// fail logs err at the service boundary and wraps it in a failure envelope.
func fail[T any](log zerolog.Logger, op string, err error) envelope.Envelope[T] {
	ev := log.Error()
	if expected(err) {
		ev = log.Warn()
	}
	ev.Err(err).Str("op", op).Msg("operation failed")
	return envelope.Fail[T](err, op)
}

// discardIdentity rolls back a sign-up whose profile insert failed. Failure
// to discard is logged; the caller reports the original error.
func discardIdentity(ctx context.Context, identity ports.IdentityProvider, log zerolog.Logger, uid string) {
	if err := identity.Discard(ctx, uid); err != nil {
		log.Error().Err(err).Str("uid", uid).Msg("orphaned identity left behind")
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

type messages struct {
	listed, found, created, updated, deleted, restored string
}

type ops struct {
	list, get, create, update, softDelete, restore string
}

// collection is the read and soft-delete half shared by every collection
// service. Mutations bump rev so loaders depending on it refetch.
type collection[T any] struct {
	repo ports.SoftDeleteRepository[T]
	log  zerolog.Logger
	msg  messages
	op   ops
	rev  atomic.Uint64
}

func (c *collection[T]) init(repo ports.SoftDeleteRepository[T], log zerolog.Logger, msg messages, op ops) {
	c.repo, c.log, c.msg, c.op = repo, log, msg, op
}

// Revision increases on every successful mutation.
func (c *collection[T]) Revision() uint64 { return c.rev.Load() }

func (c *collection[T]) bump() { c.rev.Add(1) }

// List returns non-deleted documents, oldest first.
func (c *collection[T]) List(ctx context.Context) envelope.Envelope[[]T] {
	items, err := c.repo.List(ctx)
	if err != nil {
		return fail[[]T](c.log, c.op.list, err)
	}
	return envelope.OK(c.msg.listed, items, c.op.list)
}

// GetByID returns the document even when it is soft-deleted.
func (c *collection[T]) GetByID(ctx context.Context, id string) envelope.Envelope[*T] {
	item, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return fail[*T](c.log, c.op.get, err)
	}
	return envelope.OK(c.msg.found, item, c.op.get)
}

// Count returns the number of non-deleted documents.
func (c *collection[T]) Count(ctx context.Context) (int64, error) {
	return c.repo.Count(ctx)
}

func (c *collection[T]) SoftDelete(ctx context.Context, id string) envelope.Envelope[Ref] {
	if err := c.repo.SoftDelete(ctx, id, now()); err != nil {
		return fail[Ref](c.log, c.op.softDelete, err)
	}
	c.bump()
	c.log.Info().Str("id", id).Str("op", c.op.softDelete).Msg("document soft-deleted")
	return envelope.OK(c.msg.deleted, Ref{ID: id}, c.op.softDelete)
}

func (c *collection[T]) Restore(ctx context.Context, id string) envelope.Envelope[Ref] {
	if err := c.repo.Restore(ctx, id, now()); err != nil {
		return fail[Ref](c.log, c.op.restore, err)
	}
	c.bump()
	c.log.Info().Str("id", id).Str("op", c.op.restore).Msg("document restored")
	return envelope.OK(c.msg.restored, Ref{ID: id}, c.op.restore)
}

// mutated records a successful create or update.
func (c *collection[T]) mutated(op, msg, id string) envelope.Envelope[Ref] {
	c.bump()
	return envelope.OK(msg, Ref{ID: id}, op)
}
