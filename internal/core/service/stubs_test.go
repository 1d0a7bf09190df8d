package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/core/session"
)

var errBackend = errors.New("backend unavailable")

// memCollection is an in-memory SoftDeleteRepository shared by the stubs.
type memCollection[T any] struct {
	mu       sync.Mutex
	items    []*T
	id       func(*T) string
	audit    func(*T) *domain.Audit
	notFound error
	err      error
}

func (m *memCollection[T]) List(context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []T{}
	for _, it := range m.items {
		if !m.audit(it).Deleted {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memCollection[T]) FindByID(_ context.Context, id string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	it := m.lookup(id)
	if it == nil {
		return nil, m.notFound
	}
	cp := *it
	return &cp, nil
}

func (m *memCollection[T]) Count(ctx context.Context) (int64, error) {
	items, err := m.List(ctx)
	return int64(len(items)), err
}

func (m *memCollection[T]) SoftDelete(_ context.Context, id string, at time.Time) error {
	return m.mutate(id, func(a *domain.Audit) {
		a.Deleted = true
		a.DeletedAt = &at
		a.UpdatedAt = at
	})
}

func (m *memCollection[T]) Restore(_ context.Context, id string, at time.Time) error {
	return m.mutate(id, func(a *domain.Audit) {
		a.Deleted = false
		a.DeletedAt = nil
		a.UpdatedAt = at
	})
}

func (m *memCollection[T]) insert(it *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *it
	m.items = append(m.items, &cp)
	return nil
}

func (m *memCollection[T]) mutate(id string, fn func(*domain.Audit)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	it := m.lookup(id)
	if it == nil {
		return m.notFound
	}
	fn(m.audit(it))
	return nil
}

func (m *memCollection[T]) lookup(id string) *T {
	for _, it := range m.items {
		if m.id(it) == id {
			return it
		}
	}
	return nil
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}

type stubUserRepo struct{ memCollection[domain.User] }

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	r := &stubUserRepo{memCollection[domain.User]{
		id:       func(u *domain.User) string { return u.ID },
		audit:    func(u *domain.User) *domain.Audit { return &u.Audit },
		notFound: domain.ErrUserNotFound,
	}}
	for i := range users {
		_ = r.insert(&users[i])
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.lookup(u.ID) != nil {
		return domain.ErrUserExists
	}
	cp := *u
	r.items = append(r.items, &cp)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, p ports.UserPatch, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.lookup(id)
	if u == nil {
		return domain.ErrUserNotFound
	}
	set(&u.Email, p.Email)
	set(&u.DisplayName, p.DisplayName)
	set(&u.FirstName, p.FirstName)
	set(&u.SecondName, p.SecondName)
	set(&u.FirstLastname, p.FirstLastname)
	set(&u.SecondLastname, p.SecondLastname)
	set(&u.Role, p.Role)
	u.UpdatedAt = at
	return nil
}

type stubProductRepo struct{ memCollection[domain.Product] }

func newStubProductRepo(products ...domain.Product) *stubProductRepo {
	r := &stubProductRepo{memCollection[domain.Product]{
		id:       func(p *domain.Product) string { return p.ID },
		audit:    func(p *domain.Product) *domain.Audit { return &p.Audit },
		notFound: domain.ErrProductNotFound,
	}}
	for i := range products {
		_ = r.insert(&products[i])
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) error { return r.insert(p) }

func (r *stubProductRepo) Update(_ context.Context, id string, p ports.ProductPatch, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := r.lookup(id)
	if it == nil {
		return domain.ErrProductNotFound
	}
	set(&it.Name, p.Name)
	set(&it.Description, p.Description)
	set(&it.Price, p.Price)
	set(&it.Stock, p.Stock)
	set(&it.CategoryID, p.CategoryID)
	set(&it.ImageURL, p.ImageURL)
	it.UpdatedAt = at
	return nil
}

func (r *stubProductRepo) ListByCategory(ctx context.Context, categoryID, excludeID string) ([]domain.Product, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Product{}
	for _, p := range all {
		if p.CategoryID == categoryID && p.ID != excludeID {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubCategoryRepo struct{ memCollection[domain.Category] }

func newStubCategoryRepo(categories ...domain.Category) *stubCategoryRepo {
	r := &stubCategoryRepo{memCollection[domain.Category]{
		id:       func(c *domain.Category) string { return c.ID },
		audit:    func(c *domain.Category) *domain.Audit { return &c.Audit },
		notFound: domain.ErrCategoryNotFound,
	}}
	for i := range categories {
		_ = r.insert(&categories[i])
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error { return r.insert(c) }

func (r *stubCategoryRepo) Update(_ context.Context, id string, p ports.CategoryPatch, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := r.lookup(id)
	if it == nil {
		return domain.ErrCategoryNotFound
	}
	set(&it.Name, p.Name)
	set(&it.Description, p.Description)
	set(&it.ImageURL, p.ImageURL)
	it.UpdatedAt = at
	return nil
}

type stubRoleRepo struct{ memCollection[domain.Role] }

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{memCollection[domain.Role]{
		id:       func(r *domain.Role) string { return r.ID },
		audit:    func(r *domain.Role) *domain.Audit { return &r.Audit },
		notFound: domain.ErrRoleNotFound,
	}}
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) error { return r.insert(role) }

func (r *stubRoleRepo) Update(_ context.Context, id string, p ports.RolePatch, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := r.lookup(id)
	if it == nil {
		return domain.ErrRoleNotFound
	}
	set(&it.Name, p.Name)
	set(&it.Title, p.Title)
	set(&it.Description, p.Description)
	it.UpdatedAt = at
	return nil
}

// stubIdentity is an IdentityProvider keyed by email with plain-text passwords.
type stubIdentity struct {
	mu        sync.Mutex
	passwords map[string]string
	uids      map[string]string
	signedOut []ports.Claims
	discarded []string
	sessions  []string
	seq       int
}

func newStubIdentity() *stubIdentity {
	return &stubIdentity{passwords: map[string]string{}, uids: map[string]string{}}
}

func (s *stubIdentity) add(uid, email, password string) {
	s.passwords[email] = password
	s.uids[email] = uid
}

func (s *stubIdentity) SignUp(_ context.Context, email, password string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.passwords[email]; ok {
		return nil, domain.ErrUserExists
	}
	s.seq++
	uid := "uid-" + email
	s.add(uid, email, password)
	return &domain.Identity{UID: uid, Email: email}, nil
}

func (s *stubIdentity) SignIn(_ context.Context, email, password string) (*ports.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.passwords[email]; !ok || pw != password {
		return nil, domain.ErrInvalidCredentials
	}
	s.seq++
	sid := "sid-" + strconv.Itoa(s.seq)
	s.sessions = append(s.sessions, sid)
	return &ports.Session{
		ID:        sid,
		UID:       s.uids[email],
		Email:     email,
		Token:     "token-" + sid,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (s *stubIdentity) lastSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) == 0 {
		return ""
	}
	return s.sessions[len(s.sessions)-1]
}

func (s *stubIdentity) Discard(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, u := range s.uids {
		if u == uid {
			delete(s.uids, email)
			delete(s.passwords, email)
		}
	}
	s.discarded = append(s.discarded, uid)
	return nil
}

func (s *stubIdentity) SignOut(_ context.Context, c ports.Claims) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signedOut = append(s.signedOut, c)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.SessionEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev ports.SessionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) kinds() []ports.SessionEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.SessionEventKind, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

var _ SessionStore = (*session.Store)(nil)

type memCarts struct {
	mu    sync.Mutex
	lines map[string][]domain.CartLine
	saves int
}

func newMemCarts() *memCarts { return &memCarts{lines: map[string][]domain.CartLine{}} }

func (m *memCarts) Load(_ context.Context, key string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartLine(nil), m.lines[key]...), nil
}

func (m *memCarts) Save(_ context.Context, key string, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if len(lines) == 0 {
		delete(m.lines, key)
		return nil
	}
	m.lines[key] = append([]domain.CartLine(nil), lines...)
	return nil
}
