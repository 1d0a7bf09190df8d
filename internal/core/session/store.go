// Package session keeps the signed-in user of every live session. Entries are
// keyed by the token's session id and always hold a user document re-derived
// from the backend, never data cached in the token.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
)

const (
	defaultTTL     = 24 * time.Hour
	cleanupEvery   = 10 * time.Minute
	resolveTimeout = 10 * time.Second
)

// UserFinder loads the profile document behind a UID.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Snapshot is what a caller sees of a session at one instant. A nil User with
// Loading false means nobody is signed in on that session.
type Snapshot struct {
	Loading bool
	User    *domain.User
	Err     error
}

type entry struct {
	uid   string
	user  *domain.User
	err   error
	ready chan struct{}
	done  bool
}

func (e *entry) resolve(user *domain.User, err error) {
	e.user, e.err = user, err
	if !e.done {
		e.done = true
		close(e.ready)
	}
}

// Store is safe for concurrent use.
type Store struct {
	users   UserFinder
	log     zerolog.Logger
	entries *cache.Cache

	mu   sync.Mutex
	sids map[string]map[string]struct{} // uid -> session ids
	gens map[string]uint64              // uid -> latest derivation
}

func NewStore(users UserFinder, log zerolog.Logger) *Store {
	s := &Store{
		users:   users,
		log:     log,
		entries: cache.New(defaultTTL, cleanupEvery),
		sids:    make(map[string]map[string]struct{}),
		gens:    make(map[string]uint64),
	}
	s.entries.OnEvicted(s.forget)
	return s
}

// Open registers a freshly minted session and resolves its user before
// returning.
func (s *Store) Open(ctx context.Context, sid, uid string, ttl time.Duration) (Snapshot, error) {
	e, _ := s.track(sid, uid, ttl)
	s.derive(ctx, uid)
	return s.wait(ctx, e)
}

// Current returns the snapshot of sid. A session this process has not seen yet
// is resolved on demand; concurrent callers share the same resolution. When
// ctx ends before the resolution completes the snapshot reports Loading.
// An entry whose last derivation failed is re-derived in the background so
// the next caller sees a fresh result.
func (s *Store) Current(ctx context.Context, sid, uid string) (Snapshot, error) {
	e, created := s.track(sid, uid, 0)

	s.mu.Lock()
	failed := e.done && e.err != nil
	s.mu.Unlock()

	if created || failed {
		go func() {
			rctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
			defer cancel()
			s.derive(rctx, uid)
		}()
	}
	return s.wait(ctx, e)
}

// Close drops a session, typically on logout.
func (s *Store) Close(sid string) {
	s.entries.Delete(sid)
}

// Apply folds a session-change event into the store. Sign-outs drop sessions;
// sign-ins and refreshes re-derive the user for every session of the UID.
func (s *Store) Apply(ctx context.Context, ev ports.SessionEvent) {
	switch ev.Kind {
	case ports.SessionSignOut:
		if ev.SessionID != "" {
			s.Close(ev.SessionID)
			return
		}
		for _, sid := range s.sessionsOf(ev.UID) {
			s.Close(sid)
		}
	case ports.SessionSignIn, ports.SessionRefresh:
		if len(s.sessionsOf(ev.UID)) == 0 {
			return
		}
		s.derive(ctx, ev.UID)
	default:
		s.log.Warn().Str("kind", string(ev.Kind)).Str("uid", ev.UID).Msg("unknown session event")
	}
}

// Len reports the number of live sessions.
func (s *Store) Len() int { return s.entries.ItemCount() }

func (s *Store) track(sid, uid string, ttl time.Duration) (*entry, bool) {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.entries.Get(sid); ok {
		return v.(*entry), false
	}
	e := &entry{uid: uid, ready: make(chan struct{})}
	s.entries.Set(sid, e, ttl)
	if s.sids[uid] == nil {
		s.sids[uid] = make(map[string]struct{})
	}
	s.sids[uid][sid] = struct{}{}
	return e, true
}

// derive loads the user document and applies it to every session of uid,
// unless a newer derivation for the same uid started in the meantime.
func (s *Store) derive(ctx context.Context, uid string) {
	s.mu.Lock()
	s.gens[uid]++
	gen := s.gens[uid]
	s.mu.Unlock()

	user, err := s.users.FindByID(ctx, uid)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = nil, nil
	case err != nil:
		s.log.Error().Err(err).Str("uid", uid).Msg("derive session user")
	case user.Deleted:
		user = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gens[uid] {
		s.log.Debug().Str("uid", uid).Uint64("generation", gen).Msg("discarding stale session derivation")
		return
	}
	for sid := range s.sids[uid] {
		if v, ok := s.entries.Get(sid); ok {
			v.(*entry).resolve(user, err)
		}
	}
}

func (s *Store) wait(ctx context.Context, e *entry) (Snapshot, error) {
	select {
	case <-e.ready:
	case <-ctx.Done():
		return Snapshot{Loading: true}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.err != nil {
		return Snapshot{Err: e.err}, e.err
	}
	if e.user == nil {
		return Snapshot{}, nil
	}
	u := *e.user
	return Snapshot{User: &u}, nil
}

func (s *Store) sessionsOf(uid string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sids[uid]))
	for sid := range s.sids[uid] {
		out = append(out, sid)
	}
	return out
}

// forget runs when go-cache evicts an entry (expiry or Delete). go-cache
// invokes it outside its own lock.
func (s *Store) forget(sid string, v interface{}) {
	e, ok := v.(*entry)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sids[e.uid], sid)
	if len(s.sids[e.uid]) == 0 {
		delete(s.sids, e.uid)
	}
	if !e.done {
		e.resolve(nil, nil)
	}
}
