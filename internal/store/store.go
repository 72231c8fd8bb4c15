// Package store is the dashboard's single source of truth: normalized entity
// collections, UI flags and the AI sub-state, changed only through the
// action methods below. Every mutation publishes a new immutable State,
// persists the whitelisted subset and notifies subscribers, in dispatch order.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/persist"
)

var (
	ErrNotFound    = errors.New("entity not found")
	ErrDuplicateID = errors.New("duplicate id")
	ErrInvalid     = models.ErrInvalid
	// ErrPersist wraps snapshot write failures; the in-memory state has still advanced
	ErrPersist = errors.New("persisting snapshot")
)

// Event is delivered to subscribers after each mutation
type Event struct {
	Kind  string
	State State
}

type Option func(*Store)

// WithPersister sets where the whitelisted subset is saved and loaded from
func WithPersister(p persist.Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithSeed sets the initial state. Non-persisted fields always start from it
// and persisted fields keep it unless the snapshot carries them. With
// seedOnEmpty, persisted collections still empty after rehydration are refilled
// from it.
func WithSeed(seed State, seedOnEmpty bool) Option {
	return func(s *Store) {
		s.seed = seed
		s.seedOnEmpty = seedOnEmpty
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogf overrides the logger used for rehydration warnings
func WithLogf(logf func(string, ...any)) Option {
	return func(s *Store) { s.logf = logf }
}

type Store struct {
	mu          sync.Mutex
	state       atomic.Pointer[State]
	loading     int
	persister   persist.Persister
	seed        State
	seedOnEmpty bool
	now         func() time.Time
	logf        func(string, ...any)

	subsMu  sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// New returns an isolated store holding the seed state. Call Init to rehydrate.
func New(opts ...Option) *Store {
	s := &Store{
		now:  time.Now,
		logf: log.Printf,
		subs: map[int]func(Event){},
	}
	for _, opt := range opts {
		opt(s)
	}
	initial := s.seed
	initial.normalize()
	s.state.Store(&initial)
	return s
}

// Init rehydrates persisted state over the seed. It runs once at startup.
// A malformed or unsupported snapshot is discarded with a warning; a backend
// read failure is returned.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshot keys override the seed; keys it lacks keep their default.
	next := s.seed
	if s.persister != nil {
		payload, err := s.persister.Load(ctx)
		switch {
		case errors.Is(err, persist.ErrNotFound):
			s.logf("No persisted snapshot found, starting from defaults")
		case err != nil:
			return fmt.Errorf("loading snapshot: %w", err)
		default:
			fields, err := persist.Decode(payload)
			if err != nil {
				s.logf("Warning: discarding persisted snapshot: %v", err)
			} else {
				s.rehydrate(&next, fields)
			}
		}
	}

	if s.seedOnEmpty {
		if len(next.Clients) == 0 {
			next.Clients = s.seed.Clients
		}
		if len(next.Campaigns) == 0 {
			next.Campaigns = s.seed.Campaigns
		}
		if len(next.Templates) == 0 {
			next.Templates = s.seed.Templates
		}
		if len(next.Addresses) == 0 {
			next.Addresses = s.seed.Addresses
		}
		if len(next.WarmerSessions) == 0 {
			next.WarmerSessions = s.seed.WarmerSessions
		}
	}

	next.normalize()
	next.Version = s.state.Load().Version + 1
	s.state.Store(&next)
	return nil
}

func (s *Store) rehydrate(next *State, fields map[string]json.RawMessage) {
	decodeField := func(key string, dst any) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			s.logf("Warning: ignoring persisted %s: %v", key, err)
		}
	}

	var theme string
	decodeField("theme", &theme)
	if validTheme(theme) {
		next.Theme = theme
	} else if theme != "" {
		s.logf("Warning: ignoring persisted theme %q", theme)
	}
	decodeField("sidebarCollapsed", &next.SidebarCollapsed)

	rehydrateCollection(s, next, clients, fields)
	rehydrateCollection(s, next, campaigns, fields)
	rehydrateCollection(s, next, templates, fields)
	rehydrateCollection(s, next, addresses, fields)
	rehydrateCollection(s, next, warmerSessions, fields)
}

func rehydrateCollection[T entity](s *Store, next *State, c collection[T], fields map[string]json.RawMessage) {
	raw, ok := fields[c.kind]
	if !ok || string(raw) == "null" {
		return
	}
	items, err := decodeEntities[T](c.kind, raw, s.logf)
	if err != nil {
		s.logf("Warning: ignoring persisted %s: %v", c.kind, err)
		return
	}
	c.set(next, items)
}

// Snapshot returns the current state. It is safe to read concurrently and
// must not be modified.
func (s *Store) Snapshot() State {
	return *s.state.Load()
}

// Subscribe registers fn for every mutation. fn runs while the store holds
// its write lock, so it must not call mutating methods synchronously.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) publish(ev Event) {
	s.subsMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// errUnchanged aborts a mutation without publishing a new state
var errUnchanged = errors.New("unchanged")

// apply runs fn on a copy of the current state and publishes the result.
func (s *Store) apply(ctx context.Context, kind string, persisted bool, fn func(next *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	next := *cur
	if err := fn(&next); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	next.Version = cur.Version + 1
	next.IsLoading = s.loading > 0
	s.state.Store(&next)

	var perr error
	if persisted && s.persister != nil {
		// The slot must track the published state even if the caller went away.
		perr = s.save(context.WithoutCancel(ctx), &next)
	}
	s.publish(Event{Kind: kind, State: next})
	return perr
}

func (s *Store) save(ctx context.Context, st *State) error {
	payload, err := persist.Encode(st.persisted())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.persister.Save(ctx, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Now is the store's clock
func (s *Store) Now() time.Time {
	return s.now()
}
