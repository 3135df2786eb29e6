// Package store owns the domain state. Every change goes through one of the
// Store's actions, which run as a single command: the state is copied, the
// command mutates the copy, any XP events it emitted are folded in by the
// gamification reducer, and the copy replaces the current state before the
// whole document is persisted.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/logging"
	"github.com/dori/brainy/internal/model"
)

// Persister stores the serialised state and the awards that produced it
type Persister interface {
	LoadSnapshot(ctx context.Context, key string) ([]byte, error)
	SaveState(ctx context.Context, key string, doc []byte, awards []gamify.Award) error
}

// AwardHook is called after an award has been committed
type AwardHook func(gamify.Award)

// Option configures a Store
type Option func(*Store)

// WithPersister makes the store write through to p on every change
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.log = l.Named("store") }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides model.NewID
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithAwardHook registers fn to run after each committed award
func WithAwardHook(fn AwardHook) Option {
	return func(s *Store) { s.hooks = append(s.hooks, fn) }
}

// Store is the single owner of the domain state
type Store struct {
	mu      sync.Mutex
	state   State
	persist Persister
	log     *logging.Logger
	now     func() time.Time
	newID   func() string
	hooks   []AwardHook
}

// New creates a store holding the default state
func New(opts ...Option) *Store {
	s := &Store{
		state: DefaultState(),
		log:   logging.Nop(),
		now:   time.Now,
		newID: model.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted document, if any
func (s *Store) Load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	doc, err := s.persist.LoadSnapshot(ctx, SnapshotKey)
	if err != nil {
		return err
	}
	st, err := Decode(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	s.log.Debug(ctx, "state restored",
		zap.Int("tasks", len(st.Tasks)),
		zap.Int("habits", len(st.Habits)),
		zap.Int("goals", len(st.Goals)))
	return nil
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Stats returns the current gamification counters
func (s *Store) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Stats
	st.Badges = append([]string{}, st.Badges...)
	return st
}

// Preferences returns the current preferences
func (s *Store) Preferences() model.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Preferences
}

// CurrentTeam returns the active team. Without an explicit selection the
// first team is used.
func (s *Store) CurrentTeam() (model.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.state.Teams {
		if t.ID == s.state.CurrentTeamID {
			return t.Clone(), true
		}
	}
	if len(s.state.Teams) > 0 {
		return s.state.Teams[0].Clone(), true
	}
	return model.Team{}, false
}

// command mutates a private copy of the state. It returns the XP events it
// wants applied and whether anything changed; false discards the copy.
type command func(st *State) (events []gamify.Event, changed bool)

// apply runs cmd as one state transition
func (s *Store) apply(op string, cmd command) []gamify.Award {
	ctx := logging.WithOperation(context.Background(), op)

	s.mu.Lock()
	next := s.state.Clone()
	events, changed := cmd(&next)
	if !changed {
		s.mu.Unlock()
		s.log.Debug(ctx, "no-op")
		return nil
	}

	at := s.now()
	var awards []gamify.Award
	for _, ev := range events {
		var a gamify.Award
		next.Stats, a = gamify.Apply(next.Stats, ev, at)
		awards = append(awards, a)
	}
	s.state = next

	if s.persist != nil {
		s.save(ctx, next, awards)
	}
	s.mu.Unlock()

	for _, a := range awards {
		if a.LeveledUp {
			s.log.Info(ctx, "level up", zap.Int("level", a.LevelAfter), zap.Int("xp", a.XPAfter))
		}
		for _, hook := range s.hooks {
			hook(a)
		}
	}
	return awards
}

// save writes the document while the lock is held so snapshots land in order
func (s *Store) save(ctx context.Context, st State, awards []gamify.Award) {
	doc, err := st.Encode()
	if err != nil {
		s.log.Error(ctx, "failed to encode state", zap.Error(err))
		return
	}
	if err := s.persist.SaveState(ctx, SnapshotKey, doc, awards); err != nil {
		s.log.Error(ctx, "failed to persist state", zap.Error(err))
	}
}
