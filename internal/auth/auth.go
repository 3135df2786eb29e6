// Package auth holds the signed-in identity. There is no verification: login
// fabricates a user record from whatever email and name it is given.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/dori/brainy/internal/logging"
	"github.com/dori/brainy/internal/model"
)

// SnapshotKey is the key the identity is persisted under
const SnapshotKey = "brainy-auth"

const avatarBase = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// Persister stores the identity document
type Persister interface {
	LoadSnapshot(ctx context.Context, key string) ([]byte, error)
	SaveSnapshot(ctx context.Context, key string, doc []byte) error
}

type document struct {
	User          *model.User `json:"user"`
	Authenticated bool        `json:"is_authenticated"`
}

// Store holds at most one user
type Store struct {
	mu      sync.Mutex
	doc     document
	persist Persister
	log     *logging.Logger
	newID   func() string
}

// New creates an empty identity store. p and log may be nil.
func New(p Persister, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{persist: p, log: log.Named("auth"), newID: model.NewID}
}

// Load restores the persisted identity
func (s *Store) Load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	raw, err := s.persist.LoadSnapshot(ctx, SnapshotKey)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode identity: %w", err)
	}
	if doc.User == nil {
		doc.Authenticated = false
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// Login signs in as name. Nothing is checked.
func (s *Store) Login(email, name string) model.User {
	u := model.User{
		ID:     s.newID(),
		Email:  email,
		Name:   name,
		Avatar: AvatarURL(name),
	}

	s.mu.Lock()
	s.doc = document{User: &u, Authenticated: true}
	s.save()
	s.mu.Unlock()

	s.log.Info(context.Background(), "signed in", zap.String("user_id", u.ID))
	return u
}

// Logout clears the identity
func (s *Store) Logout() {
	s.mu.Lock()
	s.doc = document{}
	s.save()
	s.mu.Unlock()
}

// User returns the signed-in user, if any
func (s *Store) User() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.User == nil {
		return model.User{}, false
	}
	return *s.doc.User, true
}

// IsAuthenticated reports whether someone is signed in
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Authenticated
}

// AvatarURL derives the avatar for a display name
func AvatarURL(name string) string {
	return avatarBase + url.QueryEscape(name)
}

func (s *Store) save() {
	if s.persist == nil {
		return
	}
	ctx := logging.WithOperation(context.Background(), "save_identity")
	raw, err := json.Marshal(s.doc)
	if err != nil {
		s.log.Error(ctx, "failed to encode identity", zap.Error(err))
		return
	}
	if err := s.persist.SaveSnapshot(ctx, SnapshotKey, raw); err != nil {
		s.log.Error(ctx, "failed to persist identity", zap.Error(err))
	}
}
