// Package session holds the single source of truth for who is logged in.
//
// A Store starts in StatusInitializing and moves to StatusAuthenticated or
// StatusAnonymous once Restore resolves. Login and register move it to
// StatusAuthenticated through Set; logout and any backend rejection of the
// stored credential move it to StatusAnonymous through Clear.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// Status is the lifecycle state of the session
type Status int

const (
	StatusInitializing Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the session
type State struct {
	Status   Status
	Identity *model.Identity // nil unless Status is StatusAuthenticated
}

// Authenticated reports whether the snapshot carries an identity
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}

// Role returns the identity's role, or "" when anonymous
func (s State) Role() model.Role {
	if !s.Authenticated() {
		return ""
	}
	return s.Identity.Role
}

// Persister is the durable, origin-scoped key/value store the credential lives in
type Persister interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// IdentityFetcher resolves the identity behind the current credential
type IdentityFetcher interface {
	CurrentUser(ctx context.Context) (*model.Identity, error)
}

// ErrInvalidIdentity is returned by Set for identities the UI could not gate on
var ErrInvalidIdentity = errors.New("session: identity must have an id and a known role")

const tokenKey = "token"

// Store is the session state machine. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	state    State
	token    string
	persist  Persister
	logger   *slog.Logger
	now      func() time.Time
	restored sync.Once

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int
}

// NewStore creates a Store in StatusInitializing
func NewStore(persist Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:   State{Status: StatusInitializing},
		persist: persist,
		logger:  logger,
		now:     time.Now,
		subs:    make(map[int]chan State),
	}
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the in-memory credential, or "" when there is none
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Restore resolves the startup session exactly once per Store. Later calls
// return the current state without touching the backend. Any failure,
// including an unreachable backend, resolves to StatusAnonymous.
func (s *Store) Restore(ctx context.Context, fetch IdentityFetcher) State {
	s.restored.Do(func() {
		s.restore(ctx, fetch)
	})
	return s.State()
}

func (s *Store) restore(ctx context.Context, fetch IdentityFetcher) {
	if s.State().Status != StatusInitializing {
		return
	}

	raw, ok, err := s.persist.Get(tokenKey)
	if err != nil {
		s.logger.Warn("session restore: read stored credential", "error", err)
		s.resolveAnonymous()
		return
	}
	if !ok {
		s.transition(State{Status: StatusAnonymous}, "")
		return
	}

	token, err := parseStoredToken(raw)
	if err != nil {
		s.logger.Warn("session restore: discarding unreadable credential", "error", err)
		s.resolveAnonymous()
		return
	}
	if exp, ok := tokenExpiry(token); ok && !exp.After(s.now()) {
		s.logger.Info("session restore: stored credential expired", "expired_at", exp)
		s.resolveAnonymous()
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	identity, err := fetch.CurrentUser(ctx)
	if err != nil || identity == nil || identity.ID == "" || !identity.Role.Valid() {
		if err == nil {
			err = ErrInvalidIdentity
		}
		s.logger.Info("session restore: backend rejected credential", "error", err)
		s.resolveAnonymous()
		return
	}

	s.transition(State{Status: StatusAuthenticated, Identity: identity}, token)
	s.logger.Info("session restored", "user_id", identity.ID, "role", identity.Role)
}

func (s *Store) resolveAnonymous() {
	if err := s.Clear(); err != nil {
		s.logger.Warn("session restore: remove stored credential", "error", err)
	}
}

// Set records a freshly authenticated identity and persists its credential.
// The in-memory session is updated even when persisting fails; the returned
// error then only means the session will not survive a restart.
func (s *Store) Set(identity model.Identity, token string) error {
	if identity.ID == "" || !identity.Role.Valid() || token == "" {
		return ErrInvalidIdentity
	}
	id := identity
	s.transition(State{Status: StatusAuthenticated, Identity: &id}, token)

	if err := s.persist.Set(tokenKey, token); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	return nil
}

// Clear drops the identity and the stored credential. Clearing an anonymous
// session is a no-op apart from removing any stale stored credential.
func (s *Store) Clear() error {
	s.transition(State{Status: StatusAnonymous}, "")
	if err := s.persist.Remove(tokenKey); err != nil {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}

func (s *Store) transition(next State, token string) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.token = token
	s.mu.Unlock()

	if prev.Status == next.Status && sameIdentity(prev.Identity, next.Identity) {
		return
	}
	s.logger.Debug("session transition", "from", prev.Status, "to", next.Status)
	s.publish(next)
}

func sameIdentity(a, b *model.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Subscribe returns a channel that receives the latest state after every
// transition. Slow readers only ever see the most recent state. The returned
// func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) publish(st State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}
