package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobportal/jobportal-tui/internal/model"
)

type memPersister struct {
	mu      sync.Mutex
	values  map[string]string
	failSet bool
}

func newMemPersister() *memPersister {
	return &memPersister{values: make(map[string]string)}
}

func (m *memPersister) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memPersister) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("disk full")
	}
	m.values[key] = value
	return nil
}

func (m *memPersister) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

type fakeFetcher struct {
	identity *model.Identity
	err      error
	calls    int
	sawToken string
	store    *Store
}

func (f *fakeFetcher) CurrentUser(ctx context.Context) (*model.Identity, error) {
	f.calls++
	if f.store != nil {
		f.sawToken = f.store.Token()
	}
	return f.identity, f.err
}

var alice = model.Identity{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: model.RoleApplicant}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestNewStore_StartsInitializing(t *testing.T) {
	s := NewStore(newMemPersister(), quietLogger())
	st := s.State()
	assert.Equal(t, StatusInitializing, st.Status)
	assert.Nil(t, st.Identity)
	assert.Empty(t, s.Token())
}

func TestRestore(t *testing.T) {
	t.Run("no stored credential skips backend", func(t *testing.T) {
		s := NewStore(newMemPersister(), quietLogger())
		f := &fakeFetcher{identity: &alice}

		st := s.Restore(context.Background(), f)
		assert.Equal(t, StatusAnonymous, st.Status)
		assert.Equal(t, 0, f.calls)
	})

	t.Run("valid credential authenticates", func(t *testing.T) {
		p := newMemPersister()
		token := signedToken(t, time.Now().Add(time.Hour))
		p.values[tokenKey] = token
		s := NewStore(p, quietLogger())
		f := &fakeFetcher{identity: &alice, store: s}

		st := s.Restore(context.Background(), f)
		require.True(t, st.Authenticated())
		assert.Equal(t, alice, *st.Identity)
		assert.Equal(t, token, s.Token())
		assert.Equal(t, token, f.sawToken, "credential must be attached while fetching")
	})

	t.Run("backend rejection clears credential", func(t *testing.T) {
		p := newMemPersister()
		p.values[tokenKey] = "opaque-token"
		s := NewStore(p, quietLogger())
		f := &fakeFetcher{err: errors.New("401")}

		st := s.Restore(context.Background(), f)
		assert.Equal(t, StatusAnonymous, st.Status)
		_, ok, _ := p.Get(tokenKey)
		assert.False(t, ok)
		assert.Empty(t, s.Token())
	})

	t.Run("expired credential never reaches backend", func(t *testing.T) {
		p := newMemPersister()
		p.values[tokenKey] = signedToken(t, time.Now().Add(-time.Minute))
		s := NewStore(p, quietLogger())
		f := &fakeFetcher{identity: &alice}

		st := s.Restore(context.Background(), f)
		assert.Equal(t, StatusAnonymous, st.Status)
		assert.Equal(t, 0, f.calls)
		_, ok, _ := p.Get(tokenKey)
		assert.False(t, ok)
	})

	t.Run("identity with unknown role is rejected", func(t *testing.T) {
		p := newMemPersister()
		p.values[tokenKey] = "opaque-token"
		s := NewStore(p, quietLogger())
		f := &fakeFetcher{identity: &model.Identity{ID: "u9", Role: "GUEST"}}

		st := s.Restore(context.Background(), f)
		assert.Equal(t, StatusAnonymous, st.Status)
	})

	t.Run("runs exactly once", func(t *testing.T) {
		p := newMemPersister()
		p.values[tokenKey] = "opaque-token"
		s := NewStore(p, quietLogger())
		f := &fakeFetcher{identity: &alice}

		s.Restore(context.Background(), f)
		require.NoError(t, s.Clear())
		st := s.Restore(context.Background(), f)
		assert.Equal(t, 1, f.calls)
		assert.Equal(t, StatusAnonymous, st.Status)
	})
}

func TestSetAndClear(t *testing.T) {
	p := newMemPersister()
	s := NewStore(p, quietLogger())

	require.NoError(t, s.Set(alice, "tok"))
	st := s.State()
	require.True(t, st.Authenticated())
	assert.Equal(t, model.RoleApplicant, st.Role())
	stored, ok, _ := p.Get(tokenKey)
	require.True(t, ok)
	assert.Equal(t, "tok", stored)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	assert.Equal(t, StatusAnonymous, s.State().Status)
	assert.Equal(t, model.Role(""), s.State().Role())
	_, ok, _ = p.Get(tokenKey)
	assert.False(t, ok)
}

func TestSet_Rejects(t *testing.T) {
	s := NewStore(newMemPersister(), quietLogger())
	tests := []struct {
		name     string
		identity model.Identity
		token    string
	}{
		{"missing id", model.Identity{Role: model.RoleAdmin}, "tok"},
		{"unknown role", model.Identity{ID: "u1", Role: "GUEST"}, "tok"},
		{"empty token", alice, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Set(tt.identity, tt.token), ErrInvalidIdentity)
			assert.Equal(t, StatusInitializing, s.State().Status)
		})
	}
}

func TestSet_PersistFailureKeepsSession(t *testing.T) {
	p := newMemPersister()
	p.failSet = true
	s := NewStore(p, quietLogger())

	err := s.Set(alice, "tok")
	assert.Error(t, err)
	assert.True(t, s.State().Authenticated())
	assert.Equal(t, "tok", s.Token())
}

func TestSubscribe(t *testing.T) {
	s := NewStore(newMemPersister(), quietLogger())
	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Set(alice, "tok"))
	// unread update is replaced by the newest one
	require.NoError(t, s.Clear())

	select {
	case st := <-ch:
		assert.Equal(t, StatusAnonymous, st.Status)
	default:
		t.Fatal("expected a state on the channel")
	}

	// repeated Clear is not a transition
	require.NoError(t, s.Clear())
	select {
	case st := <-ch:
		t.Fatalf("unexpected state %v", st.Status)
	default:
	}

	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestParseStoredToken(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"bare", "abc.def.ghi", "abc.def.ghi", false},
		{"trimmed", "  abc \n", "abc", false},
		{"bearer prefix", "Bearer abc", "abc", false},
		{"json token", `{"token":"abc"}`, "abc", false},
		{"json access token", `{"accessToken":"xyz"}`, "xyz", false},
		{"empty", "   ", "", true},
		{"json without token", `{"user":"x"}`, "", true},
		{"broken json", `{"token":`, "", true},
		{"inner whitespace", "abc def", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStoredToken(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := tokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = tokenExpiry("opaque-token")
	assert.False(t, ok)
}
