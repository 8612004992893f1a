package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOriginOf(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"path ignored", "http://localhost:8080/api", "http://localhost:8080", false},
		{"case folded", "HTTPS://Jobs.Example.com/api?x=1", "https://jobs.example.com", false},
		{"relative", "/api", "", true},
		{"no scheme", "localhost:8080", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OriginOf(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalStore(t *testing.T) {
	db := setupTestDB(t)

	store, err := db.Origin("http://localhost:8080/api")
	require.NoError(t, err)

	t.Run("Get on missing key", func(t *testing.T) {
		_, ok, err := store.Get("token")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Set then Get", func(t *testing.T) {
		require.NoError(t, store.Set("token", "abc"))
		require.NoError(t, store.Set("token", "def"))
		v, ok, err := store.Get("token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "def", v)
	})

	t.Run("origins are isolated", func(t *testing.T) {
		other, err := db.Origin("https://jobs.example.com")
		require.NoError(t, err)
		_, ok, err := other.Get("token")
		require.NoError(t, err)
		assert.False(t, ok)

		same, err := db.Origin("http://localhost:8080/other/path")
		require.NoError(t, err)
		v, ok, err := same.Get("token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "def", v)
	})

	t.Run("Remove is idempotent", func(t *testing.T) {
		require.NoError(t, store.Remove("token"))
		require.NoError(t, store.Remove("token"))
		_, ok, err := store.Get("token")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Set("a", "1"))
		require.NoError(t, store.Set("b", "2"))
		require.NoError(t, store.Clear())
		_, ok, err := store.Get("a")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")

	db, err := Open(path)
	require.NoError(t, err)
	store, err := db.Origin("http://localhost:8080")
	require.NoError(t, err)
	require.NoError(t, store.Set("token", "persisted"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	store, err = db.Origin("http://localhost:8080/api")
	require.NoError(t, err)
	v, ok, err := store.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}
