package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func TestKey(t *testing.T) {
	assert.Equal(t, "topevent:auth_token", Key("auth_token"))
}

func TestStore_Durable(t *testing.T) {
	t.Run("set then get round-trips", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Set(Key("auth_token"), "jwt-token"))

		v, ok := s.Get(Key("auth_token"))
		require.True(t, ok)
		assert.Equal(t, "jwt-token", v)
	})

	t.Run("absent keys read as missing", func(t *testing.T) {
		s := newStore(t)

		_, ok := s.Get(Key("auth_token"))
		assert.False(t, ok)
	})

	t.Run("values survive reopening the directory", func(t *testing.T) {
		dir := t.TempDir()

		s1, err := Open(dir)
		require.NoError(t, err)
		require.NoError(t, s1.Set(Key("auth_token"), "jwt-token"))
		require.NoError(t, s1.Close())

		s2, err := Open(dir)
		require.NoError(t, err)
		defer s2.Close()

		v, ok := s2.Get(Key("auth_token"))
		require.True(t, ok)
		assert.Equal(t, "jwt-token", v)
	})

	t.Run("delete removes the value and tolerates absence", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Set(Key("auth_token"), "jwt-token"))
		require.NoError(t, s.Delete(Key("auth_token")))

		_, ok := s.Get(Key("auth_token"))
		assert.False(t, ok)

		require.NoError(t, s.Delete(Key("auth_token")))
	})
}

func TestStore_Session(t *testing.T) {
	s := newStore(t)

	s.SetSession("app:post-redirect-toast", "payload")

	v, ok := s.TakeSession("app:post-redirect-toast")
	require.True(t, ok)
	assert.Equal(t, "payload", v)

	_, ok = s.TakeSession("app:post-redirect-toast")
	assert.False(t, ok)
}

func TestStore_Watch(t *testing.T) {
	t.Run("external writes surface the changed key", func(t *testing.T) {
		dir := t.TempDir()

		watching, err := Open(dir)
		require.NoError(t, err)
		defer watching.Close()

		var mu sync.Mutex
		var seen []string
		require.NoError(t, watching.Watch(func(key string) {
			mu.Lock()
			seen = append(seen, key)
			mu.Unlock()
		}))

		other, err := Open(dir)
		require.NoError(t, err)
		defer other.Close()
		require.NoError(t, other.Set(Key("auth_token"), "jwt-token"))

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			for _, k := range seen {
				if k == Key("auth_token") {
					return true
				}
			}
			return false
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("only one watcher per store", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Watch(func(string) {}))
		require.Error(t, s.Watch(func(string) {}))
	})
}
