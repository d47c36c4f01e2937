package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every driver must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "cart", []byte(`[{"id":"1"}]`)))
		got, err := s.Get(ctx, "cart")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1"}]`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "cart", []byte(`[]`)))
		got, err := s.Get(ctx, "cart")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "cart"))
		_, err := s.Get(ctx, "cart")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete missing key", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, "never-written"))
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("default is memory", func(t *testing.T) {
		s, err := Open(ctx, Config{})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("sqlite in memory", func(t *testing.T) {
		s, err := Open(ctx, Config{Driver: DriverSQLite, SQLitePath: ":memory:"})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("redis requires address", func(t *testing.T) {
		_, err := Open(ctx, Config{Driver: DriverRedis})
		assert.Error(t, err)
	})

	t.Run("spanner requires database", func(t *testing.T) {
		_, err := Open(ctx, Config{Driver: DriverSpanner})
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, Config{Driver: "etcd"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "etcd")
	})
}
