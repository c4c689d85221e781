package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	return NewRedisBackend(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("entries use prefixed keys", func(t *testing.T) {
		b, mr := newRedisBackend(t)
		defer b.Close()

		require.NoError(t, b.Set(ctx, "abc", KeyUserFavorites, "[1,2]"))

		raw, err := mr.Get("learndash:abc:userFavorites")
		require.NoError(t, err)
		assert.Equal(t, "[1,2]", raw)
		assert.Zero(t, mr.TTL("learndash:abc:userFavorites"), "entries must not expire")

		require.NoError(t, b.Remove(ctx, "abc", KeyUserFavorites))
		assert.False(t, mr.Exists("learndash:abc:userFavorites"))
	})

	t.Run("missing key is absent", func(t *testing.T) {
		b, mr := newRedisBackend(t)
		defer b.Close()

		mr.Set("learndash:other:rememberMe", "true")

		v, ok, err := b.Get(ctx, "abc", KeyRememberMe)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("profile store round trip", func(t *testing.T) {
		b, _ := newRedisBackend(t)
		defer b.Close()
		store := Profile(b, "abc")

		require.NoError(t, SaveRemembered(ctx, store, "admin"))
		identifier, ok, err := LoadRemembered(ctx, store)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "admin", identifier)

		require.NoError(t, ClearRemembered(ctx, store))
		_, ok, err = LoadRemembered(ctx, store)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("server errors are not absence", func(t *testing.T) {
		b, mr := newRedisBackend(t)
		defer b.Close()

		mr.SetError("ERR out of memory")

		_, ok, err := b.Get(ctx, "abc", KeyUserSession)
		assert.Error(t, err)
		assert.False(t, ok)
		assert.Error(t, b.Set(ctx, "abc", KeyUserSession, "token"))
		assert.Error(t, b.Remove(ctx, "abc", KeyUserSession))
	})
}

func TestOpenRedisBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("connects", func(t *testing.T) {
		mr := miniredis.RunT(t)

		b, err := Open(ctx, shared.StorageConfig{Backend: "redis", RedisAddr: mr.Addr()}, nil)
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &RedisBackend{}, b)
	})

	t.Run("requires password when set", func(t *testing.T) {
		mr := miniredis.RunT(t)
		mr.RequireAuth("s3cret")

		_, err := OpenRedisBackend(ctx, shared.StorageConfig{RedisAddr: mr.Addr()})
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)

		b, err := OpenRedisBackend(ctx, shared.StorageConfig{RedisAddr: mr.Addr(), RedisPassword: "s3cret"})
		require.NoError(t, err)
		b.Close()
	})

	t.Run("unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := OpenRedisBackend(ctx, shared.StorageConfig{RedisAddr: addr})
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
	})
}
