package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = Close() })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			calls++
			*dest = cachedThing{ID: 7, Name: "focus"}
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, "thing:7", &first, time.Minute, fetch(&first)))
	assert.Equal(t, "focus", first.Name)

	var second cachedThing
	require.NoError(t, Aside(ctx, "thing:7", &second, time.Minute, fetch(&second)))
	assert.Equal(t, "focus", second.Name)
	assert.Equal(t, 1, calls)
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	var dest cachedThing
	err := Aside(ctx, "thing:8", &dest, time.Minute, func() error {
		return errors.New("boom")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("thing:8"))
}

func TestAside_NoClientCallsFetch(t *testing.T) {
	SetClient(nil)
	var dest cachedThing
	called := false
	err := Aside(context.Background(), "thing:9", &dest, time.Minute, func() error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestInvalidateUser(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(3), cachedThing{ID: 3}, UserTTL))
	assert.True(t, mr.Exists("user:3"))

	InvalidateUser(ctx, 3)
	assert.False(t, mr.Exists("user:3"))
}

func TestRevokeToken(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	revoked, err := IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, "abc", time.Hour))
	revoked, err = IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}
