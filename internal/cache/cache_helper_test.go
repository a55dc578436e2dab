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

func newTestManager(t *testing.T) (*CacheManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheManager(client), mr
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int{"points": 10}, nil
	}

	var first map[string]int
	require.NoError(t, cm.Profile.CacheOrExecute(ctx, "u1", &first, time.Minute, fetch))
	assert.Equal(t, 10, first["points"])
	assert.True(t, mr.Exists("profile:u1"))

	var second map[string]int
	require.NoError(t, cm.Profile.CacheOrExecute(ctx, "u1", &second, time.Minute, fetch))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestCacheHelper_CacheOrExecute_FetchError(t *testing.T) {
	cm, _ := newTestManager(t)
	boom := errors.New("boom")

	var dest map[string]int
	err := cm.View.CacheOrExecute(context.Background(), "k", &dest, time.Minute, func() (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCacheManager_InvalidatePaths(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	lessonPath := "/app/cursos/vendas/aulas/abertura"
	otherPath := "/app/cursos/vendas/aulas/fechamento"

	require.NoError(t, cm.View.Set(ctx, ViewKey("u1", lessonPath), "a", time.Minute))
	require.NoError(t, cm.View.Set(ctx, ViewKey("u2", lessonPath), "b", time.Minute))
	require.NoError(t, cm.View.Set(ctx, ViewKey("u1", otherPath), "c", time.Minute))
	require.NoError(t, cm.Feed.Set(ctx, "u1", "feed", time.Minute))

	cm.InvalidatePaths(ctx, lessonPath, "", lessonPath)

	assert.False(t, mr.Exists("view:u1:"+lessonPath))
	assert.False(t, mr.Exists("view:u2:"+lessonPath))
	assert.True(t, mr.Exists("view:u1:"+otherPath))
	assert.True(t, mr.Exists("feed:u1"))

	cm.InvalidatePaths(ctx, "/app/comunidade")
	assert.False(t, mr.Exists("feed:u1"))
}

func TestCacheManager_InvalidateUser(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, cm.Profile.Set(ctx, "u1", 1, time.Minute))
	require.NoError(t, cm.Catalog.Set(ctx, "u1", 1, time.Minute))
	require.NoError(t, cm.Profile.Set(ctx, "u2", 1, time.Minute))

	cm.InvalidateUser(ctx, "u1")

	assert.False(t, mr.Exists("profile:u1"))
	assert.False(t, mr.Exists("catalog:u1"))
	assert.True(t, mr.Exists("profile:u2"))
}

func TestCacheManager_NilClient(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	assert.False(t, cm.Enabled())
	assert.ErrorIs(t, cm.HealthCheck(ctx), ErrCacheNotAvailable)

	var dest string
	err := cm.View.CacheOrExecute(ctx, "k", &dest, time.Minute, func() (interface{}, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", dest)

	// no-ops, must not panic
	cm.InvalidatePaths(ctx, "/app/comunidade")
	cm.InvalidateUser(ctx, "u1")
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `/app/\[x\]\*`, escapeGlob("/app/[x]*"))
	assert.Equal(t, "/app/cursos/a", escapeGlob("/app/cursos/a"))
}
