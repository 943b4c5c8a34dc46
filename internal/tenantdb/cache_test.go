package tenantdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ksiloret44-afk/fixtector-sub002/pkg/database"
)

func TestHandleCachePutGet(t *testing.T) {
	cache := NewHandleCache()

	_, ok := cache.Get("t1")
	require.False(t, ok)
	require.Equal(t, 0, cache.Len())

	db, err := database.Open(filepath.Join(t.TempDir(), "t1.db"), testDBOptions())
	require.NoError(t, err)

	cache.Put("t1", db)
	got, ok := cache.Get("t1")
	require.True(t, ok)
	require.Same(t, db, got)
	require.Equal(t, 1, cache.Len())

	cache.CloseAll(zap.NewNop())
	require.Equal(t, 0, cache.Len())
}

func TestHandleCacheLockPerTenant(t *testing.T) {
	cache := NewHandleCache()

	a := cache.LockFor("t1")
	b := cache.LockFor("t1")
	c := cache.LockFor("t2")

	// Same tenant, same lock; different tenants provision independently.
	require.Same(t, a, b)
	require.NotSame(t, a, c)
}
