package tenantdb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
)

// seedReview provisions the tenant's store and plants a pending review
// carrying the given public token.
func seedReview(t *testing.T, r *Router, tenantID, token string) {
	t.Helper()

	store, err := r.Tenant(context.Background(), tenantID)
	require.NoError(t, err)
	require.NoError(t, store.Create(&model.Review{
		CustomerID:  1,
		RepairID:    1,
		Rating:      0,
		PublicToken: token,
	}).Error)
}

// corruptArtifact replaces a tenant's storage artifact with bytes that are
// not a valid store, so every read against it fails.
func corruptArtifact(t *testing.T, r *Router, tenantID string) {
	t.Helper()
	path := r.prov.StoragePath(tenantID)
	require.NoError(t, os.WriteFile(path, []byte("this is not a database"), 0o600))
}

func reviewTokenProbe(token string) Probe {
	return func(db *gorm.DB) (bool, error) {
		var n int64
		if err := db.Model(&model.Review{}).Where("public_token = ?", token).Count(&n).Error; err != nil {
			return false, err
		}
		return n > 0, nil
	}
}

func TestResolveHit(t *testing.T) {
	r, _ := newTestRouter(t)
	defer r.Cache().CloseAll(zap.NewNop())

	registerTenant(t, r, "shop-a")
	registerTenant(t, r, "shop-b")
	owner := registerTenant(t, r, "shop-c")
	seedReview(t, r, owner, "tok-hit")

	resolver := NewScatterResolver(r, 0, 1, zap.NewNop())
	got, err := resolver.Resolve(context.Background(), reviewTokenProbe("tok-hit"))
	require.NoError(t, err)
	require.Equal(t, owner, got)
}

func TestResolveCleanMiss(t *testing.T) {
	r, _ := newTestRouter(t)
	defer r.Cache().CloseAll(zap.NewNop())

	registerTenant(t, r, "shop-a")
	registerTenant(t, r, "shop-b")

	resolver := NewScatterResolver(r, 0, 1, zap.NewNop())
	_, err := resolver.Resolve(context.Background(), reviewTokenProbe("tok-absent"))
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResolveContinuesPastUnreadableStore(t *testing.T) {
	r, _ := newTestRouter(t)
	defer r.Cache().CloseAll(zap.NewNop())

	registerTenant(t, r, "shop-a")
	broken := registerTenant(t, r, "shop-b")
	owner := registerTenant(t, r, "shop-c")

	corruptArtifact(t, r, broken)
	seedReview(t, r, owner, "tok-hit")

	// The broken store sits before the owner in registry order; the scan must
	// step over it and still find the token.
	resolver := NewScatterResolver(r, 0, 1, zap.NewNop())
	got, err := resolver.Resolve(context.Background(), reviewTokenProbe("tok-hit"))
	require.NoError(t, err)
	require.Equal(t, owner, got)
}

func TestResolvePartialScanError(t *testing.T) {
	r, _ := newTestRouter(t)
	defer r.Cache().CloseAll(zap.NewNop())

	good := registerTenant(t, r, "shop-a")
	broken := registerTenant(t, r, "shop-b")
	seedReview(t, r, good, "tok-elsewhere")
	corruptArtifact(t, r, broken)

	// No store holds the token, but one store could not be searched: the
	// caller must not be told a definitive "not found".
	resolver := NewScatterResolver(r, 0, 1, zap.NewNop())
	_, err := resolver.Resolve(context.Background(), reviewTokenProbe("tok-absent"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTokenNotFound)

	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
	require.Equal(t, []string{broken}, scanErr.Failed)
}

func TestResolveHonorsScanLimit(t *testing.T) {
	r, _ := newTestRouter(t)
	defer r.Cache().CloseAll(zap.NewNop())

	first := registerTenant(t, r, "shop-a")
	second := registerTenant(t, r, "shop-b")
	seedReview(t, r, first, "tok-first")
	seedReview(t, r, second, "tok-second")

	resolver := NewScatterResolver(r, 1, 1, zap.NewNop())

	got, err := resolver.Resolve(context.Background(), reviewTokenProbe("tok-first"))
	require.NoError(t, err)
	require.Equal(t, first, got)

	// The owner sits beyond the cap, so the scan never reaches it.
	_, err = resolver.Resolve(context.Background(), reviewTokenProbe("tok-second"))
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResolveParallelHit(t *testing.T) {
	r, _ := newTestRouter(t)
	defer r.Cache().CloseAll(zap.NewNop())

	names := []string{"shop-a", "shop-b", "shop-c", "shop-d", "shop-e", "shop-f"}
	var owner string
	for i, name := range names {
		id := registerTenant(t, r, name)
		if i == 4 {
			owner = id
		}
	}
	seedReview(t, r, owner, "tok-hit")

	resolver := NewScatterResolver(r, 0, 4, zap.NewNop())
	got, err := resolver.Resolve(context.Background(), reviewTokenProbe("tok-hit"))
	require.NoError(t, err)
	require.Equal(t, owner, got)
}

func TestResolveParallelCleanMiss(t *testing.T) {
	r, _ := newTestRouter(t)
	defer r.Cache().CloseAll(zap.NewNop())

	registerTenant(t, r, "shop-a")
	registerTenant(t, r, "shop-b")
	registerTenant(t, r, "shop-c")

	resolver := NewScatterResolver(r, 0, 3, zap.NewNop())
	_, err := resolver.Resolve(context.Background(), reviewTokenProbe("tok-absent"))
	require.ErrorIs(t, err, ErrTokenNotFound)
}
