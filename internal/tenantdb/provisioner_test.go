package tenantdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/database"
)

func TestStoragePathDeterministic(t *testing.T) {
	root := t.TempDir()
	prov := NewProvisioner(root, model.TenantModels(), testDBOptions(), time.Second, zap.NewNop())

	require.Equal(t, filepath.Join(root, "abc.db"), prov.StoragePath("abc"))
	// Same id, same path, always.
	require.Equal(t, prov.StoragePath("abc"), prov.StoragePath("abc"))
	require.NotEqual(t, prov.StoragePath("abc"), prov.StoragePath("abd"))
}

func TestEnsureCreatesArtifactWithSchema(t *testing.T) {
	root := t.TempDir()
	prov := NewProvisioner(root, model.TenantModels(), testDBOptions(), 30*time.Second, zap.NewNop())

	db, err := prov.Ensure(context.Background(), "tenant-a")
	require.NoError(t, err)
	defer database.Close(db)

	_, err = os.Stat(prov.StoragePath("tenant-a"))
	require.NoError(t, err)

	// The canonical schema is in place and usable.
	require.True(t, db.Migrator().HasTable(&model.Customer{}))
	require.True(t, db.Migrator().HasTable(&model.Review{}))
	require.NoError(t, db.Create(&model.Customer{Name: "Ada"}).Error)

	var n int64
	require.NoError(t, db.Model(&model.Customer{}).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestEnsureDoesNotRemigrateExistingArtifact(t *testing.T) {
	root := t.TempDir()

	// First provision with a reduced schema.
	partial := NewProvisioner(root, []interface{}{&model.Customer{}}, testDBOptions(), 30*time.Second, zap.NewNop())
	db, err := partial.Ensure(context.Background(), "tenant-a")
	require.NoError(t, err)
	require.NoError(t, database.Close(db))

	// Re-open through a provisioner carrying the full schema. The artifact
	// already exists, so no migration runs and the extra tables never appear.
	full := NewProvisioner(root, model.TenantModels(), testDBOptions(), 30*time.Second, zap.NewNop())
	db, err = full.Ensure(context.Background(), "tenant-a")
	require.NoError(t, err)
	defer database.Close(db)

	require.True(t, db.Migrator().HasTable(&model.Customer{}))
	require.False(t, db.Migrator().HasTable(&model.Review{}))
}

func TestEnsureTimeoutRemovesPartialArtifact(t *testing.T) {
	root := t.TempDir()
	prov := NewProvisioner(root, model.TenantModels(), testDBOptions(), time.Nanosecond, zap.NewNop())

	_, err := prov.Ensure(context.Background(), "tenant-a")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrProvisioningTimeout)

	var provErr *ProvisioningError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, "tenant-a", provErr.TenantID)

	// The half-built artifact must not survive, or the next attempt would
	// take the open-only path against an empty store.
	_, statErr := os.Stat(prov.StoragePath("tenant-a"))
	require.True(t, os.IsNotExist(statErr))
}

func TestEnsureRetriesAfterFailure(t *testing.T) {
	root := t.TempDir()

	broken := NewProvisioner(root, model.TenantModels(), testDBOptions(), time.Nanosecond, zap.NewNop())
	_, err := broken.Ensure(context.Background(), "tenant-a")
	require.Error(t, err)

	// With a sane budget the same tenant provisions cleanly from scratch.
	prov := NewProvisioner(root, model.TenantModels(), testDBOptions(), 30*time.Second, zap.NewNop())
	db, err := prov.Ensure(context.Background(), "tenant-a")
	require.NoError(t, err)
	defer database.Close(db)
	require.True(t, db.Migrator().HasTable(&model.Customer{}))
}

func TestProvisioningErrorUnwraps(t *testing.T) {
	inner := errors.New("disk full")
	err := &ProvisioningError{TenantID: "t1", Err: inner}
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "t1")
}
