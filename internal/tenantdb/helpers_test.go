package tenantdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/database"
)

func testDBOptions() database.Options {
	return database.Options{
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		LogLevel:     gormlogger.Silent,
	}
}

// newTestRouter builds a router over a fresh main store in a temp dir.
func newTestRouter(t *testing.T) (*Router, string) {
	t.Helper()

	root := t.TempDir()
	main, err := database.Open(filepath.Join(root, "main.db"), testDBOptions())
	require.NoError(t, err)
	require.NoError(t, database.MigrateModels(main, model.MainModels()...))

	prov := NewProvisioner(root, model.TenantModels(), testDBOptions(), 30*time.Second, zap.NewNop())
	return NewRouter(main, prov, zap.NewNop()), root
}

// registerTenant creates a registry row in the main store and returns the
// minted tenant id. The storage artifact is not provisioned.
func registerTenant(t *testing.T, r *Router, name string) string {
	t.Helper()

	tenant := model.Tenant{Name: name, OwnerID: 1, Active: true}
	require.NoError(t, r.Main().Create(&tenant).Error)
	require.NotEmpty(t, tenant.ID)
	return tenant.ID
}
