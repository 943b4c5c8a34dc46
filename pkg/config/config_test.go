package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("fixtector")
	require.NoError(t, err)

	require.Equal(t, "fixtector", conf.ServiceName)
	require.Equal(t, "./data", conf.Storage.Root)
	require.Equal(t, "main.db", conf.Storage.MainFilename)
	require.Equal(t, 30*time.Second, conf.Storage.ProvisionTimeout)
	require.Equal(t, "8080", conf.Server.Port)
	require.Equal(t, 24, conf.JWT.ExpirationHours)
	require.Equal(t, 0, conf.Scatter.Limit)
	require.Equal(t, 1, conf.Scatter.Concurrency)
	require.Empty(t, conf.Admin.WipeCredentialHash)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_ROOT", "/var/lib/fixtector")
	t.Setenv("STORAGE_MAIN_FILENAME", "registry.db")
	t.Setenv("PROVISION_TIMEOUT", "5s")
	t.Setenv("SCATTER_SCAN_LIMIT", "100")
	t.Setenv("SCATTER_SCAN_CONCURRENCY", "8")
	t.Setenv("ADMIN_WIPE_CREDENTIAL_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("DB_LOG_LEVEL", "silent")

	conf, err := Load("fixtector")
	require.NoError(t, err)

	require.Equal(t, "/var/lib/fixtector", conf.Storage.Root)
	require.Equal(t, "registry.db", conf.Storage.MainFilename)
	require.Equal(t, 5*time.Second, conf.Storage.ProvisionTimeout)
	require.Equal(t, 100, conf.Scatter.Limit)
	require.Equal(t, 8, conf.Scatter.Concurrency)
	require.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", conf.Admin.WipeCredentialHash)
	require.Equal(t, logger.Silent, conf.Storage.LogLevel)
}

func TestMainPath(t *testing.T) {
	c := StorageConfig{Root: "/data", MainFilename: "main.db"}
	require.Equal(t, filepath.Join("/data", "main.db"), c.MainPath())
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SCATTER_SCAN_LIMIT", "not-a-number")
	t.Setenv("PROVISION_TIMEOUT", "soon")

	conf, err := Load("fixtector")
	require.NoError(t, err)
	require.Equal(t, 0, conf.Scatter.Limit)
	require.Equal(t, 30*time.Second, conf.Storage.ProvisionTimeout)
}
