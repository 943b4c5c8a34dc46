package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// StorageConfig holds the sqlite storage layout configuration.
// Every tenant artifact lives under Root; the main store is a single
// fixed-name artifact in the same directory.
type StorageConfig struct {
	Root             string
	MainFilename     string
	MaxIdleConns     int
	MaxOpenConns     int
	ConnMaxLifetime  time.Duration
	ProvisionTimeout time.Duration
	LogLevel         logger.LogLevel
}

// MainPath returns the path of the main store artifact.
func (c *StorageConfig) MainPath() string {
	return filepath.Join(c.Root, c.MainFilename)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// ScatterConfig controls the cross-tenant token resolver.
// Limit caps the candidate tenant population (0 = scan the full registry);
// Concurrency > 1 enables bounded parallel probing.
type ScatterConfig struct {
	Limit       int
	Concurrency int
}

// AdminConfig holds settings for destructive administrative operations.
// WipeCredentialHash is a bcrypt hash of the elevated credential that must
// accompany a full data wipe, distinct from ordinary admin status.
type AdminConfig struct {
	WipeCredentialHash string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	Storage     StorageConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Scatter     ScatterConfig
	Admin       AdminConfig
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: serviceName,
		Storage: StorageConfig{
			Root:             getEnv("STORAGE_ROOT", "./data"),
			MainFilename:     getEnv("STORAGE_MAIN_FILENAME", "main.db"),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 4),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			ProvisionTimeout: getEnvAsDuration("PROVISION_TIMEOUT", 30*time.Second),
			LogLevel:         getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "defaultsecretkey"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", serviceName),
		},
		Scatter: ScatterConfig{
			Limit:       getEnvAsInt("SCATTER_SCAN_LIMIT", 0),
			Concurrency: getEnvAsInt("SCATTER_SCAN_CONCURRENCY", 1),
		},
		Admin: AdminConfig{
			WipeCredentialHash: getEnv("ADMIN_WIPE_CREDENTIAL_HASH", ""),
		},
	}

	return config, nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("storage_root", c.Storage.Root),
		zap.String("main_store", c.Storage.MainFilename),
		zap.String("server_port", c.Server.Port),
		zap.Int("scatter_limit", c.Scatter.Limit),
		zap.Int("scatter_concurrency", c.Scatter.Concurrency),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
