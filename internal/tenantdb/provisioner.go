package tenantdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/pkg/database"
	"github.com/ksiloret44-afk/fixtector-sub002/prometheus"
)

// Provisioner creates tenant storage artifacts and applies their canonical
// schema. Callers must serialize calls per tenant id; the Router does this
// through the handle cache's per-tenant locks.
type Provisioner struct {
	root    string
	models  []interface{}
	opts    database.Options
	timeout time.Duration
	log     *zap.Logger
}

// NewProvisioner creates a provisioner rooted at the given storage directory.
// models is the canonical tenant schema, applied exactly once per artifact.
func NewProvisioner(root string, models []interface{}, opts database.Options, timeout time.Duration, log *zap.Logger) *Provisioner {
	return &Provisioner{
		root:    root,
		models:  models,
		opts:    opts,
		timeout: timeout,
		log:     log,
	}
}

// StoragePath returns the deterministic artifact path for a tenant id.
// Tenant ids are unique by construction, so paths cannot collide.
func (p *Provisioner) StoragePath(tenantID string) string {
	return filepath.Join(p.root, tenantID+".db")
}

// Ensure opens the tenant's storage artifact, creating it and applying the
// canonical schema if it does not exist yet. An existing artifact is opened
// as-is: schema is never reapplied or upgraded for pre-existing tenants.
// A partially-created artifact is removed on failure so the next attempt
// starts from scratch.
func (p *Provisioner) Ensure(ctx context.Context, tenantID string) (*gorm.DB, error) {
	start := time.Now()
	prometheus.ProvisionCounter.Inc()

	path := p.StoragePath(tenantID)

	_, statErr := os.Stat(path)
	exists := statErr == nil

	if err := os.MkdirAll(p.root, 0o755); err != nil {
		prometheus.RecordProvisionFailure("open")
		return nil, &ProvisioningError{TenantID: tenantID, Err: err}
	}

	db, err := database.Open(path, p.opts)
	if err != nil {
		prometheus.RecordProvisionFailure("open")
		if !exists {
			os.Remove(path)
		}
		return nil, &ProvisioningError{TenantID: tenantID, Err: err}
	}

	if exists {
		p.log.Debug("Opened existing tenant store", zap.String("tenant_id", tenantID))
		return db, nil
	}

	// First access: apply the canonical schema under a time budget.
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := db.WithContext(ctx).AutoMigrate(p.models...); err != nil {
		database.Close(db)
		os.Remove(path)

		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			prometheus.RecordProvisionFailure("timeout")
			return nil, &ProvisioningError{TenantID: tenantID, Err: ErrProvisioningTimeout}
		}
		prometheus.RecordProvisionFailure("schema")
		return nil, &ProvisioningError{TenantID: tenantID, Err: err}
	}

	prometheus.ProvisionDuration.Observe(time.Since(start).Seconds())
	p.log.Info("Provisioned tenant store",
		zap.String("tenant_id", tenantID),
		zap.String("path", path),
		zap.Duration("took", time.Since(start)))

	return db, nil
}
