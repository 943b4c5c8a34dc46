package tenantdb

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/prometheus"
)

// Principal is the authenticated actor a request runs as, as carried in its
// token claims. TenantID, if set, must resolve to a row in the main store
// registry.
type Principal struct {
	UserID   uint
	Role     string
	TenantID *string
}

// IsAdmin reports whether the principal is a platform administrator.
func IsAdmin(p Principal) bool {
	return p.Role == model.RoleAdmin
}

// StoreProvisioner creates or opens a tenant's storage artifact.
type StoreProvisioner interface {
	Ensure(ctx context.Context, tenantID string) (*gorm.DB, error)
	StoragePath(tenantID string) string
}

// Router resolves storage handles: the main store, the store for an explicit
// tenant id, and the store for the current principal. It owns the handle
// cache; everything that touches tenant data goes through it.
type Router struct {
	main  *gorm.DB
	cache *HandleCache
	prov  StoreProvisioner
	log   *zap.Logger
}

// NewRouter creates a router over an already-open main store handle.
func NewRouter(main *gorm.DB, prov StoreProvisioner, log *zap.Logger) *Router {
	return &Router{
		main:  main,
		cache: NewHandleCache(),
		prov:  prov,
		log:   log,
	}
}

// Main returns the process singleton handle to the main store.
func (r *Router) Main() *gorm.DB {
	return r.main
}

// Cache exposes the handle cache to collaborators that need per-tenant
// locking, such as bulk operations.
func (r *Router) Cache() *HandleCache {
	return r.cache
}

// Tenant returns the store handle for a tenant id, provisioning the
// artifact on first access. Callers racing on an unseen id are serialized by
// the tenant's lock; exactly one of them provisions and all of them receive
// the same cached handle. A failed attempt is not cached, so the next call
// retries from scratch.
func (r *Router) Tenant(ctx context.Context, tenantID string) (*gorm.DB, error) {
	if tenantID == "" {
		return nil, ErrTenantNotFound
	}

	if db, ok := r.cache.Get(tenantID); ok {
		return db, nil
	}

	lock := r.cache.LockFor(tenantID)
	lock.Lock()
	defer lock.Unlock()

	// Re-check under the lock: a concurrent caller may have provisioned
	// while we waited.
	if db, ok := r.cache.Get(tenantID); ok {
		return db, nil
	}

	db, err := r.prov.Ensure(ctx, tenantID)
	if err != nil {
		prometheus.RecordTenantError(tenantID, "provision_failed")
		return nil, err
	}

	r.cache.Put(tenantID, db)
	prometheus.RecordTenantOperation("access")
	return db, nil
}

// ForPrincipal resolves the principal's tenant through the main store
// registry and returns that tenant's store handle. A principal without a
// tenant reference gets ErrNotAssociated, never someone else's store.
func (r *Router) ForPrincipal(ctx context.Context, p Principal) (*gorm.DB, error) {
	if p.TenantID == nil || *p.TenantID == "" {
		return nil, ErrNotAssociated
	}

	var tenant model.Tenant
	err := r.main.WithContext(ctx).Select("id").Where("id = ?", *p.TenantID).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("resolve tenant %s: %w", *p.TenantID, err)
	}

	return r.Tenant(ctx, tenant.ID)
}

// TenantIDs lists every tenant id known to the main store registry.
func (r *Router) TenantIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.main.WithContext(ctx).Model(&model.Tenant{}).Order("created_at").Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list tenant registry: %w", err)
	}
	return ids, nil
}
