package tenantdb

import (
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/pkg/database"
	"github.com/ksiloret44-afk/fixtector-sub002/prometheus"
)

// HandleCache holds the process-wide set of open tenant store handles, one
// per tenant id, plus the per-tenant provisioning locks. It is an explicit
// object injected where needed rather than a package global. Handles live
// for the life of the process; there is no eviction.
type HandleCache struct {
	mu      sync.Mutex
	handles map[string]*gorm.DB
	locks   map[string]*sync.Mutex
}

// NewHandleCache creates an empty handle cache.
func NewHandleCache() *HandleCache {
	return &HandleCache{
		handles: make(map[string]*gorm.DB),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Get returns the cached handle for a tenant id, if any.
func (c *HandleCache) Get(tenantID string) (*gorm.DB, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	db, ok := c.handles[tenantID]
	return db, ok
}

// Put caches the handle for a tenant id. The caller must hold the tenant's
// provisioning lock, so a handle is only ever inserted once.
func (c *HandleCache) Put(tenantID string, db *gorm.DB) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles[tenantID] = db
	prometheus.OpenTenantHandlesGauge.Set(float64(len(c.handles)))
}

// LockFor returns the provisioning lock for a tenant id, creating it on
// first use. Per-tenant granularity lets unrelated tenants provision in
// parallel.
func (c *HandleCache) LockFor(tenantID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[tenantID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[tenantID] = l
	}
	return l
}

// Len returns the number of cached handles.
func (c *HandleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}

// CloseAll closes every cached handle. Only used on shutdown.
func (c *HandleCache) CloseAll(log *zap.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, db := range c.handles {
		if err := database.Close(db); err != nil {
			log.Warn("Failed to close tenant store handle",
				zap.String("tenant_id", id), zap.Error(err))
		}
		delete(c.handles, id)
	}
	prometheus.OpenTenantHandlesGauge.Set(0)
}
