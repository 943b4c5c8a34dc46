package tenantdb

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/prometheus"
)

// Probe checks one tenant store for a token-addressed record. It reports a
// hit without loading the record; the caller re-reads through the owning
// tenant's handle once the tenant is known.
type Probe func(db *gorm.DB) (bool, error)

// Resolver finds the tenant that owns a token-addressed record. There is no
// token→tenant index, so the baseline implementation scans tenant stores;
// the interface exists so an indexed implementation can replace it without
// touching call sites.
type Resolver interface {
	Resolve(ctx context.Context, probe Probe) (string, error)
}

// ScatterResolver resolves tokens by probing tenant stores until a hit.
// Cost is O(tenants scanned) in the worst case; this is a deliberate
// trade-off, not an oversight. If limit > 0 only the first limit tenants
// from the registry are candidates and matches beyond the cap are missed.
// With concurrency > 1, probes run in a bounded pool and in-flight siblings
// are abandoned once one reports a hit.
//
// A read failure against a single tenant's store is logged and the scan
// continues; availability wins over completeness.
type ScatterResolver struct {
	router      *Router
	limit       int
	concurrency int
	log         *zap.Logger
}

// NewScatterResolver creates a resolver over the router's tenant population.
func NewScatterResolver(router *Router, limit, concurrency int, log *zap.Logger) *ScatterResolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ScatterResolver{
		router:      router,
		limit:       limit,
		concurrency: concurrency,
		log:         log,
	}
}

// Resolve returns the id of the tenant whose store satisfies the probe.
// A clean miss is ErrTokenNotFound; a miss where one or more stores could
// not be searched is a *ScanError listing them.
func (r *ScatterResolver) Resolve(ctx context.Context, probe Probe) (string, error) {
	ids, err := r.router.TenantIDs(ctx)
	if err != nil {
		return "", err
	}
	if r.limit > 0 && len(ids) > r.limit {
		ids = ids[:r.limit]
	}

	var tenantID string
	var failed []string
	if r.concurrency <= 1 {
		tenantID, failed = r.scanSequential(ctx, ids, probe)
	} else {
		tenantID, failed = r.scanParallel(ctx, ids, probe)
	}

	if tenantID != "" {
		prometheus.RecordScatterScan("hit", len(ids))
		return tenantID, nil
	}
	if len(failed) > 0 {
		prometheus.RecordScatterScan("partial", len(ids))
		return "", &ScanError{Failed: failed}
	}
	prometheus.RecordScatterScan("miss", len(ids))
	return "", ErrTokenNotFound
}

func (r *ScatterResolver) scanSequential(ctx context.Context, ids []string, probe Probe) (string, []string) {
	var failed []string
	for _, id := range ids {
		if ctx.Err() != nil {
			failed = append(failed, id)
			continue
		}

		db, err := r.router.Tenant(ctx, id)
		if err != nil {
			r.log.Warn("Skipping unreadable tenant store during token scan",
				zap.String("tenant_id", id), zap.Error(err))
			failed = append(failed, id)
			continue
		}

		found, err := probe(db.WithContext(ctx))
		if err != nil {
			r.log.Warn("Probe failed against tenant store, continuing scan",
				zap.String("tenant_id", id), zap.Error(err))
			failed = append(failed, id)
			continue
		}
		if found {
			return id, failed
		}
	}
	return "", failed
}

// errHit stops the errgroup early; it never escapes this file.
var errHit = errors.New("scatter scan hit")

func (r *ScatterResolver) scanParallel(ctx context.Context, ids []string, probe Probe) (string, []string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	var mu sync.Mutex
	var winner string
	var failed []string

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if gctx.Err() != nil {
				// A sibling already hit; this candidate's result is discarded.
				return nil
			}

			db, err := r.router.Tenant(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				r.log.Warn("Skipping unreadable tenant store during token scan",
					zap.String("tenant_id", id), zap.Error(err))
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
				return nil
			}

			found, err := probe(db.WithContext(gctx))
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				r.log.Warn("Probe failed against tenant store, continuing scan",
					zap.String("tenant_id", id), zap.Error(err))
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
				return nil
			}
			if found {
				mu.Lock()
				if winner == "" {
					winner = id
				}
				mu.Unlock()
				return errHit
			}
			return nil
		})
	}

	// errHit is the expected early exit; everything else was swallowed and
	// recorded per tenant.
	_ = g.Wait()

	return winner, failed
}
