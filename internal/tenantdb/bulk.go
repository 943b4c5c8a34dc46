package tenantdb

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/prometheus"
)

// WipeConfirmation is the literal a caller must supply, verbatim, before a
// full data wipe proceeds.
const WipeConfirmation = "DELETE"

// BackupMainEntry is the archive entry name for the main store artifact;
// tenant entries are named by tenant id.
const BackupMainEntry = "main"

// CredentialVerifier checks the elevated credential required by destructive
// bulk operations. It is distinct from ordinary administrator status.
type CredentialVerifier interface {
	Verify(credential string) error
}

// BcryptVerifier verifies credentials against a configured bcrypt hash.
// An empty hash rejects everything: destructive operations stay disabled
// until the operator explicitly configures a credential.
type BcryptVerifier struct {
	hash []byte
}

// NewBcryptVerifier creates a verifier from a bcrypt hash string.
func NewBcryptVerifier(hash string) *BcryptVerifier {
	return &BcryptVerifier{hash: []byte(hash)}
}

// Verify implements CredentialVerifier.
func (v *BcryptVerifier) Verify(credential string) error {
	if len(v.hash) == 0 {
		return ErrCredentialRejected
	}
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(credential)); err != nil {
		return ErrCredentialRejected
	}
	return nil
}

// BackupResult summarizes a full backup run.
type BackupResult struct {
	Tenants int      `json:"tenants"`
	Skipped []string `json:"skipped,omitempty"` // tenants whose artifact was missing
}

// TenantFailure identifies one tenant a bulk operation could not process.
type TenantFailure struct {
	TenantID string `json:"tenant_id"`
	Reason   string `json:"reason"`
}

// WipeResult aggregates a full wipe: rows deleted per entity type across all
// tenants, plus the tenants that could not be processed.
type WipeResult struct {
	Deleted map[string]int64 `json:"deleted"`
	Failed  []TenantFailure  `json:"failed,omitempty"`
}

// BulkOps iterates the whole tenant population for one logical
// administrative action, isolating per-tenant failures so one bad store
// never aborts the run.
type BulkOps struct {
	router   *Router
	mainPath string
	creds    CredentialVerifier
	log      *zap.Logger
}

// NewBulkOps creates the bulk operations service.
func NewBulkOps(router *Router, mainPath string, creds CredentialVerifier, log *zap.Logger) *BulkOps {
	return &BulkOps{
		router:   router,
		mainPath: mainPath,
		creds:    creds,
		log:      log,
	}
}

// BackupAll streams the main store plus every tenant artifact into one
// gzip-compressed tar archive. Entries are named by tenant id, the main
// store under BackupMainEntry. A missing tenant artifact is skipped and
// reported, not fatal. Each tenant's provisioning lock is held only while
// that tenant's artifact is copied, so request traffic against other
// tenants keeps flowing during a backup.
func (b *BulkOps) BackupAll(ctx context.Context, w io.Writer) (*BackupResult, error) {
	prometheus.RecordBulkOperation("backup")

	ids, err := b.router.TenantIDs(ctx)
	if err != nil {
		return nil, err
	}

	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	// Flush WAL content into the main artifact before copying it.
	b.checkpoint(b.router.Main())
	if err := addFileEntry(tw, BackupMainEntry, b.mainPath); err != nil {
		tw.Close()
		gz.Close()
		return nil, fmt.Errorf("backup main store: %w", err)
	}

	result := &BackupResult{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			tw.Close()
			gz.Close()
			return nil, err
		}

		if err := b.backupTenant(tw, id); err != nil {
			if os.IsNotExist(err) {
				b.log.Warn("Tenant artifact missing, skipping in backup",
					zap.String("tenant_id", id))
				result.Skipped = append(result.Skipped, id)
				continue
			}
			tw.Close()
			gz.Close()
			return nil, fmt.Errorf("backup tenant %s: %w", id, err)
		}
		result.Tenants++
	}

	if err := tw.Close(); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}

	b.log.Info("Backup archive complete",
		zap.Int("tenants", result.Tenants),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

// backupTenant copies one tenant artifact into the archive under the
// tenant's provisioning lock.
func (b *BulkOps) backupTenant(tw *tar.Writer, tenantID string) error {
	lock := b.router.Cache().LockFor(tenantID)
	lock.Lock()
	defer lock.Unlock()

	if db, ok := b.router.Cache().Get(tenantID); ok {
		b.checkpoint(db)
	}

	path := b.router.prov.StoragePath(tenantID)
	return addFileEntry(tw, tenantID, path)
}

func (b *BulkOps) checkpoint(db *gorm.DB) {
	if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		b.log.Warn("WAL checkpoint failed before backup copy", zap.Error(err))
	}
}

func addFileEntry(tw *tar.Writer, name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	hdr := &tar.Header{
		Name:    name,
		Mode:    0o600,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.CopyN(tw, f, info.Size())
	return err
}

// wipeOrder is the per-tenant delete sequence: dependent entities first so
// foreign-key constraints hold at every step. Shop settings are tenant
// configuration and survive a wipe.
var wipeOrder = []struct {
	name  string
	model interface{}
}{
	{"invoices", &model.Invoice{}},
	{"quotes", &model.Quote{}},
	{"appointments", &model.Appointment{}},
	{"reviews", &model.Review{}},
	{"short_links", &model.ShortLink{}},
	{"repair_parts", &model.RepairPart{}},
	{"repairs", &model.Repair{}},
	{"parts", &model.Part{}},
	{"customers", &model.Customer{}},
}

// WipeAllTenantData hard-deletes the domain rows of every tenant store.
// It requires the exact WipeConfirmation literal and a verified elevated
// credential. Each tenant's deletes run inside a single transaction, so a
// tenant is wiped completely or not at all; across tenants the operation is
// best effort and failed tenants are reported in the result.
func (b *BulkOps) WipeAllTenantData(ctx context.Context, confirmation, credential string) (*WipeResult, error) {
	if confirmation != WipeConfirmation {
		return nil, ErrConfirmationMismatch
	}
	if err := b.creds.Verify(credential); err != nil {
		return nil, err
	}

	prometheus.RecordBulkOperation("wipe")

	ids, err := b.router.TenantIDs(ctx)
	if err != nil {
		return nil, err
	}

	result := &WipeResult{Deleted: make(map[string]int64)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		store, err := b.router.Tenant(ctx, id)
		if err != nil {
			b.log.Error("Cannot open tenant store for wipe, skipping",
				zap.String("tenant_id", id), zap.Error(err))
			result.Failed = append(result.Failed, TenantFailure{TenantID: id, Reason: err.Error()})
			continue
		}

		counts := make(map[string]int64, len(wipeOrder))
		err = store.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, step := range wipeOrder {
				res := tx.Unscoped().Where("1 = 1").Delete(step.model)
				if res.Error != nil {
					return fmt.Errorf("delete %s: %w", step.name, res.Error)
				}
				counts[step.name] = res.RowsAffected
			}
			return nil
		})
		if err != nil {
			b.log.Error("Tenant wipe rolled back",
				zap.String("tenant_id", id), zap.Error(err))
			result.Failed = append(result.Failed, TenantFailure{TenantID: id, Reason: err.Error()})
			continue
		}

		for name, n := range counts {
			result.Deleted[name] += n
		}
		b.log.Info("Tenant data wiped",
			zap.String("tenant_id", id),
			zap.Duration("took", time.Since(start)))
	}

	return result, nil
}
