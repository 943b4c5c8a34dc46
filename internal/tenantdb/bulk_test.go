package tenantdb

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
)

const testWipeCredential = "super-secret"

// newTestBulkOps wires bulk operations over a fresh router, with a verifier
// that accepts testWipeCredential.
func newTestBulkOps(t *testing.T) (*BulkOps, *Router) {
	t.Helper()

	r, root := newTestRouter(t)
	t.Cleanup(func() { r.Cache().CloseAll(zap.NewNop()) })

	hash, err := bcrypt.GenerateFromPassword([]byte(testWipeCredential), bcrypt.MinCost)
	require.NoError(t, err)

	bulk := NewBulkOps(r, filepath.Join(root, "main.db"), NewBcryptVerifier(string(hash)), zap.NewNop())
	return bulk, r
}

// archiveEntries decompresses a backup archive and returns entry name → size.
func archiveEntries(t *testing.T, data []byte) map[string]int64 {
	t.Helper()

	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer gz.Close()

	entries := make(map[string]int64)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		n, err := io.Copy(io.Discard, tr)
		require.NoError(t, err)
		require.Equal(t, hdr.Size, n)
		entries[hdr.Name] = hdr.Size
	}
	return entries
}

func seedTenantData(t *testing.T, store *gorm.DB, customers int) {
	t.Helper()

	for i := 0; i < customers; i++ {
		cust := model.Customer{Name: "Customer"}
		require.NoError(t, store.Create(&cust).Error)

		repair := model.Repair{CustomerID: cust.ID, Title: "Screen swap", Status: model.RepairReceived}
		require.NoError(t, store.Create(&repair).Error)
		require.NoError(t, store.Create(&model.Invoice{
			Number:     model.NewToken()[:12],
			CustomerID: cust.ID,
			Status:     model.InvoiceOpen,
		}).Error)
		require.NoError(t, store.Create(&model.Review{
			CustomerID:  cust.ID,
			RepairID:    repair.ID,
			PublicToken: model.NewToken(),
		}).Error)
	}
}

func countRows(t *testing.T, store *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, store.Model(m).Count(&n).Error)
	return n
}

func TestBackupAllWithNoTenants(t *testing.T) {
	bulk, _ := newTestBulkOps(t)

	var buf bytes.Buffer
	result, err := bulk.BackupAll(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, 0, result.Tenants)
	require.Empty(t, result.Skipped)

	// The archive is valid and carries exactly the main store entry.
	entries := archiveEntries(t, buf.Bytes())
	require.Len(t, entries, 1)
	require.Contains(t, entries, BackupMainEntry)
	require.Greater(t, entries[BackupMainEntry], int64(0))
}

func TestBackupAllIncludesEveryTenant(t *testing.T) {
	bulk, r := newTestBulkOps(t)
	ctx := context.Background()

	a := registerTenant(t, r, "shop-a")
	b := registerTenant(t, r, "shop-b")
	for _, id := range []string{a, b} {
		store, err := r.Tenant(ctx, id)
		require.NoError(t, err)
		seedTenantData(t, store, 1)
	}

	var buf bytes.Buffer
	result, err := bulk.BackupAll(ctx, &buf)
	require.NoError(t, err)
	require.Equal(t, 2, result.Tenants)
	require.Empty(t, result.Skipped)

	entries := archiveEntries(t, buf.Bytes())
	require.Len(t, entries, 3)
	for _, name := range []string{BackupMainEntry, a, b} {
		require.Contains(t, entries, name)
		require.Greater(t, entries[name], int64(0))
	}
}

func TestBackupSkipsMissingArtifact(t *testing.T) {
	bulk, r := newTestBulkOps(t)

	// Registered but never provisioned: there is no artifact to copy.
	id := registerTenant(t, r, "shop-a")

	var buf bytes.Buffer
	result, err := bulk.BackupAll(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, 0, result.Tenants)
	require.Equal(t, []string{id}, result.Skipped)

	entries := archiveEntries(t, buf.Bytes())
	require.Len(t, entries, 1)
	require.Contains(t, entries, BackupMainEntry)
}

func TestWipeRequiresExactConfirmation(t *testing.T) {
	bulk, r := newTestBulkOps(t)
	ctx := context.Background()

	id := registerTenant(t, r, "shop-a")
	store, err := r.Tenant(ctx, id)
	require.NoError(t, err)
	seedTenantData(t, store, 1)

	for _, confirmation := range []string{"", "delete", "DELETE ALL", " DELETE"} {
		_, err := bulk.WipeAllTenantData(ctx, confirmation, testWipeCredential)
		require.ErrorIs(t, err, ErrConfirmationMismatch)
	}

	// Nothing was deleted.
	require.EqualValues(t, 1, countRows(t, store, &model.Customer{}))
	require.EqualValues(t, 1, countRows(t, store, &model.Repair{}))
}

func TestWipeRequiresElevatedCredential(t *testing.T) {
	bulk, r := newTestBulkOps(t)
	ctx := context.Background()

	id := registerTenant(t, r, "shop-a")
	store, err := r.Tenant(ctx, id)
	require.NoError(t, err)
	seedTenantData(t, store, 1)

	_, err = bulk.WipeAllTenantData(ctx, WipeConfirmation, "wrong-credential")
	require.ErrorIs(t, err, ErrCredentialRejected)
	require.EqualValues(t, 1, countRows(t, store, &model.Customer{}))
}

func TestWipeAllTenantData(t *testing.T) {
	bulk, r := newTestBulkOps(t)
	ctx := context.Background()

	a := registerTenant(t, r, "shop-a")
	b := registerTenant(t, r, "shop-b")
	storeA, err := r.Tenant(ctx, a)
	require.NoError(t, err)
	storeB, err := r.Tenant(ctx, b)
	require.NoError(t, err)

	seedTenantData(t, storeA, 2)
	seedTenantData(t, storeB, 1)

	// Shop configuration is not domain data and must survive.
	require.NoError(t, storeA.Create(&model.ShopSetting{Key: "opening_hours", Value: "9-17"}).Error)

	result, err := bulk.WipeAllTenantData(ctx, WipeConfirmation, testWipeCredential)
	require.NoError(t, err)
	require.Empty(t, result.Failed)
	require.EqualValues(t, 3, result.Deleted["customers"])
	require.EqualValues(t, 3, result.Deleted["repairs"])
	require.EqualValues(t, 3, result.Deleted["invoices"])
	require.EqualValues(t, 3, result.Deleted["reviews"])

	for _, store := range []*gorm.DB{storeA, storeB} {
		require.EqualValues(t, 0, countRows(t, store, &model.Customer{}))
		require.EqualValues(t, 0, countRows(t, store, &model.Repair{}))
		require.EqualValues(t, 0, countRows(t, store, &model.Invoice{}))
		require.EqualValues(t, 0, countRows(t, store, &model.Review{}))
	}
	require.EqualValues(t, 1, countRows(t, storeA, &model.ShopSetting{}))
}

func TestWipeIsolatesFailingTenant(t *testing.T) {
	bulk, r := newTestBulkOps(t)
	ctx := context.Background()

	a := registerTenant(t, r, "shop-a")
	broken := registerTenant(t, r, "shop-b")
	c := registerTenant(t, r, "shop-c")

	storeA, err := r.Tenant(ctx, a)
	require.NoError(t, err)
	storeC, err := r.Tenant(ctx, c)
	require.NoError(t, err)
	seedTenantData(t, storeA, 1)
	seedTenantData(t, storeC, 1)
	corruptArtifact(t, r, broken)

	result, err := bulk.WipeAllTenantData(ctx, WipeConfirmation, testWipeCredential)
	require.NoError(t, err)

	// The broken tenant is reported; the healthy ones are fully wiped.
	require.Len(t, result.Failed, 1)
	require.Equal(t, broken, result.Failed[0].TenantID)
	require.NotEmpty(t, result.Failed[0].Reason)
	require.EqualValues(t, 2, result.Deleted["customers"])
	require.EqualValues(t, 0, countRows(t, storeA, &model.Customer{}))
	require.EqualValues(t, 0, countRows(t, storeC, &model.Customer{}))
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewBcryptVerifier(string(hash))
	require.NoError(t, v.Verify("s3cret"))
	require.ErrorIs(t, v.Verify("nope"), ErrCredentialRejected)

	// No configured hash means the operation stays disabled.
	require.ErrorIs(t, NewBcryptVerifier("").Verify("anything"), ErrCredentialRejected)
}
