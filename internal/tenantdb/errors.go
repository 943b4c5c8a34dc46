package tenantdb

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAssociated is returned when a principal has no tenant reference.
	ErrNotAssociated = errors.New("principal is not associated with a tenant")

	// ErrTenantNotFound is returned when a tenant id does not resolve in the
	// main store registry.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTokenNotFound is returned when every candidate tenant store was
	// searched cleanly and none holds the token.
	ErrTokenNotFound = errors.New("no record matches the token")

	// ErrConfirmationMismatch is returned when a destructive bulk operation
	// is invoked without the exact confirmation literal.
	ErrConfirmationMismatch = errors.New("confirmation text does not match")

	// ErrCredentialRejected is returned when the elevated credential for a
	// destructive bulk operation does not verify.
	ErrCredentialRejected = errors.New("elevated credential rejected")

	// ErrProvisioningTimeout is returned when schema application exceeds its
	// time budget.
	ErrProvisioningTimeout = errors.New("tenant store provisioning timed out")
)

// ProvisioningError wraps a failure to create, migrate or open a tenant
// store. A failed attempt is never cached, so the next call retries from
// scratch.
type ProvisioningError struct {
	TenantID string
	Err      error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning tenant store %s: %v", e.TenantID, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// ScanError reports a token scan that found nothing but could not search one
// or more tenant stores. It is distinct from ErrTokenNotFound: the token may
// exist in a store that was unreadable during the scan.
type ScanError struct {
	Failed []string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("token scan incomplete, %d tenant store(s) unreadable: %s",
		len(e.Failed), strings.Join(e.Failed, ", "))
}
