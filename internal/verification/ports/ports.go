// Package ports declares the collaborator contracts the verification
// coordinator depends on. Implementations live in store packages, the
// directory, the mailer and the notification sink; tests swap in memory
// stores and generated mocks.
package ports

import (
	"context"
	"time"

	"comercio/internal/audit"
	directorymodels "comercio/internal/directory/models"
	"comercio/internal/verification/models"
	id "comercio/pkg/domain"
)

// LedgerStore owns verification request rows. Create must refuse a second
// PENDING row per email (sentinel.ErrConflict) so a storage constraint can
// arbitrate the concurrent-request race.
type LedgerStore interface {
	Create(ctx context.Context, req *models.VerificationRequest) error
	Update(ctx context.Context, req *models.VerificationRequest) error
	Delete(ctx context.Context, requestID id.RequestID) error
	FindPending(ctx context.Context, email string) (*models.VerificationRequest, error)
	FindLatest(ctx context.Context, email string) (*models.VerificationRequest, error)
	ListTerminal(ctx context.Context, email string) ([]*models.VerificationRequest, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.VerificationRequest, int, error)
}

// Directory is read/write access to the identity records (Profile and
// Account) the workflow gates on.
type Directory interface {
	FindProfile(ctx context.Context, email string) (*directorymodels.Profile, error)
	FindProfileByNationalID(ctx context.Context, nationalID string) (*directorymodels.Profile, error)
	FindAccount(ctx context.Context, email string) (*directorymodels.Account, error)
	FindVerifiedAccount(ctx context.Context, email string, excludeID id.AccountID) (*directorymodels.Account, error)
	ListAccountsByRole(ctx context.Context, role string) ([]*directorymodels.Account, error)
	SaveAccount(ctx context.Context, account *directorymodels.Account) error
}

// CooldownStore rate-limits resend requests per email. Entries expire on
// their own TTL, independent of the ledger row's expiry.
type CooldownStore interface {
	Arm(ctx context.Context, email string, ttl time.Duration) error
	Active(ctx context.Context, email string) (bool, error)
	Clear(ctx context.Context, email string) error
}

// NotificationSink durably records a directed message for an account.
type NotificationSink interface {
	Notify(ctx context.Context, accountID id.AccountID, kind, title, message string, metadata map[string]string) error
}

// EmailSender dispatches templated mail. Implementations never return an
// error; the bool is informational only and never gates a state transition.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email, token, name string) bool
	SendWelcomeEmail(ctx context.Context, email, name string) bool
	SendRejectionEmail(ctx context.Context, email, name, reason string, attemptsLeft int) bool
}

// ReadModelCache invalidates cached identity projections keyed by national
// ID after an approval changes what they would contain.
type ReadModelCache interface {
	InvalidateNationalID(ctx context.Context, nationalID string) error
}

// TxRunner executes fn as one storage transaction. The postgres runner
// carries the tx in ctx for stores to pick up; the memory runner just calls
// fn, relying on the coordinator's per-email lock.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditPublisher emits workflow state transitions to the audit stream.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
