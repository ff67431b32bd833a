package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// DBTransaction defines the methods shared by *sql.DB and *sql.Tx.
// This allows passing either a connection pool or an active transaction
// to the repository methods.
type DBTransaction interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Tx interface {
	DBTransaction
	Commit() error
	Rollback() error
}

// DeviceStore handles the persistence of device registrations.
type DeviceStore interface {
	// UpsertDevice inserts or fully replaces the device row keyed by
	// UserID. The caller supplies a freshly generated ID and LastSeen.
	UpsertDevice(ctx context.Context, device *Device) error

	// ListActiveDevices returns all devices with status ACTIVE.
	ListActiveDevices(ctx context.Context) ([]Device, error)

	// SetDeviceStatus updates the status of the device owned by
	// userID. A missing device is not an error.
	SetDeviceStatus(ctx context.Context, tx DBTransaction, userID string, status DeviceStatus) error
}

// JobStore handles the job lifecycle.
type JobStore interface {
	// CreateJob inserts a new job in status QUEUED.
	CreateJob(ctx context.Context, tx DBTransaction, job *Job) error

	// ClaimJob atomically claims the oldest QUEUED job assigned to
	// deviceUserID, transitioning it to RUNNING. Returns (nil, nil)
	// when nothing is queued. Two concurrent claims for the same
	// device never return the same job.
	ClaimJob(ctx context.Context, deviceUserID string) (*Job, error)

	// FinishJob marks the job FINISHED, stores its outputs and sets
	// the assigned device back to ACTIVE. Returns ErrNotFound when
	// no job matches id.
	FinishJob(ctx context.Context, id uuid.UUID, stdout, stderr string) error

	// ListJobsForUser returns all jobs submitted by userID.
	ListJobsForUser(ctx context.Context, userID string) ([]Job, error)

	// CountQueuedJobs returns the number of jobs currently QUEUED.
	CountQueuedJobs(ctx context.Context) (int64, error)
}

// LedgerStore handles the append-only ledger and the derived budgets.
type LedgerStore interface {
	// AppendEntry inserts one immutable ledger entry.
	AppendEntry(ctx context.Context, tx DBTransaction, entry *LedgerEntry) error

	// EnsureBudget creates a budget row for userID with the given
	// earned baseline if none exists. Existing rows are untouched.
	EnsureBudget(ctx context.Context, tx DBTransaction, userID string, earnedBaseline int64) error

	// ApplyTransfer atomically decrements the sender's spent_cents
	// and increments the receiver's earned_cents by amountCents.
	ApplyTransfer(ctx context.Context, tx DBTransaction, fromUser, toUser string, amountCents int64) error

	// GetBudget returns the stored budget for userID, or the
	// {0, ReceiverEarnedBaseline} default when no row exists.
	GetBudget(ctx context.Context, userID string) (*Budget, error)
}
