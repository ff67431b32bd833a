package handlers

import (
	"context"
	"database/sql"
	"sync"

	"gridpay/internal/store"
	"gridpay/internal/tunnel"

	"github.com/google/uuid"
)

// Mock transaction
type mockTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (m *mockTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (m *mockTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (m *mockTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (m *mockTx) Commit() error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = true
	return nil
}

func (m *mockTx) Rollback() error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}

// Mock Store
type mockStore struct {
	mu sync.Mutex

	// Transaction hooks
	beginTxErr error
	lastTx     *mockTx
	commitErr  error
	pingErr    error

	// Device hooks
	upsertDeviceErr       error
	listActiveDevicesResp []store.Device
	listActiveDevicesErr  error
	setDeviceStatusErr    error

	// Job hooks
	createJobErr    error
	claimJobResp    *store.Job
	claimJobErr     error
	finishJobErr    error
	listJobsResp    []store.Job
	listJobsErr     error
	countQueuedResp int64
	claimCallCount  int
	finishedJobIDs  []uuid.UUID
	capturedStdout  string
	capturedStderr  string

	// Ledger hooks
	appendEntryErr   error
	ensureBudgetErr  error
	applyTransferErr error
	getBudgetResp    *store.Budget
	getBudgetErr     error

	// Spies (to verify arguments passed by handlers)
	capturedDevice   *store.Device
	capturedJob      *store.Job
	capturedEntry    *store.LedgerEntry
	capturedStatus   store.DeviceStatus
	capturedAmount   int64
	ensuredBaselines map[string]int64
}

func (m *mockStore) BeginTx(ctx context.Context) (store.Tx, error) {
	if m.beginTxErr != nil {
		return nil, m.beginTxErr
	}
	m.lastTx = &mockTx{commitErr: m.commitErr}
	return m.lastTx, nil
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockStore) UpsertDevice(ctx context.Context, device *store.Device) error {
	m.capturedDevice = device
	return m.upsertDeviceErr
}

func (m *mockStore) ListActiveDevices(ctx context.Context) ([]store.Device, error) {
	return m.listActiveDevicesResp, m.listActiveDevicesErr
}

func (m *mockStore) SetDeviceStatus(ctx context.Context, tx store.DBTransaction, userID string, status store.DeviceStatus) error {
	m.capturedStatus = status
	return m.setDeviceStatusErr
}

func (m *mockStore) CreateJob(ctx context.Context, tx store.DBTransaction, job *store.Job) error {
	m.capturedJob = job
	return m.createJobErr
}

func (m *mockStore) ClaimJob(ctx context.Context, deviceUserID string) (*store.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claimCallCount++
	if m.claimJobErr != nil {
		return nil, m.claimJobErr
	}
	// Hand the job out exactly once; later claims find an empty queue.
	job := m.claimJobResp
	m.claimJobResp = nil
	return job, nil
}

func (m *mockStore) FinishJob(ctx context.Context, id uuid.UUID, stdout, stderr string) error {
	if m.finishJobErr != nil {
		return m.finishJobErr
	}
	m.finishedJobIDs = append(m.finishedJobIDs, id)
	m.capturedStdout = stdout
	m.capturedStderr = stderr
	return nil
}

func (m *mockStore) ListJobsForUser(ctx context.Context, userID string) ([]store.Job, error) {
	return m.listJobsResp, m.listJobsErr
}

func (m *mockStore) CountQueuedJobs(ctx context.Context) (int64, error) {
	return m.countQueuedResp, nil
}

func (m *mockStore) AppendEntry(ctx context.Context, tx store.DBTransaction, entry *store.LedgerEntry) error {
	m.capturedEntry = entry
	return m.appendEntryErr
}

func (m *mockStore) EnsureBudget(ctx context.Context, tx store.DBTransaction, userID string, earnedBaseline int64) error {
	if m.ensuredBaselines == nil {
		m.ensuredBaselines = make(map[string]int64)
	}
	m.ensuredBaselines[userID] = earnedBaseline
	return m.ensureBudgetErr
}

func (m *mockStore) ApplyTransfer(ctx context.Context, tx store.DBTransaction, fromUser, toUser string, amountCents int64) error {
	m.capturedAmount = amountCents
	return m.applyTransferErr
}

func (m *mockStore) GetBudget(ctx context.Context, userID string) (*store.Budget, error) {
	if m.getBudgetErr != nil {
		return nil, m.getBudgetErr
	}
	if m.getBudgetResp != nil {
		return m.getBudgetResp, nil
	}
	return &store.Budget{UserID: userID, SpentCents: 0, EarnedCents: store.ReceiverEarnedBaseline}, nil
}

// Mock tunnel provisioner
type mockProvisioner struct {
	resp *tunnel.Credentials
	err  error
}

func (m *mockProvisioner) Provision(ctx context.Context, userID string) (*tunnel.Credentials, error) {
	return m.resp, m.err
}
