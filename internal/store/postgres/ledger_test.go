package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"gridpay/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestAppendEntry_Success(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	entry := &store.LedgerEntry{
		ID:          uuid.New(),
		JobID:       uuid.New(),
		FromUser:    "alice",
		ToUser:      "bob",
		AmountCents: 42,
		CreatedAt:   time.Now().Unix(),
	}

	mock.ExpectExec(`INSERT INTO ledger_entries`).
		WithArgs(entry.ID, entry.JobID, entry.FromUser, entry.ToUser, entry.AmountCents, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.AppendEntry(context.Background(), nil, entry); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestEnsureBudget_GrantsBaselineOnce(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	// First call inserts the baseline row.
	mock.ExpectExec(`INSERT INTO budgets`).
		WithArgs("bob", store.ReceiverEarnedBaseline).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Second call conflicts and touches nothing.
	mock.ExpectExec(`INSERT INTO budgets`).
		WithArgs("bob", store.ReceiverEarnedBaseline).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if err := s.EnsureBudget(ctx, nil, "bob", store.ReceiverEarnedBaseline); err != nil {
		t.Fatalf("EnsureBudget failed: %v", err)
	}
	if err := s.EnsureBudget(ctx, nil, "bob", store.ReceiverEarnedBaseline); err != nil {
		t.Fatalf("EnsureBudget on existing row failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestApplyTransfer_AtomicIncrements(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	mock.ExpectExec(`UPDATE budgets SET spent_cents = spent_cents -`).
		WithArgs(int64(42), "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(`UPDATE budgets SET earned_cents = earned_cents \+`).
		WithArgs(int64(42), "bob").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.ApplyTransfer(context.Background(), nil, "alice", "bob", 42); err != nil {
		t.Fatalf("ApplyTransfer failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetBudget_Existing(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	mock.ExpectQuery(`SELECT user_id, spent_cents, earned_cents FROM budgets`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "spent_cents", "earned_cents"}).
			AddRow("alice", -42, 0))

	b, err := s.GetBudget(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetBudget failed: %v", err)
	}
	if b.SpentCents != -42 || b.EarnedCents != 0 {
		t.Errorf("got budget %+v, want spent -42 earned 0", b)
	}
}

func TestGetBudget_UnknownUserReturnsBaseline(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	mock.ExpectQuery(`SELECT user_id, spent_cents, earned_cents FROM budgets`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	b, err := s.GetBudget(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetBudget for unknown user failed: %v", err)
	}
	if b.SpentCents != 0 || b.EarnedCents != 1000 {
		t.Errorf("got %+v, want the {0, 1000} baseline", b)
	}
}
