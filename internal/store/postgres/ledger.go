package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gridpay/internal/store"
)

// AppendEntry inserts one ledger entry. Entries are append-only; there
// is no update or delete path in the store.
func (s *Store) AppendEntry(ctx context.Context, tx store.DBTransaction, entry *store.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, job_id, from_user, to_user, amount_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, query,
		entry.ID,
		entry.JobID,
		entry.FromUser,
		entry.ToUser,
		entry.AmountCents,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry for job %s: %w", entry.JobID, err)
	}
	return nil
}

// EnsureBudget creates a budget row for userID with the given earned
// baseline if none exists yet. An existing row is left untouched, so the
// baseline is granted at most once per user.
func (s *Store) EnsureBudget(ctx context.Context, tx store.DBTransaction, userID string, earnedBaseline int64) error {
	query := `
		INSERT INTO budgets (user_id, spent_cents, earned_cents)
		VALUES ($1, 0, $2)
		ON CONFLICT (user_id) DO NOTHING
	`

	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, query, userID, earnedBaseline)
	if err != nil {
		return fmt.Errorf("failed to ensure budget for %s: %w", userID, err)
	}
	return nil
}

// ApplyTransfer applies one job's cost to both budgets with in-database
// increments. There is no read-then-write: concurrent submissions against
// the same user serialize on the row, so the totals always equal the sum
// of the ledger entries.
func (s *Store) ApplyTransfer(ctx context.Context, tx store.DBTransaction, fromUser, toUser string, amountCents int64) error {
	executor := s.getExecutor(tx)

	_, err := executor.ExecContext(ctx,
		"UPDATE budgets SET spent_cents = spent_cents - $1 WHERE user_id = $2",
		amountCents, fromUser,
	)
	if err != nil {
		return fmt.Errorf("failed to debit %s: %w", fromUser, err)
	}

	_, err = executor.ExecContext(ctx,
		"UPDATE budgets SET earned_cents = earned_cents + $1 WHERE user_id = $2",
		amountCents, toUser,
	)
	if err != nil {
		return fmt.Errorf("failed to credit %s: %w", toUser, err)
	}
	return nil
}

// GetBudget returns the stored budget for userID. A user with no row
// reads as the informational default {0, ReceiverEarnedBaseline}; no row
// is created.
func (s *Store) GetBudget(ctx context.Context, userID string) (*store.Budget, error) {
	var b store.Budget
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, spent_cents, earned_cents FROM budgets WHERE user_id = $1",
		userID,
	).Scan(&b.UserID, &b.SpentCents, &b.EarnedCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &store.Budget{
				UserID:      userID,
				SpentCents:  0,
				EarnedCents: store.ReceiverEarnedBaseline,
			}, nil
		}
		return nil, fmt.Errorf("failed to get budget for %s: %w", userID, err)
	}
	return &b, nil
}
