package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gridpay/internal/store"

	"github.com/google/uuid"
)

// CreateJob inserts a new job row in status QUEUED.
func (s *Store) CreateJob(ctx context.Context, tx store.DBTransaction, job *store.Job) error {
	query := `
		INSERT INTO jobs (id, requester, device_id, filename, lang, code, status, stdout, stderr, cost_usd, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '', '', $8, $9)
	`

	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, query,
		job.ID,
		job.Requester,
		job.DeviceID,
		job.Filename,
		job.Lang,
		job.Code,
		job.Status,
		job.CostUSD,
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", job.ID, err)
	}
	return nil
}

// ClaimJob claims the oldest QUEUED job assigned to deviceUserID and
// transitions it to RUNNING. The SELECT ... FOR UPDATE SKIP LOCKED keeps
// two concurrent polls for the same device from claiming the same row.
// Returns (nil, nil) when nothing is queued.
func (s *Store) ClaimJob(ctx context.Context, deviceUserID string) (*store.Job, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT id, lang, code, filename
		FROM jobs
		WHERE device_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	`

	var job store.Job
	err = tx.QueryRowContext(ctx, selectQuery, deviceUserID, store.JobStatusQueued).
		Scan(&job.ID, &job.Lang, &job.Code, &job.Filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim query failed for device %s: %w", deviceUserID, err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE jobs SET status = $1 WHERE id = $2",
		store.JobStatusRunning, job.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark job %s running: %w", job.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	job.Status = store.JobStatusRunning
	return &job, nil
}

// FinishJob marks the job FINISHED, stores its outputs and sets the
// assigned device back to ACTIVE, all in one transaction. Only RUNNING
// jobs can finish, so a replayed report cannot overwrite stored outputs;
// anything else returns store.ErrNotFound.
func (s *Store) FinishJob(ctx context.Context, id uuid.UUID, stdout, stderr string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var deviceID string
	err = tx.QueryRowContext(ctx, `
		UPDATE jobs
		SET status = $1, stdout = $2, stderr = $3
		WHERE id = $4 AND status = $5
		RETURNING device_id
	`, store.JobStatusFinished, stdout, stderr, id, store.JobStatusRunning).Scan(&deviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to finish job %s: %w", id, err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE devices SET status = $1 WHERE user_id = $2",
		store.DeviceStatusActive, deviceID,
	)
	if err != nil {
		return fmt.Errorf("failed to reactivate device %s: %w", deviceID, err)
	}

	return tx.Commit()
}

// ListJobsForUser returns all jobs submitted by userID, newest first.
func (s *Store) ListJobsForUser(ctx context.Context, userID string) ([]store.Job, error) {
	query := `
		SELECT id, filename, lang, status, stdout, stderr
		FROM jobs
		WHERE requester = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs for %s: %w", userID, err)
	}
	defer rows.Close()

	var jobs []store.Job
	for rows.Next() {
		var j store.Job
		if err := rows.Scan(&j.ID, &j.Filename, &j.Lang, &j.Status, &j.Stdout, &j.Stderr); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

// CountQueuedJobs reports the current queue depth, used by the metrics gauge.
func (s *Store) CountQueuedJobs(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM jobs WHERE status = $1",
		store.JobStatusQueued,
	).Scan(&count)
	return count, err
}
