package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cuongbtq/labour-market/internal/api/model"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/shared/postgresql"
)

const jobColumns = `
	id, created_by, accepted_by, title, description, skill_required,
	station_from, station_to, budget, status, payment_id, cancel_reason,
	created_at, updated_at`

func (s *Storage) CreateJob(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES (
			:id, :created_by, :accepted_by, :title, :description, :skill_required,
			:station_from, :station_to, :budget, :status, :payment_id, :cancel_reason,
			:created_at, :updated_at
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, model.NewJob(job)); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *Storage) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	var row model.Job
	if err := s.db.GetContext(ctx, &row, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return row.ToDomain(), nil
}

// TransitionJob applies upd only if the row still has the status and
// acceptedBy of the snapshot the decision was made on. A lost race returns
// domain.ErrStaleState.
func (s *Storage) TransitionJob(ctx context.Context, snapshot *domain.Job, upd domain.JobUpdate, now time.Time) (*domain.Job, error) {
	return transitionJob(ctx, s.db, snapshot, upd, "", now)
}

// CompleteJob flips the job to completed, inserts its payment and links the
// two in one transaction.
func (s *Storage) CompleteJob(ctx context.Context, snapshot *domain.Job, upd domain.JobUpdate, payment *domain.Payment, now time.Time) (*domain.Job, error) {
	var job *domain.Job
	err := postgresql.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO payments (id, job_id, amount, status, proof_image, deadline, created_at, updated_at)
			VALUES (:id, :job_id, :amount, :status, :proof_image, :deadline, :created_at, :updated_at)
		`
		if _, err := tx.NamedExecContext(ctx, query, model.NewPayment(payment)); err != nil {
			if postgresql.IsUniqueViolation(err, "") {
				return domain.ErrStaleState
			}
			return fmt.Errorf("failed to create payment: %w", err)
		}

		var err error
		job, err = transitionJob(ctx, tx, snapshot, upd, payment.ID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func transitionJob(ctx context.Context, q sqlx.QueryerContext, snapshot *domain.Job, upd domain.JobUpdate, paymentID string, now time.Time) (*domain.Job, error) {
	query := `
		UPDATE jobs SET
			status = $1,
			accepted_by = NULLIF($2, ''),
			cancel_reason = COALESCE(NULLIF($3, ''), cancel_reason),
			payment_id = COALESCE(NULLIF($4, ''), payment_id),
			updated_at = $5
		WHERE id = $6 AND status = $7 AND COALESCE(accepted_by, '') = $8
		RETURNING ` + jobColumns

	var row model.Job
	err := sqlx.GetContext(ctx, q, &row, query,
		upd.Status, upd.AcceptedBy, upd.CancelReason, paymentID, now,
		snapshot.ID, snapshot.Status, snapshot.AcceptedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStaleState
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return row.ToDomain(), nil
}

// RejectJob hides the job from the laborer's feed. Rejecting twice is a no-op.
func (s *Storage) RejectJob(ctx context.Context, jobID, laborerID string, now time.Time) error {
	query := `
		INSERT INTO job_rejections (job_id, laborer_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id, laborer_id) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, jobID, laborerID, now); err != nil {
		return fmt.Errorf("failed to reject job: %w", err)
	}
	return nil
}

// ListOpenJobs returns open jobs newest first. Station matching and ranking
// happen in the caller.
func (s *Storage) ListOpenJobs(ctx context.Context, filter OpenJobFilter) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE status = 'open'`
	args := []interface{}{}
	argIdx := 1

	if filter.ExcludeCreator != "" {
		query += fmt.Sprintf(" AND created_by <> $%d", argIdx)
		args = append(args, filter.ExcludeCreator)
		argIdx++
	}

	if filter.ExcludeRejectedBy != "" {
		query += fmt.Sprintf(` AND NOT EXISTS (
			SELECT 1 FROM job_rejections r WHERE r.job_id = j.id AND r.laborer_id = $%d)`, argIdx)
		args = append(args, filter.ExcludeRejectedBy)
		argIdx++
	}

	if len(filter.Skills) > 0 {
		query += fmt.Sprintf(" AND LOWER(skill_required) = ANY($%d)", argIdx)
		args = append(args, pq.StringArray(filter.Skills))
	}

	query += " ORDER BY created_at DESC, id DESC"

	var rows []model.Job
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	return model.Jobs(rows), nil
}

// ListJobs returns one page plus one extra row when more results exist
func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.CreatedBy != "" {
		query += fmt.Sprintf(" AND created_by = $%d", argIdx)
		args = append(args, filter.CreatedBy)
		argIdx++
	}

	if filter.AcceptedBy != "" {
		query += fmt.Sprintf(" AND accepted_by = $%d", argIdx)
		args = append(args, filter.AcceptedBy)
		argIdx++
	}

	if len(filter.Statuses) > 0 {
		statuses := make(pq.StringArray, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		query += fmt.Sprintf(" AND status = ANY($%d)", argIdx)
		args = append(args, statuses)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.JobID)
		argIdx += 2
	}

	query += " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var rows []model.Job
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return model.Jobs(rows), nil
}

// CountJobsByStatus aggregates job count and budget per status
func (s *Storage) CountJobsByStatus(ctx context.Context, filter JobCountFilter) ([]domain.StatusCount, error) {
	query := `SELECT status, COUNT(*) AS count, COALESCE(SUM(budget), 0) AS budget FROM jobs WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.CreatedBy != "" {
		query += fmt.Sprintf(" AND created_by = $%d", argIdx)
		args = append(args, filter.CreatedBy)
		argIdx++
	}

	if filter.AcceptedBy != "" {
		query += fmt.Sprintf(" AND accepted_by = $%d", argIdx)
		args = append(args, filter.AcceptedBy)
	}

	query += " GROUP BY status"

	var rows []model.StatusCount
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	counts := make([]domain.StatusCount, len(rows))
	for i, r := range rows {
		counts[i] = domain.StatusCount{Status: domain.JobStatus(r.Status), Count: r.Count, Budget: r.Budget}
	}
	return counts, nil
}
