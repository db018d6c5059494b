package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/labour-market/internal/api/model"
	"github.com/cuongbtq/labour-market/internal/domain"
)

const disputeColumns = `id, job_id, raised_by, text, evidence, status, resolution, created_at, resolved_at`

func (s *Storage) CreateDispute(ctx context.Context, dispute *domain.Dispute) error {
	query := `
		INSERT INTO disputes (` + disputeColumns + `)
		VALUES (:id, :job_id, :raised_by, :text, :evidence, :status, :resolution, :created_at, :resolved_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, model.NewDispute(dispute)); err != nil {
		return fmt.Errorf("failed to create dispute: %w", err)
	}
	return nil
}

func (s *Storage) GetDispute(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	var row model.Dispute
	if err := s.db.GetContext(ctx, &row, `SELECT `+disputeColumns+` FROM disputes WHERE id = $1`, disputeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, fmt.Errorf("failed to get dispute: %w", err)
	}
	d := row.ToDomain()
	return &d, nil
}

func (s *Storage) ListDisputesByUser(ctx context.Context, userID string) ([]domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE raised_by = $1 ORDER BY created_at DESC`

	var rows []model.Dispute
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list disputes: %w", err)
	}

	disputes := make([]domain.Dispute, len(rows))
	for i, r := range rows {
		disputes[i] = r.ToDomain()
	}
	return disputes, nil
}

// ResolveDispute closes an open dispute. Resolving twice returns domain.ErrStaleState.
func (s *Storage) ResolveDispute(ctx context.Context, disputeID, resolution string, now time.Time) (*domain.Dispute, error) {
	query := `
		UPDATE disputes SET status = $1, resolution = NULLIF($2, ''), resolved_at = $3
		WHERE id = $4 AND status = $5
		RETURNING ` + disputeColumns

	var row model.Dispute
	err := s.db.GetContext(ctx, &row, query, domain.DisputeStatusResolved, resolution, now, disputeID, domain.DisputeStatusOpen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStaleState
		}
		return nil, fmt.Errorf("failed to resolve dispute: %w", err)
	}
	d := row.ToDomain()
	return &d, nil
}
