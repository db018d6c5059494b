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

const paymentColumns = `id, job_id, amount, status, proof_image, deadline, created_at, updated_at`

func (s *Storage) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var row model.Payment
	if err := s.db.GetContext(ctx, &row, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, paymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return row.ToDomain(), nil
}

// TransitionPayment applies upd only if the payment is still in the
// snapshot's status
func (s *Storage) TransitionPayment(ctx context.Context, snapshot *domain.Payment, upd domain.PaymentUpdate, now time.Time) (*domain.Payment, error) {
	query := `
		UPDATE payments SET status = $1, proof_image = NULLIF($2, ''), updated_at = $3
		WHERE id = $4 AND status = $5
		RETURNING ` + paymentColumns

	var row model.Payment
	err := s.db.GetContext(ctx, &row, query, upd.Status, upd.ProofImage, now, snapshot.ID, snapshot.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStaleState
		}
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return row.ToDomain(), nil
}
