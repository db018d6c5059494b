package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cuongbtq/labour-market/internal/api/model"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/shared/postgresql"
)

func (s *Storage) HasRated(ctx context.Context, jobID, reviewerID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ratings WHERE job_id = $1 AND reviewer_id = $2)`
	if err := s.db.GetContext(ctx, &exists, query, jobID, reviewerID); err != nil {
		return false, fmt.Errorf("failed to check rating: %w", err)
	}
	return exists, nil
}

// RecordRating inserts the rating and rewrites the reviewee's reliability
// score with apply, holding the reviewee row lock for the read-modify-write.
// A duplicate (job, reviewer) pair returns domain.ErrAlreadyRated.
func (s *Storage) RecordRating(ctx context.Context, rating *domain.Rating, apply func(current int) int) (int, error) {
	var score int
	err := postgresql.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO ratings (id, job_id, reviewer_id, reviewee_id, rating, comment, created_at)
			VALUES (:id, :job_id, :reviewer_id, :reviewee_id, :rating, :comment, :created_at)
		`
		if _, err := tx.NamedExecContext(ctx, query, model.NewRating(rating)); err != nil {
			if postgresql.IsUniqueViolation(err, constraintRatingPerUser) {
				return domain.ErrAlreadyRated
			}
			return fmt.Errorf("failed to create rating: %w", err)
		}

		var current int
		if err := tx.GetContext(ctx, &current, `SELECT reliability_score FROM users WHERE id = $1 FOR UPDATE`, rating.RevieweeID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("failed to lock reviewee: %w", err)
		}

		score = apply(current)

		_, err := tx.ExecContext(ctx,
			`UPDATE users SET reliability_score = $1, updated_at = $2 WHERE id = $3`,
			score, rating.CreatedAt, rating.RevieweeID,
		)
		if err != nil {
			return fmt.Errorf("failed to update reliability score: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return score, nil
}

// ListRatingsForUser returns ratings received by userID, newest first
func (s *Storage) ListRatingsForUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	query := `
		SELECT r.id, r.job_id, r.reviewer_id, u.name AS reviewer_name, r.reviewee_id,
			r.rating, r.comment, r.created_at
		FROM ratings r
		LEFT JOIN users u ON u.id = r.reviewer_id
		WHERE r.reviewee_id = $1
		ORDER BY r.created_at DESC
	`

	var rows []model.Rating
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	ratings := make([]domain.Rating, len(rows))
	for i, r := range rows {
		ratings[i] = r.ToDomain()
	}
	return ratings, nil
}
