package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/labour-market/internal/api/model"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/shared/postgresql"
)

const userColumns = `
	id, name, phone, email, password_hash, role, reliability_score,
	station_from, station_to, skills, expected_rate, profile_photo,
	created_at, updated_at`

func (s *Storage) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (
			:id, :name, :phone, :email, :password_hash, :role, :reliability_score,
			:station_from, :station_to, :skills, :expected_rate, :profile_photo,
			:created_at, :updated_at
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, model.NewUser(user)); err != nil {
		if postgresql.IsUniqueViolation(err, constraintUserPhone) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *Storage) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

func (s *Storage) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
}

func (s *Storage) getUser(ctx context.Context, query string, arg string) (*domain.User, error) {
	var row model.User
	if err := s.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return row.ToDomain(), nil
}

func (s *Storage) UpdateProfilePhoto(ctx context.Context, userID, photo string, now time.Time) (*domain.User, error) {
	query := `
		UPDATE users SET profile_photo = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	var row model.User
	if err := s.db.GetContext(ctx, &row, query, photo, now, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile photo: %w", err)
	}
	return row.ToDomain(), nil
}

func (s *Storage) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	query := `
		SELECT user_id, posted_jobs, accepted_jobs, completed_jobs, cancelled_jobs, updated_at
		FROM user_stats
		WHERE user_id = $1
	`

	var row model.UserStats
	if err := s.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.UserStats{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return row.ToDomain(), nil
}
