package service

import (
	"context"
	"strings"

	"github.com/cuongbtq/labour-market/internal/domain"
)

func (s *Service) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.store.GetUser(ctx, actor.ID)
}

// UpdateProfilePhoto stores the path of an already uploaded photo
func (s *Service) UpdateProfilePhoto(ctx context.Context, actor domain.Actor, photo string) (*domain.User, error) {
	if strings.TrimSpace(photo) == "" {
		return nil, domain.Validationf("Profile photo is required")
	}
	return s.store.UpdateProfilePhoto(ctx, actor.ID, photo, s.now())
}

// UserRatings lists ratings received by userID, newest first
func (s *Service) UserRatings(ctx context.Context, userID string) ([]domain.Rating, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListRatingsForUser(ctx, userID)
}
