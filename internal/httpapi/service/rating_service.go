package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bookshare/internal/httpapi/models"
	"bookshare/internal/httpapi/repository"
)

var ErrSelfRating = errors.New("cannot rate yourself")

type RatingService interface {
	RateUser(ctx context.Context, raterID, ratedID string, score int, comment *string) (*models.Rating, error)
	ListForUser(ctx context.Context, userID string) ([]models.Rating, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	userRepo   repository.UserRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, userRepo repository.UserRepository) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		userRepo:   userRepo,
	}
}

// RateUser records a rating for a counterparty and refreshes the rated
// user's aggregate score.
func (s *ratingService) RateUser(ctx context.Context, raterID, ratedID string, score int, comment *string) (*models.Rating, error) {
	if raterID == ratedID {
		return nil, ErrSelfRating
	}

	if _, err := s.userRepo.FindByID(ctx, raterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, ratedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	rating := &models.Rating{
		RaterID: raterID,
		RatedID: ratedID,
		Score:   score,
		Comment: comment,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	// Refresh the denormalized aggregate. The rating itself is already
	// committed, so a failure here only delays the visible average.
	avg, count, err := s.ratingRepo.AverageForUser(ctx, ratedID)
	if err == nil {
		s.userRepo.UpdateRatingStats(ctx, ratedID, avg, count)
	}

	return rating, nil
}

// ListForUser returns the ratings a user has received, newest first.
func (s *ratingService) ListForUser(ctx context.Context, userID string) ([]models.Rating, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.ratingRepo.ListByRated(ctx, userID)
}
