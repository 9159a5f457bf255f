package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bookshare/internal/httpapi/models"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	ListByRated(ctx context.Context, ratedID string) ([]models.Rating, error)
	AverageForUser(ctx context.Context, ratedID string) (float64, int64, error)
	CountByRater(ctx context.Context, raterID string) (int64, error)
	CountByRated(ctx context.Context, ratedID string) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

func (r *ratingRepository) ListByRated(ctx context.Context, ratedID string) ([]models.Rating, error) {
	var list []models.Rating
	if err := r.db.WithContext(ctx).
		Preload("Rater").
		Where("rated_id = ?", ratedID).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return list, nil
}

// AverageForUser computes the mean score and count over all ratings the user
// has received. Returns 0, 0 when the user has no ratings yet.
func (r *ratingRepository) AverageForUser(ctx context.Context, ratedID string) (float64, int64, error) {
	var avg float64
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("rated_id = ?", ratedID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error; err != nil {
		return 0, 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("rated_id = ?", ratedID).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

func (r *ratingRepository) CountByRater(ctx context.Context, raterID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("rater_id = ?", raterID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ratingRepository) CountByRated(ctx context.Context, ratedID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("rated_id = ?", ratedID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
