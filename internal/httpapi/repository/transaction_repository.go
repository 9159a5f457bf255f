package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bookshare/internal/httpapi/models"
)

type TransactionRepository interface {
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
	SumPointsByUser(ctx context.Context, userID string) (int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	var list []models.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

// SumPointsByUser derives the user's balance from the ledger. Used to make
// drift between the stored balance and the transaction log observable.
func (r *transactionRepository) SumPointsByUser(ctx context.Context, userID string) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}
