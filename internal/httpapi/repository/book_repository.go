package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bookshare/internal/httpapi/models"
)

// DonationPoints is credited to the owner when a book is donated.
const DonationPoints = 10

type BookRepository interface {
	List(ctx context.Context, search, status string) ([]models.Book, error)
	FindByID(ctx context.Context, id string) (*models.Book, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Book, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	CreateWithDonation(ctx context.Context, book *models.Book) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// List returns books newest-first with their owner preloaded. search is a
// case-insensitive partial match against title or author; status filters on
// the book status when non-empty.
func (r *bookRepository) List(ctx context.Context, search, status string) ([]models.Book, error) {
	var list []models.Book

	q := r.db.WithContext(ctx).Preload("Owner")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if search != "" {
		p := "%" + search + "%"
		q = q.Where("title ILIKE ? OR author ILIKE ?", p, p)
	}

	if err := q.Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return list, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).Preload("Owner").First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list books by owner: %w", err)
	}
	return list, nil
}

func (r *bookRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateWithDonation inserts the book, credits the owner and appends the
// ledger entry in one transaction. Either all three rows commit or none do.
func (r *bookRepository) CreateWithDonation(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		book.Status = models.BookStatusAvailable
		if err := tx.Create(book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}

		result := tx.Model(&models.User{}).
			Where("id = ?", book.OwnerID).
			UpdateColumn("points", gorm.Expr("points + ?", DonationPoints))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		entry := models.Transaction{
			Type:        models.TransactionTypeDonation,
			Points:      DonationPoints,
			UserID:      book.OwnerID,
			BookID:      &book.ID,
			Description: fmt.Sprintf("Doação: %s", book.Title),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create donation transaction: %w", err)
		}
		return nil
	})
}
