package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookshare/internal/httpapi/models"
)

// BorrowCost is debited from the borrower when a loan is created.
const BorrowCost = 5

var (
	// ErrBookNotAvailable is returned when the locked book row is no longer
	// AVAILABLE, including when a concurrent borrow won the race.
	ErrBookNotAvailable = errors.New("book not available")

	// ErrInsufficientPoints is returned when the borrower's balance dropped
	// below the borrow cost between the precondition check and the commit.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrBorrowingNotActive is returned when returning a borrowing that has
	// already been returned.
	ErrBorrowingNotActive = errors.New("borrowing not active")
)

type BorrowingRepository interface {
	CreateLoan(ctx context.Context, bookID, borrowerID string) (*models.Borrowing, error)
	Return(ctx context.Context, borrowingID string) (*models.Borrowing, error)
	FindByID(ctx context.Context, id string) (*models.Borrowing, error)
	ListActiveByBorrower(ctx context.Context, borrowerID string) ([]models.Borrowing, error)
	CountByBorrower(ctx context.Context, borrowerID string) (int64, error)
}

type borrowingRepository struct {
	db *gorm.DB
}

func NewBorrowingRepository(db *gorm.DB) BorrowingRepository {
	return &borrowingRepository{db: db}
}

// CreateLoan performs the whole borrow mutation atomically: it locks the
// book row, re-checks availability (so concurrent borrowers of the same book
// cannot both commit), inserts the borrowing, flips the book to BORROWED,
// debits the borrower and appends the ledger entry.
func (r *borrowingRepository) CreateLoan(ctx context.Context, bookID, borrowerID string) (*models.Borrowing, error) {
	var borrowing models.Borrowing

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&book, "id = ?", bookID).Error; err != nil {
			return err
		}
		if book.Status != models.BookStatusAvailable {
			return ErrBookNotAvailable
		}

		borrowing = models.Borrowing{
			BookID:     book.ID,
			BorrowerID: borrowerID,
			LenderID:   book.OwnerID,
			Status:     models.BorrowingStatusActive,
		}
		if err := tx.Create(&borrowing).Error; err != nil {
			return fmt.Errorf("create borrowing: %w", err)
		}

		if err := tx.Model(&models.Book{}).
			Where("id = ?", book.ID).
			UpdateColumn("status", models.BookStatusBorrowed).Error; err != nil {
			return err
		}

		// The points guard in the WHERE clause keeps concurrent debits from
		// pushing the balance negative.
		result := tx.Model(&models.User{}).
			Where("id = ? AND points >= ?", borrowerID, BorrowCost).
			UpdateColumn("points", gorm.Expr("points - ?", BorrowCost))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		entry := models.Transaction{
			Type:        models.TransactionTypeBorrowing,
			Points:      -BorrowCost,
			UserID:      borrowerID,
			BookID:      &book.ID,
			Description: fmt.Sprintf("Empréstimo: %s", book.Title),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create borrowing transaction: %w", err)
		}

		// Reload with associations inside the transaction; a reload after
		// commit could fail and surface an error for a loan that already
		// durably committed.
		return tx.Preload("Book").
			Preload("Borrower").
			Preload("Lender").
			First(&borrowing, "id = ?", borrowing.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &borrowing, nil
}

// Return closes an active borrowing and makes the book available again.
func (r *borrowingRepository) Return(ctx context.Context, borrowingID string) (*models.Borrowing, error) {
	var borrowing models.Borrowing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&borrowing, "id = ?", borrowingID).Error; err != nil {
			return err
		}
		if borrowing.Status != models.BorrowingStatusActive {
			return ErrBorrowingNotActive
		}

		now := time.Now()
		if err := tx.Model(&models.Borrowing{}).
			Where("id = ?", borrowing.ID).
			Updates(map[string]interface{}{
				"status":      models.BorrowingStatusReturned,
				"returned_at": now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Book{}).
			Where("id = ?", borrowing.BookID).
			UpdateColumn("status", models.BookStatusAvailable).Error; err != nil {
			return err
		}

		return tx.Preload("Book").
			Preload("Borrower").
			Preload("Lender").
			First(&borrowing, "id = ?", borrowing.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &borrowing, nil
}

func (r *borrowingRepository) FindByID(ctx context.Context, id string) (*models.Borrowing, error) {
	var borrowing models.Borrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Borrower").
		Preload("Lender").
		First(&borrowing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &borrowing, nil
}

func (r *borrowingRepository) ListActiveByBorrower(ctx context.Context, borrowerID string) ([]models.Borrowing, error) {
	var list []models.Borrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("borrower_id = ? AND status = ?", borrowerID, models.BorrowingStatusActive).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list active borrowings: %w", err)
	}
	return list, nil
}

func (r *borrowingRepository) CountByBorrower(ctx context.Context, borrowerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Borrowing{}).
		Where("borrower_id = ?", borrowerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
