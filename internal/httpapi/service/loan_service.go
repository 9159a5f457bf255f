package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bookshare/internal/httpapi/models"
	"bookshare/internal/httpapi/repository"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrBookNotAvailable   = errors.New("book not available")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrOwnBook            = errors.New("cannot borrow own book")
	ErrBorrowingNotFound  = errors.New("borrowing not found")
	ErrBorrowingNotActive = errors.New("borrowing not active")
)

type LoanService interface {
	Borrow(ctx context.Context, bookID, borrowerID string) (*models.Borrowing, error)
	Return(ctx context.Context, borrowingID string) (*models.Borrowing, error)
}

type loanService struct {
	bookRepo      repository.BookRepository
	userRepo      repository.UserRepository
	borrowingRepo repository.BorrowingRepository
	catalogCache  CatalogCache
}

func NewLoanService(
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	borrowingRepo repository.BorrowingRepository,
	catalogCache CatalogCache,
) LoanService {
	return &loanService{
		bookRepo:      bookRepo,
		userRepo:      userRepo,
		borrowingRepo: borrowingRepo,
		catalogCache:  catalogCache,
	}
}

// Borrow attempts to create a loan for the given book and borrower. The
// preconditions are checked in order, then the whole mutation (borrowing row,
// book status, point debit, ledger entry) commits atomically in the
// repository. A concurrent borrow of the same book loses the row lock race
// and surfaces as ErrBookNotAvailable.
func (s *loanService) Borrow(ctx context.Context, bookID, borrowerID string) (*models.Borrowing, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if book.Status != models.BookStatusAvailable {
		return nil, ErrBookNotAvailable
	}

	borrower, err := s.userRepo.FindByID(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if borrower.Points < repository.BorrowCost {
		return nil, ErrInsufficientPoints
	}

	if book.OwnerID == borrowerID {
		return nil, ErrOwnBook
	}

	borrowing, err := s.borrowingRepo.CreateLoan(ctx, bookID, borrowerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookNotAvailable):
			return nil, ErrBookNotAvailable
		case errors.Is(err, repository.ErrInsufficientPoints):
			return nil, ErrInsufficientPoints
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	// The borrowed book no longer shows as AVAILABLE.
	if s.catalogCache != nil {
		s.catalogCache.Invalidate(ctx)
	}

	return borrowing, nil
}

// Return closes an active borrowing: Borrowing ACTIVE -> RETURNED and Book
// BORROWED -> AVAILABLE, atomically. No points move on return.
func (s *loanService) Return(ctx context.Context, borrowingID string) (*models.Borrowing, error) {
	borrowing, err := s.borrowingRepo.Return(ctx, borrowingID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrBorrowingNotFound
		case errors.Is(err, repository.ErrBorrowingNotActive):
			return nil, ErrBorrowingNotActive
		}
		return nil, err
	}

	if s.catalogCache != nil {
		s.catalogCache.Invalidate(ctx)
	}

	return borrowing, nil
}
