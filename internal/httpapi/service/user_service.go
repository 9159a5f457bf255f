package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"bookshare/internal/auth"
	"bookshare/internal/httpapi/dto"
	"bookshare/internal/httpapi/models"
	"bookshare/internal/httpapi/repository"
)

var ErrEmailInUse = errors.New("email already registered")

// recentTransactionLimit caps the ledger entries returned in the profile view.
const recentTransactionLimit = 50

type UserService interface {
	Register(ctx context.Context, name, email, password string, avatar *string) (*models.User, error)
	Aggregate(ctx context.Context, id string) (*dto.UserAggregateResponse, error)
}

type userService struct {
	userRepo        repository.UserRepository
	bookRepo        repository.BookRepository
	borrowingRepo   repository.BorrowingRepository
	transactionRepo repository.TransactionRepository
	ratingRepo      repository.RatingRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	bookRepo repository.BookRepository,
	borrowingRepo repository.BorrowingRepository,
	transactionRepo repository.TransactionRepository,
	ratingRepo repository.RatingRepository,
) UserService {
	return &userService{
		userRepo:        userRepo,
		bookRepo:        bookRepo,
		borrowingRepo:   borrowingRepo,
		transactionRepo: transactionRepo,
		ratingRepo:      ratingRepo,
	}
}

// Register creates an account with a zero balance. The password is stored
// only as a bcrypt hash.
func (s *userService) Register(ctx context.Context, name, email, password string, avatar *string) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Avatar:   avatar,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Concurrent registration with the same email loses on the unique
		// index rather than the lookup above.
		if isUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	return user, nil
}

// Aggregate assembles the profile view: the user plus owned books, active
// borrowings, recent ledger entries and counters, with the event-sourced
// balance alongside the stored one.
func (s *userService) Aggregate(ctx context.Context, id string) (*dto.UserAggregateResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	books, err := s.bookRepo.ListByOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	borrowings, err := s.borrowingRepo.ListActiveByBorrower(ctx, id)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.ListRecentByUser(ctx, id, recentTransactionLimit)
	if err != nil {
		return nil, err
	}

	ledgerPoints, err := s.transactionRepo.SumPointsByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	bookCount, err := s.bookRepo.CountByOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	borrowingCount, err := s.borrowingRepo.CountByBorrower(ctx, id)
	if err != nil {
		return nil, err
	}
	ratingsGiven, err := s.ratingRepo.CountByRater(ctx, id)
	if err != nil {
		return nil, err
	}
	ratingsReceived, err := s.ratingRepo.CountByRated(ctx, id)
	if err != nil {
		return nil, err
	}

	bookResponses := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		bookResponses = append(bookResponses, dto.FromModelToBookResponse(b))
	}

	transactionResponses := make([]dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		transactionResponses = append(transactionResponses, dto.FromModelToTransactionResponse(t))
	}

	return &dto.UserAggregateResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Avatar:        user.Avatar,
		Points:        user.Points,
		LedgerPoints:  ledgerPoints,
		AverageRating: user.AverageRating,
		TotalRatings:  user.TotalRatings,
		CreatedAt:     user.CreatedAt,
		Books:         bookResponses,
		Borrowings:    borrowings,
		Transactions:  transactionResponses,
		Counts: dto.AggregateCounts{
			Books:           bookCount,
			Borrowings:      borrowingCount,
			RatingsGiven:    ratingsGiven,
			RatingsReceived: ratingsReceived,
		},
	}, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505) or GORM's translated equivalent.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
