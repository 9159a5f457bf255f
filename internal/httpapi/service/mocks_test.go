package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookshare/internal/httpapi/models"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRatingStats(ctx context.Context, userID string, average float64, total int64) error {
	args := m.Called(ctx, userID, average, total)
	return args.Error(0)
}

// MockBookRepository mocks the BookRepository interface
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) List(ctx context.Context, search, status string) ([]models.Book, error) {
	args := m.Called(ctx, search, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id string) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Book, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookRepository) CreateWithDonation(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

// MockBorrowingRepository mocks the BorrowingRepository interface
type MockBorrowingRepository struct {
	mock.Mock
}

func (m *MockBorrowingRepository) CreateLoan(ctx context.Context, bookID, borrowerID string) (*models.Borrowing, error) {
	args := m.Called(ctx, bookID, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Borrowing), args.Error(1)
}

func (m *MockBorrowingRepository) Return(ctx context.Context, borrowingID string) (*models.Borrowing, error) {
	args := m.Called(ctx, borrowingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Borrowing), args.Error(1)
}

func (m *MockBorrowingRepository) FindByID(ctx context.Context, id string) (*models.Borrowing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Borrowing), args.Error(1)
}

func (m *MockBorrowingRepository) ListActiveByBorrower(ctx context.Context, borrowerID string) ([]models.Borrowing, error) {
	args := m.Called(ctx, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Borrowing), args.Error(1)
}

func (m *MockBorrowingRepository) CountByBorrower(ctx context.Context, borrowerID string) (int64, error) {
	args := m.Called(ctx, borrowerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository mocks the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumPointsByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRatingRepository mocks the RatingRepository interface
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) ListByRated(ctx context.Context, ratedID string) ([]models.Rating, error) {
	args := m.Called(ctx, ratedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) AverageForUser(ctx context.Context, ratedID string) (float64, int64, error) {
	args := m.Called(ctx, ratedID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) CountByRater(ctx context.Context, raterID string) (int64, error) {
	args := m.Called(ctx, raterID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRatingRepository) CountByRated(ctx context.Context, ratedID string) (int64, error) {
	args := m.Called(ctx, ratedID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCatalogCache struct {
	mock.Mock
}

func (m *MockCatalogCache) Get(ctx context.Context, search, status string) ([]byte, int64, bool) {
	args := m.Called(ctx, search, status)
	var payload []byte
	if args.Get(0) != nil {
		payload = args.Get(0).([]byte)
	}
	return payload, args.Get(1).(int64), args.Bool(2)
}

func (m *MockCatalogCache) Set(ctx context.Context, search, status string, generation int64, payload []byte) error {
	args := m.Called(ctx, search, status, generation, payload)
	return args.Error(0)
}

func (m *MockCatalogCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
