package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"bookshare/internal/httpapi/models"
)

func newCatalogServiceFixture() (*MockBookRepository, *MockUserRepository, CatalogService) {
	bookRepo := new(MockBookRepository)
	userRepo := new(MockUserRepository)
	svc := NewCatalogService(bookRepo, userRepo, nil)
	return bookRepo, userRepo, svc
}

func TestCatalogList_PassesFilters(t *testing.T) {
	bookRepo, _, svc := newCatalogServiceFixture()

	books := []models.Book{{ID: "book-1", Title: "1984", Author: "George Orwell", Status: models.BookStatusAvailable}}
	bookRepo.On("List", mock.Anything, "orwell", models.BookStatusAvailable).Return(books, nil)

	list, err := svc.List(context.Background(), "orwell", models.BookStatusAvailable)

	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "1984", list[0].Title)
	bookRepo.AssertExpectations(t)
}

func TestCatalogList_CacheHitSkipsStore(t *testing.T) {
	bookRepo := new(MockBookRepository)
	userRepo := new(MockUserRepository)
	catalogCache := new(MockCatalogCache)
	svc := NewCatalogService(bookRepo, userRepo, catalogCache)

	books := []models.Book{{ID: "book-1", Title: "1984", Author: "George Orwell", Status: models.BookStatusAvailable}}
	payload, err := json.Marshal(books)
	assert.NoError(t, err)
	catalogCache.On("Get", mock.Anything, "", "").Return(payload, int64(3), true)

	list, err := svc.List(context.Background(), "", "")

	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "1984", list[0].Title)
	bookRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogList_FillsCacheUnderReadGeneration(t *testing.T) {
	bookRepo := new(MockBookRepository)
	userRepo := new(MockUserRepository)
	catalogCache := new(MockCatalogCache)
	svc := NewCatalogService(bookRepo, userRepo, catalogCache)

	books := []models.Book{{ID: "book-1", Title: "1984", Author: "George Orwell", Status: models.BookStatusAvailable}}
	catalogCache.On("Get", mock.Anything, "", models.BookStatusAvailable).Return(nil, int64(7), false)
	bookRepo.On("List", mock.Anything, "", models.BookStatusAvailable).Return(books, nil)

	// The fill must land under the generation read before the store query;
	// a donation bumping the counter in between must not see this write.
	catalogCache.On("Set", mock.Anything, "", models.BookStatusAvailable, int64(7), mock.AnythingOfType("[]uint8")).Return(nil)

	list, err := svc.List(context.Background(), "", models.BookStatusAvailable)

	assert.NoError(t, err)
	assert.Len(t, list, 1)
	catalogCache.AssertExpectations(t)
	bookRepo.AssertExpectations(t)
}

func TestDonate_InvalidatesCache(t *testing.T) {
	bookRepo := new(MockBookRepository)
	userRepo := new(MockUserRepository)
	catalogCache := new(MockCatalogCache)
	svc := NewCatalogService(bookRepo, userRepo, catalogCache)

	owner := &models.User{ID: "owner-1"}
	userRepo.On("FindByID", mock.Anything, "owner-1").Return(owner, nil)
	bookRepo.On("CreateWithDonation", mock.Anything, mock.AnythingOfType("*models.Book")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Book).ID = "book-1"
		}).
		Return(nil)
	bookRepo.On("FindByID", mock.Anything, "book-1").Return(&models.Book{ID: "book-1", Owner: owner}, nil)
	catalogCache.On("Invalidate", mock.Anything).Return(nil)

	_, err := svc.Donate(context.Background(), &models.Book{Title: "1984", Author: "George Orwell", OwnerID: "owner-1"})

	assert.NoError(t, err)
	catalogCache.AssertExpectations(t)
}

func TestDonate_Success(t *testing.T) {
	bookRepo, userRepo, svc := newCatalogServiceFixture()

	owner := &models.User{ID: "owner-1", Points: 0}
	userRepo.On("FindByID", mock.Anything, "owner-1").Return(owner, nil)
	bookRepo.On("CreateWithDonation", mock.Anything, mock.AnythingOfType("*models.Book")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Book).ID = "book-1"
		}).
		Return(nil)
	bookRepo.On("FindByID", mock.Anything, "book-1").Return(&models.Book{
		ID:      "book-1",
		Title:   "1984",
		Author:  "George Orwell",
		Status:  models.BookStatusAvailable,
		OwnerID: "owner-1",
		Owner:   owner,
	}, nil)

	book, err := svc.Donate(context.Background(), &models.Book{
		Title:   "1984",
		Author:  "George Orwell",
		OwnerID: "owner-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.BookStatusAvailable, book.Status)
	assert.NotNil(t, book.Owner)
	bookRepo.AssertExpectations(t)
}

func TestDonate_OwnerNotFound(t *testing.T) {
	bookRepo, userRepo, svc := newCatalogServiceFixture()

	userRepo.On("FindByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Donate(context.Background(), &models.Book{
		Title:   "1984",
		Author:  "George Orwell",
		OwnerID: "ghost",
	})

	assert.ErrorIs(t, err, ErrUserNotFound)
	bookRepo.AssertNotCalled(t, "CreateWithDonation", mock.Anything, mock.Anything)
}
