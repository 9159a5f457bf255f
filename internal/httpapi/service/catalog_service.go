package service

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"bookshare/internal/httpapi/models"
	"bookshare/internal/httpapi/repository"
)

// CatalogCache is the listing cache the services consult. The generation
// returned by Get must travel back into the paired Set so a concurrent
// invalidation orphans the write instead of landing it under the fresh
// generation.
type CatalogCache interface {
	Get(ctx context.Context, search, status string) ([]byte, int64, bool)
	Set(ctx context.Context, search, status string, generation int64, payload []byte) error
	Invalidate(ctx context.Context) error
}

type CatalogService interface {
	List(ctx context.Context, search, status string) ([]models.Book, error)
	Donate(ctx context.Context, book *models.Book) (*models.Book, error)
}

type catalogService struct {
	bookRepo     repository.BookRepository
	userRepo     repository.UserRepository
	catalogCache CatalogCache
}

func NewCatalogService(
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	catalogCache CatalogCache,
) CatalogService {
	return &catalogService{
		bookRepo:     bookRepo,
		userRepo:     userRepo,
		catalogCache: catalogCache,
	}
}

// List returns the catalog newest-first, optionally filtered by a
// case-insensitive title/author search and a status. Listings are served
// from the cache when warm.
func (s *catalogService) List(ctx context.Context, search, status string) ([]models.Book, error) {
	var generation int64
	if s.catalogCache != nil {
		payload, gen, ok := s.catalogCache.Get(ctx, search, status)
		generation = gen
		if ok {
			var cached []models.Book
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
			// Corrupt entry: fall through to the store.
		}
	}

	list, err := s.bookRepo.List(ctx, search, status)
	if err != nil {
		return nil, err
	}

	if s.catalogCache != nil {
		if payload, err := json.Marshal(list); err == nil {
			s.catalogCache.Set(ctx, search, status, generation, payload)
		}
	}

	return list, nil
}

// Donate lists a book for the community. The book row, the +10 point credit
// and the DONATION ledger entry commit atomically in the repository.
func (s *catalogService) Donate(ctx context.Context, book *models.Book) (*models.Book, error) {
	if _, err := s.userRepo.FindByID(ctx, book.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.bookRepo.CreateWithDonation(ctx, book); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if s.catalogCache != nil {
		s.catalogCache.Invalidate(ctx)
	}

	// Reload so the response carries the owner summary.
	created, err := s.bookRepo.FindByID(ctx, book.ID)
	if err != nil {
		return book, nil
	}
	return created, nil
}
