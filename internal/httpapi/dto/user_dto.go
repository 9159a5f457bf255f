package dto

import (
	"time"

	"bookshare/internal/httpapi/models"
)

// CreateUserRequest: payload for account creation.
type CreateUserRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Avatar   *string `json:"avatar,omitempty"`
}

// TransactionBookRef carries only the title/author annotation for ledger
// entries in the profile view.
type TransactionBookRef struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

type TransactionResponse struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	Points      int                 `json:"points"`
	BookID      *string             `json:"book_id,omitempty"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"created_at"`
	Book        *TransactionBookRef `json:"book,omitempty"`
}

func FromModelToTransactionResponse(t models.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID,
		Type:        t.Type,
		Points:      t.Points,
		BookID:      t.BookID,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
	if t.Book != nil {
		resp.Book = &TransactionBookRef{Title: t.Book.Title, Author: t.Book.Author}
	}
	return resp
}

// AggregateCounts mirrors the profile page counters.
type AggregateCounts struct {
	Books           int64 `json:"books"`
	Borrowings      int64 `json:"borrowings"`
	RatingsGiven    int64 `json:"ratings_given"`
	RatingsReceived int64 `json:"ratings_received"`
}

// UserAggregateResponse is the full profile view: the user plus their books,
// active borrowings, recent ledger entries and counters. LedgerPoints is the
// balance derived from the transaction log so drift against Points is
// visible to callers.
type UserAggregateResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Avatar        *string   `json:"avatar,omitempty"`
	Points        int       `json:"points"`
	LedgerPoints  int64     `json:"ledger_points"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int       `json:"total_ratings"`
	CreatedAt     time.Time `json:"created_at"`

	Books        []BookResponse        `json:"books"`
	Borrowings   []models.Borrowing    `json:"borrowings"`
	Transactions []TransactionResponse `json:"transactions"`
	Counts       AggregateCounts       `json:"counts"`
}
