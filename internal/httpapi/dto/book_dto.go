package dto

import (
	"time"

	"bookshare/internal/httpapi/models"
)

// CreateBookRequest: payload for donating a book. Required fields are
// validated in the handler so the rejection message stays uniform.
type CreateBookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description *string `json:"description,omitempty"`
	CoverImage  *string `json:"cover_image,omitempty"`
	OwnerID     string  `json:"owner_id"`
}

// OwnerSummary is the denormalized owner view attached to catalog entries.
type OwnerSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Avatar        *string `json:"avatar,omitempty"`
	AverageRating float64 `json:"average_rating"`
}

type BookResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	Description *string       `json:"description,omitempty"`
	CoverImage  *string       `json:"cover_image,omitempty"`
	Status      string        `json:"status"`
	OwnerID     string        `json:"owner_id"`
	CreatedAt   time.Time     `json:"created_at"`
	Owner       *OwnerSummary `json:"owner,omitempty"`
}

func FromModelToBookResponse(b models.Book) BookResponse {
	resp := BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		CoverImage:  b.CoverImage,
		Status:      b.Status,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt,
	}
	if b.Owner != nil {
		resp.Owner = &OwnerSummary{
			ID:            b.Owner.ID,
			Name:          b.Owner.Name,
			Avatar:        b.Owner.Avatar,
			AverageRating: b.Owner.AverageRating,
		}
	}
	return resp
}
