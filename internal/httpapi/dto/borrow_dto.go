package dto

// BorrowRequest: payload for creating a loan. Field presence is validated in
// the handler.
type BorrowRequest struct {
	BookID     string `json:"book_id"`
	BorrowerID string `json:"borrower_id"`
}

// RateUserRequest: payload for rating a counterparty after a loan.
type RateUserRequest struct {
	RaterID string  `json:"rater_id"`
	RatedID string  `json:"rated_id"`
	Score   int     `json:"score"`
	Comment *string `json:"comment,omitempty"`
}
