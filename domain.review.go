package main

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Review represents rating-bearing feedback tied to exactly one book.
type Review struct {
	ID        string  `json:"id"`
	BookID    string  `json:"bookId"`
	Author    string  `json:"author"`
	Rating    float64 `json:"rating"`
	Timestamp string  `json:"timestamp"`
	Verified  bool    `json:"verified"`
}

// BookSummary is the denormalized book header returned alongside its reviews.
type BookSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// CreateReviewRequest carries a review creation payload. Rating is a
// pointer so a missing rating is told apart from an explicit zero and
// rejected. Timestamp is optional and system-set when absent.
type CreateReviewRequest struct {
	ID        string   `json:"id"`
	BookID    string   `json:"bookId"`
	Author    string   `json:"author"`
	Rating    *float64 `json:"rating"`
	Timestamp string   `json:"timestamp"`
	Verified  *bool    `json:"verified"`
}

// Validate enforces the strict rating policy: the rating must be
// present and a number within [1,5].
func (req CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ID, validation.Required),
		validation.Field(&req.BookID, validation.Required),
		validation.Field(&req.Author, validation.Required),
		validation.Field(&req.Rating, validation.NotNil, validation.Min(1.0), validation.Max(5.0)),
	)
}

// Review materializes the request into a review entity. The caller
// must provide the creation timestamp when the payload has none.
func (req CreateReviewRequest) Review(timestamp string) Review {
	review := Review{
		ID:        req.ID,
		BookID:    req.BookID,
		Author:    req.Author,
		Rating:    *req.Rating,
		Timestamp: req.Timestamp,
	}
	if len(review.Timestamp) == 0 {
		review.Timestamp = timestamp
	}
	if req.Verified != nil {
		review.Verified = *req.Verified
	}
	return review
}
