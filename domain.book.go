package main

import (
	"encoding/json"
	"math"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Book represents a catalog entity. It is an open record: callers may
// attach fields beyond the ones below and they are preserved verbatim
// through storage round-trips (kept in Extra).
type Book struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Author        string         `json:"author"`
	Rating        float64        `json:"rating"`
	ReviewCount   int            `json:"reviewCount"`
	InStock       bool           `json:"inStock"`
	Featured      bool           `json:"featured"`
	DatePublished string         `json:"datePublished"`
	Extra         map[string]any `json:"-"`
}

// bookFields lists the JSON keys owned by the typed part of Book.
var bookFields = []string{"id", "title", "author", "rating", "reviewCount", "inStock", "featured", "datePublished"}

// MarshalJSON merges the typed fields with the preserved extra fields.
// Typed fields always win on key collision.
func (b Book) MarshalJSON() ([]byte, error) {
	type bookAlias Book
	data, err := json.Marshal(bookAlias(b))
	if err != nil {
		return nil, err
	}
	if len(b.Extra) == 0 {
		return data, nil
	}
	merged := make(map[string]any, len(b.Extra)+len(bookFields))
	if err = json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range b.Extra {
		if _, owned := merged[k]; !owned {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes the typed fields and tucks any unknown key into Extra.
func (b *Book) UnmarshalJSON(data []byte) error {
	type bookAlias Book
	var a bookAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range bookFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}
	*b = Book(a)
	return nil
}

// WeightedScore computes rating x reviewCount at 2-place precision.
// It drives the top-rated ranking only and is never persisted.
func (b Book) WeightedScore() float64 {
	return round2(b.Rating * float64(b.ReviewCount))
}

// TopRatedBook decorates a book with its formatted weighted score.
type TopRatedBook struct {
	Book          Book
	WeightedScore string
}

// MarshalJSON renders the book fields with the weightedScore attached.
func (t TopRatedBook) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(t.Book)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]any)
	if err = json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	merged["weightedScore"] = t.WeightedScore
	return json.Marshal(merged)
}

// CreateBookRequest carries a book creation payload. Pointer fields
// distinguish "absent" from zero so defaults only apply when the
// caller did not supply the field. Unknown keys land in Extra.
type CreateBookRequest struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Author        string         `json:"author"`
	Rating        *float64       `json:"rating"`
	ReviewCount   *int           `json:"reviewCount"`
	InStock       *bool          `json:"inStock"`
	Featured      *bool          `json:"featured"`
	DatePublished string         `json:"datePublished"`
	Extra         map[string]any `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the unknown ones.
func (req *CreateBookRequest) UnmarshalJSON(data []byte) error {
	type requestAlias CreateBookRequest
	var a requestAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range bookFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}
	*req = CreateBookRequest(a)
	return nil
}

// Validate checks the creation payload required fields.
func (req CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ID, validation.Required),
		validation.Field(&req.Title, validation.Required),
		validation.Field(&req.Author, validation.Required),
	)
}

// Book materializes the request into a catalog entity with
// defaults applied for the fields the caller left out.
func (req CreateBookRequest) Book() Book {
	book := Book{
		ID:            req.ID,
		Title:         req.Title,
		Author:        req.Author,
		InStock:       true,
		DatePublished: req.DatePublished,
		Extra:         req.Extra,
	}
	if req.Rating != nil {
		book.Rating = *req.Rating
	}
	if req.ReviewCount != nil {
		book.ReviewCount = *req.ReviewCount
	}
	if req.InStock != nil {
		book.InStock = *req.InStock
	}
	if req.Featured != nil {
		book.Featured = *req.Featured
	}
	return book
}

// round1 rounds to one decimal place. Book ratings carry one decimal.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// round2 rounds to two decimal places. Weighted scores carry two.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// formatScore renders a weighted score the way it travels on the wire.
func formatScore(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
