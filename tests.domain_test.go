package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRoundingHelpers ensures ratings and scores rounding precision.
func TestRoundingHelpers(t *testing.T) {
	assert.Equal(t, 4.3, round1(4.333333))
	assert.Equal(t, 4.7, round1(4.65))
	assert.Equal(t, 0.0, round1(0))
	assert.Equal(t, 12.34, round2(12.336))
	assert.Equal(t, "30.00", formatScore(30))
	assert.Equal(t, "12.34", formatScore(12.34))
	assert.Equal(t, "0.00", formatScore(0))
}

// TestBookWeightedScore ensures the ranking score computation.
func TestBookWeightedScore(t *testing.T) {
	assert.Equal(t, 30.0, Book{Rating: 3.0, ReviewCount: 10}.WeightedScore())
	assert.Equal(t, 9.0, Book{Rating: 4.5, ReviewCount: 2}.WeightedScore())
	assert.Equal(t, 0.0, Book{Rating: 4.9, ReviewCount: 0}.WeightedScore())
}

// TestBookOpenRecordCodec ensures unknown json fields of a book
// survive a full decode and encode round-trip.
func TestBookOpenRecordCodec(t *testing.T) {
	t.Run("should pass: extras preserved through round-trip", func(t *testing.T) {
		payload := `{"id":"b1","title":"First","author":"Alice","rating":4.5,"reviewCount":2,` +
			`"inStock":true,"featured":false,"datePublished":"2020-05-10","publisher":"ACME","pages":321}`
		var book Book
		err := json.Unmarshal([]byte(payload), &book)
		assert.NoError(t, err)
		assert.Equal(t, "b1", book.ID)
		assert.Equal(t, "ACME", book.Extra["publisher"])
		assert.Equal(t, float64(321), book.Extra["pages"])

		data, err := json.Marshal(book)
		assert.NoError(t, err)
		out := make(map[string]any)
		err = json.Unmarshal(data, &out)
		assert.NoError(t, err)
		assert.Equal(t, "ACME", out["publisher"])
		assert.Equal(t, float64(321), out["pages"])
		assert.Equal(t, 4.5, out["rating"])
	})

	t.Run("should pass: typed fields win on key collision", func(t *testing.T) {
		book := Book{ID: "b1", Title: "First", Extra: map[string]any{"title": "Shadow", "note": "keep"}}
		data, err := json.Marshal(book)
		assert.NoError(t, err)
		out := make(map[string]any)
		err = json.Unmarshal(data, &out)
		assert.NoError(t, err)
		assert.Equal(t, "First", out["title"])
		assert.Equal(t, "keep", out["note"])
	})

	t.Run("should pass: no extras means plain typed encoding", func(t *testing.T) {
		data, err := json.Marshal(Book{ID: "b1"})
		assert.NoError(t, err)
		out := make(map[string]any)
		err = json.Unmarshal(data, &out)
		assert.NoError(t, err)
		assert.Len(t, out, len(bookFields))
	})
}

// TestTopRatedBookMarshal ensures the rendered entry carries the book
// fields with the formatted score attached.
func TestTopRatedBookMarshal(t *testing.T) {
	entry := TopRatedBook{
		Book:          Book{ID: "b1", Title: "First", Rating: 3.0, ReviewCount: 10},
		WeightedScore: "30.00",
	}
	data, err := json.Marshal(entry)
	assert.NoError(t, err)
	out := make(map[string]any)
	err = json.Unmarshal(data, &out)
	assert.NoError(t, err)
	assert.Equal(t, "b1", out["id"])
	assert.Equal(t, "First", out["title"])
	assert.Equal(t, "30.00", out["weightedScore"])
}

// TestCreateBookRequestCodec ensures absent fields stay nil and
// unknown fields land into extras.
func TestCreateBookRequestCodec(t *testing.T) {
	payload := `{"id":"b1","title":"First","author":"Alice","inStock":false,"publisher":"ACME"}`
	var req CreateBookRequest
	err := json.Unmarshal([]byte(payload), &req)
	assert.NoError(t, err)
	assert.Nil(t, req.Rating)
	assert.Nil(t, req.ReviewCount)
	assert.Nil(t, req.Featured)
	assert.NotNil(t, req.InStock)
	assert.False(t, *req.InStock)
	assert.Equal(t, "ACME", req.Extra["publisher"])
}

// TestCreateBookRequestValidate ensures required fields enforcement.
func TestCreateBookRequestValidate(t *testing.T) {
	assert.NoError(t, CreateBookRequest{ID: "b1", Title: "First", Author: "Alice"}.Validate())
	assert.Error(t, CreateBookRequest{Title: "First", Author: "Alice"}.Validate())
	assert.Error(t, CreateBookRequest{ID: "b1", Author: "Alice"}.Validate())
	assert.Error(t, CreateBookRequest{ID: "b1", Title: "First"}.Validate())
}

// TestCreateReviewRequestValidate ensures the strict rating policy.
func TestCreateReviewRequestValidate(t *testing.T) {
	valid := CreateReviewRequest{ID: "r1", BookID: "b1", Author: "Dan"}

	t.Run("should pass: boundary ratings", func(t *testing.T) {
		for _, rating := range []float64{1, 2.5, 5} {
			req := valid
			req.Rating = float64Ptr(rating)
			assert.NoError(t, req.Validate())
		}
	})

	t.Run("should fail: absent or out of range ratings", func(t *testing.T) {
		for _, rating := range []*float64{nil, float64Ptr(0), float64Ptr(0.99), float64Ptr(5.01), float64Ptr(-3)} {
			req := valid
			req.Rating = rating
			assert.Error(t, req.Validate())
		}
	})

	t.Run("should fail: missing identifiers", func(t *testing.T) {
		req := CreateReviewRequest{Rating: float64Ptr(4)}
		assert.Error(t, req.Validate())
	})
}

// TestCreateReviewRequestReview ensures defaults application.
func TestCreateReviewRequestReview(t *testing.T) {
	req := CreateReviewRequest{ID: "r1", BookID: "b1", Author: "Dan", Rating: float64Ptr(4)}
	review := req.Review("2023-07-02T00:00:00Z")
	assert.Equal(t, "2023-07-02T00:00:00Z", review.Timestamp)
	assert.False(t, review.Verified)

	req.Timestamp = "2022-01-01T00:00:00Z"
	req.Verified = boolPtr(true)
	review = req.Review("2023-07-02T00:00:00Z")
	assert.Equal(t, "2022-01-01T00:00:00Z", review.Timestamp)
	assert.True(t, review.Verified)
}
