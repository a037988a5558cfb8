package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockCatalogStorage struct {
	LoadBooksFunc   func(ctx context.Context) (BooksDocument, error)
	LoadReviewsFunc func(ctx context.Context) (ReviewsDocument, error)
	SaveBooksFunc   func(ctx context.Context, doc BooksDocument) error
	SaveReviewsFunc func(ctx context.Context, doc ReviewsDocument) error
	CloseFunc       func() error
}

// LoadBooks mocks the behavior of loading the books document.
func (m *MockCatalogStorage) LoadBooks(ctx context.Context) (BooksDocument, error) {
	return m.LoadBooksFunc(ctx)
}

// LoadReviews mocks the behavior of loading the reviews document.
func (m *MockCatalogStorage) LoadReviews(ctx context.Context) (ReviewsDocument, error) {
	return m.LoadReviewsFunc(ctx)
}

// SaveBooks mocks the behavior of persisting the books document.
func (m *MockCatalogStorage) SaveBooks(ctx context.Context, doc BooksDocument) error {
	return m.SaveBooksFunc(ctx, doc)
}

// SaveReviews mocks the behavior of persisting the reviews document.
func (m *MockCatalogStorage) SaveReviews(ctx context.Context, doc ReviewsDocument) error {
	return m.SaveReviewsFunc(ctx, doc)
}

// Close mocks the closing of the underlying storage handle.
func (m *MockCatalogStorage) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// NewMockCatalogStorage returns a mocked storage preloaded with the
// given collections and accepting every save call.
func NewMockCatalogStorage(books []Book, reviews []Review) *MockCatalogStorage {
	return &MockCatalogStorage{
		LoadBooksFunc: func(ctx context.Context) (BooksDocument, error) {
			return BooksDocument{Books: books}, nil
		},
		LoadReviewsFunc: func(ctx context.Context) (ReviewsDocument, error) {
			return ReviewsDocument{Reviews: reviews}, nil
		},
		SaveBooksFunc: func(ctx context.Context, doc BooksDocument) error {
			return nil
		},
		SaveReviewsFunc: func(ctx context.Context, doc ReviewsDocument) error {
			return nil
		},
	}
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
