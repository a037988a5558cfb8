package main

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BookstoreServiceProvider defines the read and write operations of the
// in-memory catalog engine.
type BookstoreServiceProvider interface {
	ListBooks(ctx context.Context) []Book
	FeaturedBooks(ctx context.Context) []Book
	TopRatedBooks(ctx context.Context) []TopRatedBook
	BooksBetweenDates(ctx context.Context, start, end string) []Book
	GetBook(ctx context.Context, id string) (Book, error)
	ReviewsForBook(ctx context.Context, bookID string) (BookSummary, []Review, error)
	AddBook(ctx context.Context, req CreateBookRequest) (Book, error)
	AddReview(ctx context.Context, req CreateReviewRequest) (Review, error)
}

// TopRatedLimit bounds the top-rated ranking result.
const TopRatedLimit = 10

// BookstoreService owns the two in-memory ordered collections and the
// persistence sink. A single mutex serializes every access so racing
// review writes on one book cannot corrupt its aggregates.
type BookstoreService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	storage CatalogStorage

	mu      sync.Mutex
	books   []Book
	reviews []Review
}

// NewBookstoreService loads both documents and provides the engine.
// A load failure degrades to an empty collection of the right shape:
// the service must stay startable over corrupt or missing data files.
func NewBookstoreService(logger *zap.Logger, config *Config, clock Clocker, storage CatalogStorage) *BookstoreService {
	booksDoc, err := storage.LoadBooks(context.Background())
	if err != nil {
		logger.Warn("service: failed to load books document. starting with empty catalog", zap.Error(err))
		booksDoc = BooksDocument{Books: []Book{}}
	}
	reviewsDoc, err := storage.LoadReviews(context.Background())
	if err != nil {
		logger.Warn("service: failed to load reviews document. starting with empty collection", zap.Error(err))
		reviewsDoc = ReviewsDocument{Reviews: []Review{}}
	}
	logger.Info("service: catalog documents loaded",
		zap.Int("books.count", len(booksDoc.Books)),
		zap.Int("reviews.count", len(reviewsDoc.Reviews)),
	)
	return &BookstoreService{
		logger:  logger,
		config:  config,
		clock:   clock,
		storage: storage,
		books:   booksDoc.Books,
		reviews: reviewsDoc.Reviews,
	}
}

// ListBooks returns every book in collection order.
func (bs *BookstoreService) ListBooks(_ context.Context) []Book {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return append([]Book{}, bs.books...)
}

// FeaturedBooks returns books whose featured flag is exactly true.
func (bs *BookstoreService) FeaturedBooks(_ context.Context) []Book {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	featured := []Book{}
	for _, book := range bs.books {
		if book.Featured {
			featured = append(featured, book)
		}
	}
	return featured
}

// TopRatedBooks ranks books by weighted score descending and keeps the
// first 10. The sort is stable: equal-score books keep collection order.
// The comparator works on the string-formatted scores so duplicate
// rendered values always compare equal.
func (bs *BookstoreService) TopRatedBooks(_ context.Context) []TopRatedBook {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	ranked := make([]TopRatedBook, 0, len(bs.books))
	for _, book := range bs.books {
		ranked = append(ranked, TopRatedBook{
			Book:          book,
			WeightedScore: formatScore(book.WeightedScore()),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		si, _ := strconv.ParseFloat(ranked[i].WeightedScore, 64)
		sj, _ := strconv.ParseFloat(ranked[j].WeightedScore, 64)
		return si > sj
	})
	if len(ranked) > TopRatedLimit {
		ranked = ranked[:TopRatedLimit]
	}
	return ranked
}

// BooksBetweenDates returns books whose datePublished falls lexically
// within [start, end] inclusive. Boundaries are not parsed or
// validated: malformed ones simply yield a lexical-range result.
func (bs *BookstoreService) BooksBetweenDates(_ context.Context, start, end string) []Book {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	matched := []Book{}
	for _, book := range bs.books {
		if book.DatePublished >= start && book.DatePublished <= end {
			matched = append(matched, book)
		}
	}
	return matched
}

// GetBook returns the book with the given id or ErrBookNotFound.
func (bs *BookstoreService) GetBook(_ context.Context, id string) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if i := bs.indexOfBook(id); i >= 0 {
		return bs.books[i], nil
	}
	return Book{}, ErrBookNotFound
}

// ReviewsForBook returns all reviews of a book with its denormalized
// summary. The book must exist even when it has no review: its absence
// is the primary error condition callers depend on.
func (bs *BookstoreService) ReviewsForBook(_ context.Context, bookID string) (BookSummary, []Review, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	i := bs.indexOfBook(bookID)
	if i < 0 {
		return BookSummary{}, nil, ErrBookNotFound
	}
	book := bs.books[i]
	summary := BookSummary{ID: book.ID, Title: book.Title, Author: book.Author}
	reviews := []Review{}
	for _, review := range bs.reviews {
		if review.BookID == bookID {
			reviews = append(reviews, review)
		}
	}
	return summary, reviews, nil
}

// AddBook validates and applies a book creation then persists the books
// document. The staged in-memory append is reverted when the sink
// fails, so memory and disk stay consistent.
func (bs *BookstoreService) AddBook(ctx context.Context, req CreateBookRequest) (Book, error) {
	if err := req.Validate(); err != nil {
		return Book{}, err
	}
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.indexOfBook(req.ID) >= 0 {
		return Book{}, ErrBookAlreadyExists
	}
	book := req.Book()
	bs.books = append(bs.books, book)
	if err := bs.storage.SaveBooks(ctx, BooksDocument{Books: bs.books}); err != nil {
		bs.books = bs.books[:len(bs.books)-1]
		bs.logger.Error("service: failed to persist books document", zap.String("book.id", book.ID), zap.Error(err))
		return Book{}, &persistFailedError{doc: "books", err: err}
	}
	return book, nil
}

// AddReview validates and applies a review creation: append the review,
// bump the referenced book review count and fold the new rating into
// the running mean, then persist both documents. Any sink failure
// reverts the whole staged mutation.
func (bs *BookstoreService) AddReview(ctx context.Context, req CreateReviewRequest) (Review, error) {
	if err := req.Validate(); err != nil {
		return Review{}, err
	}
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.indexOfReview(req.ID) >= 0 {
		return Review{}, ErrReviewAlreadyExists
	}
	i := bs.indexOfBook(req.BookID)
	if i < 0 {
		return Review{}, ErrBookNotFound
	}

	review := req.Review(bs.clock.Now().UTC().Format(time.RFC3339))
	previous := bs.books[i]

	updated := previous
	updated.ReviewCount = previous.ReviewCount + 1
	updated.Rating = round1((previous.Rating*float64(previous.ReviewCount) + review.Rating) / float64(updated.ReviewCount))

	bs.reviews = append(bs.reviews, review)
	bs.books[i] = updated

	revert := func() {
		bs.reviews = bs.reviews[:len(bs.reviews)-1]
		bs.books[i] = previous
	}
	if err := bs.storage.SaveReviews(ctx, ReviewsDocument{Reviews: bs.reviews}); err != nil {
		revert()
		bs.logger.Error("service: failed to persist reviews document", zap.String("review.id", review.ID), zap.Error(err))
		return Review{}, &persistFailedError{doc: "reviews", err: err}
	}
	if err := bs.storage.SaveBooks(ctx, BooksDocument{Books: bs.books}); err != nil {
		revert()
		bs.logger.Error("service: failed to persist books document", zap.String("review.id", review.ID), zap.Error(err))
		return Review{}, &persistFailedError{doc: "books", err: err}
	}
	return review, nil
}

// indexOfBook returns the collection index of a book id or -1.
// Callers must hold the mutex.
func (bs *BookstoreService) indexOfBook(id string) int {
	for i, book := range bs.books {
		if book.ID == id {
			return i
		}
	}
	return -1
}

// indexOfReview returns the collection index of a review id or -1.
// Callers must hold the mutex.
func (bs *BookstoreService) indexOfReview(id string) int {
	for i, review := range bs.reviews {
		if review.ID == id {
			return i
		}
	}
	return -1
}
