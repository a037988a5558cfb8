package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// newTestAPIHandler builds a handler over a service backed by the
// given storage mock.
func newTestAPIHandler(storage CatalogStorage) *APIHandler {
	bs := NewBookstoreService(zap.NewNop(), nil, NewMockClocker(), storage)
	return NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("mocked-uid", true), bs)
}

// decodeBody decodes a json response body into a generic map.
func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	m := make(map[string]interface{})
	err = json.Unmarshal(data, &m)
	assert.NoError(t, err)
	return m
}

// TestStatusHandler ensures api handler can provides its status.
func TestStatusHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	api := newTestAPIHandler(NewMockCatalogStorage(nil, nil))
	api.Status(w, req)
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	m := decodeBody(t, res)

	_, ok := m["requestid"]
	assert.True(t, ok)

	v, ok := m["message"]
	assert.True(t, ok)
	assert.Equal(t, "Hello. Bookstore api is available. Enjoy :)", v)
}

// TestGetAllBooksHandler ensures the full catalog listing response shape.
func TestGetAllBooksHandler(t *testing.T) {
	books, reviews := catalogFixture()
	api := newTestAPIHandler(NewMockCatalogStorage(books, reviews))
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	w := httptest.NewRecorder()
	api.GetAllBooks(w, req)
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	m := decodeBody(t, res)

	assert.Equal(t, true, m["success"])
	assert.Equal(t, float64(3), m["count"])
	data, ok := m["data"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, data, 3)
}

// TestGetFeaturedBooksHandler ensures the featured filter response shape.
func TestGetFeaturedBooksHandler(t *testing.T) {
	books, reviews := catalogFixture()
	api := newTestAPIHandler(NewMockCatalogStorage(books, reviews))
	req := httptest.NewRequest(http.MethodGet, "/api/books/featured", nil)
	w := httptest.NewRecorder()
	api.GetFeaturedBooks(w, req)
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	m := decodeBody(t, res)

	assert.Equal(t, float64(2), m["count"])
	data, ok := m["data"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, data, 2)
}

// TestGetTopRatedBooksHandler ensures the ranking endpoint decorates
// each entry with its formatted weighted score.
func TestGetTopRatedBooksHandler(t *testing.T) {
	books, reviews := catalogFixture()
	api := newTestAPIHandler(NewMockCatalogStorage(books, reviews))
	req := httptest.NewRequest(http.MethodGet, "/api/books/top-rated", nil)
	w := httptest.NewRecorder()
	api.GetTopRatedBooks(w, req)
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	m := decodeBody(t, res)

	data, ok := m["data"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, data, 3)
	first, ok := data[0].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "b1", first["id"]) // 4.0 x 2 = 8.00 beats 5.0 x 1 = 5.00
	assert.Equal(t, "8.00", first["weightedScore"])
}

// TestGetBooksByDateRangeHandler ensures the date filter echoes its
// boundaries back in the response.
func TestGetBooksByDateRangeHandler(t *testing.T) {
	books, reviews := catalogFixture()
	api := newTestAPIHandler(NewMockCatalogStorage(books, reviews))
	req := httptest.NewRequest(http.MethodGet, "/api/books/dates/2020-01-01/2021-12-31", nil)
	req = mux.SetURLVars(req, map[string]string{"start": "2020-01-01", "end": "2021-12-31"})
	w := httptest.NewRecorder()
	api.GetBooksByDateRange(w, req)
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	m := decodeBody(t, res)

	assert.Equal(t, float64(2), m["count"])
	dateRange, ok := m["dateRange"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "2020-01-01", dateRange["start"])
	assert.Equal(t, "2021-12-31", dateRange["end"])
}

// TestGetOneBookHandler ensures single book retrieval and its 404 path.
func TestGetOneBookHandler(t *testing.T) {
	books, reviews := catalogFixture()
	api := newTestAPIHandler(NewMockCatalogStorage(books, reviews))

	t.Run("should pass: existing book", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books/b2", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "b2"})
		w := httptest.NewRecorder()
		api.GetOneBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		m := decodeBody(t, res)
		book, ok := m["data"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "Second", book["title"])
	})

	t.Run("should fail: unknown book", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books/missing", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "missing"})
		w := httptest.NewRecorder()
		api.GetOneBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		m := decodeBody(t, res)
		assert.Equal(t, false, m["success"])
		assert.Equal(t, "book does not exist", m["message"])
	})
}

// TestCreateBookHandler ensures api handler can create a book.
//
//nolint:funlen
func TestCreateBookHandler(t *testing.T) {
	t.Run("should pass: valid payload with defaults", func(t *testing.T) {
		api := newTestAPIHandler(NewMockCatalogStorage(nil, nil))
		payload := []byte(`{"id":"b9","title":"Test book title","author":"Ana","publisher":"ACME"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
		m := decodeBody(t, res)

		assert.Equal(t, "Book created successfully.", m["message"])
		book, ok := m["data"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "Test book title", book["title"])
		assert.Equal(t, true, book["inStock"])
		assert.Equal(t, false, book["featured"])
		assert.Equal(t, float64(0), book["rating"])
		assert.Equal(t, float64(0), book["reviewCount"])
		assert.Equal(t, "ACME", book["publisher"])
	})

	t.Run("should fail: malformed body", func(t *testing.T) {
		api := newTestAPIHandler(NewMockCatalogStorage(nil, nil))
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		api.CreateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should fail: duplicate book id", func(t *testing.T) {
		books, _ := catalogFixture()
		api := newTestAPIHandler(NewMockCatalogStorage(books, nil))
		payload := []byte(`{"id":"b1","title":"Dup","author":"Ana"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		m := decodeBody(t, res)
		assert.Equal(t, "book with this id already exists", m["message"])
	})

	t.Run("should fail: storage insertion failure", func(t *testing.T) {
		storage := NewMockCatalogStorage(nil, nil)
		storage.SaveBooksFunc = func(ctx context.Context, doc BooksDocument) error {
			return errors.New("storage failure")
		}
		api := newTestAPIHandler(storage)
		payload := []byte(`{"id":"b9","title":"Test","author":"Ana"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		m := decodeBody(t, res)
		assert.Equal(t, "failed to persist the book", m["message"])
	})
}
