package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// newTestRouter builds the full routes table over a service backed by
// the given storage mock, with the real middlewares stacks wired in.
func newTestRouter(config *Config, storage CatalogStorage) *mux.Router {
	bs := NewBookstoreService(zap.NewNop(), config, NewMockClocker(), storage)
	api := NewAPIHandler(zap.NewNop(), config, &Statistics{started: NewMockClocker().Now()}, NewMockClocker(), NewMockUIDHandler("mocked-uid", true), bs)
	pub, auth, ops := api.MiddlewaresStacks()
	return api.SetupRoutes(mux.NewRouter(), &MiddlewareMap{public: pub.Chain, auth: auth.Chain, ops: ops.Chain})
}

// TestSetupCatalogRoutes ensures all expected catalog endpoints are implemented.
func TestSetupCatalogRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		request     *http.Request
		implemented bool
	}{
		{
			"index endpoint",
			httptest.NewRequest(http.MethodGet, "/", nil),
			true,
		},
		{
			"status endpoint",
			httptest.NewRequest(http.MethodGet, "/status", nil),
			true,
		},
		{
			"create book endpoint",
			httptest.NewRequest(http.MethodPost, "/api/books", nil),
			true,
		},
		{
			"fetch all books endpoint",
			httptest.NewRequest(http.MethodGet, "/api/books", nil),
			true,
		},
		{
			"fetch featured books endpoint",
			httptest.NewRequest(http.MethodGet, "/api/books/featured", nil),
			true,
		},
		{
			"fetch top rated books endpoint",
			httptest.NewRequest(http.MethodGet, "/api/books/top-rated", nil),
			true,
		},
		{
			"fetch books by date range endpoint",
			httptest.NewRequest(http.MethodGet, "/api/books/dates/2020-01-01/2021-12-31", nil),
			true,
		},
		{
			"fetch single book endpoint",
			httptest.NewRequest(http.MethodGet, "/api/books/b1", nil),
			true,
		},
		{
			"create review endpoint",
			httptest.NewRequest(http.MethodPost, "/api/reviews", nil),
			true,
		},
		{
			"fetch book reviews endpoint",
			httptest.NewRequest(http.MethodGet, "/api/reviews/book/b1", nil),
			true,
		},
		{
			"invalid api endpoint",
			httptest.NewRequest(http.MethodGet, "/api", nil),
			false,
		},
		{
			"invalid books endpoint",
			httptest.NewRequest(http.MethodGet, "/books", nil),
			false,
		},
		{
			"invalid reviews listing endpoint",
			httptest.NewRequest(http.MethodGet, "/api/reviews", nil),
			false,
		},
	}

	books, reviews := catalogFixture()
	config := &Config{Auth: AuthConfig{Token: "secret-token"}}
	router := newTestRouter(config, NewMockCatalogStorage(books, reviews))

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestStaticSegmentsPrecedence ensures the static book routes are not
// swallowed by the single book wildcard route.
func TestStaticSegmentsPrecedence(t *testing.T) {
	books, reviews := catalogFixture()
	config := &Config{Auth: AuthConfig{Token: "secret-token"}}
	router := newTestRouter(config, NewMockCatalogStorage(books, reviews))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/featured", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)

	// a wildcard id named like the static segment would have yielded 404.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/top-rated", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "weightedScore")
}

// TestWriteEndpointsAuthentication ensures both write endpoints reject
// unauthenticated calls without touching the catalog.
func TestWriteEndpointsAuthentication(t *testing.T) {
	books, reviews := catalogFixture()
	config := &Config{Auth: AuthConfig{Token: "secret-token"}}
	saves := 0
	storage := NewMockCatalogStorage(books, reviews)
	storage.SaveBooksFunc = func(ctx context.Context, doc BooksDocument) error {
		saves++
		return nil
	}
	storage.SaveReviewsFunc = func(ctx context.Context, doc ReviewsDocument) error {
		saves++
		return nil
	}
	router := newTestRouter(config, storage)

	t.Run("should fail: create book without token", func(t *testing.T) {
		payload := []byte(`{"id":"b9","title":"New","author":"Ana"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Zero(t, saves)
	})

	t.Run("should fail: create review with wrong token", func(t *testing.T) {
		payload := []byte(`{"id":"r9","bookId":"b1","author":"Gus","rating":5}`)
		req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewBuffer(payload))
		req.Header.Set("Authorization", "Bearer wrong-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Zero(t, saves)
	})

	t.Run("should pass: create book with valid token", func(t *testing.T) {
		payload := []byte(`{"id":"b9","title":"New","author":"Ana"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload))
		req.Header.Set("Authorization", "Bearer secret-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, saves)
	})

	t.Run("should pass: reads stay public", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// TestSetupOpsRoutes ensures the operations endpoints are gated by configuration.
func TestSetupOpsRoutes(t *testing.T) {
	testCases := []struct {
		name               string
		opsEndpointsEnable bool
		request            *http.Request
		implemented        bool
	}{
		{
			"ops enable:fetch configs endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			true,
		},
		{
			"ops enable:fetch stats endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/stats", nil),
			true,
		},
		{
			"ops enable:maintenance mode endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/maintenance", nil),
			true,
		},
		{
			"ops enable:memory stats endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/debug/vars", nil),
			true,
		},
		{
			"ops enable:unknown ops endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/unknown", nil),
			false,
		},
		{
			"ops enable:disabled profiler endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/", nil),
			false,
		},
		{
			"ops disable:fetch configs endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			false,
		},
		{
			"ops disable:fetch stats endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/stats", nil),
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := &Config{OpsEndpointsEnable: tc.opsEndpointsEnable, Auth: AuthConfig{Token: "secret-token"}}
			router := newTestRouter(config, NewMockCatalogStorage(nil, nil))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}
