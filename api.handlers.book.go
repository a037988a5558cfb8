package main

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// GetAllBooks serves the full catalog in collection order.
//
//	@Summary	Fetch all books.
//	@Produce	json
//	@Success	200	{object}	APIResponse
//	@Router		/api/books [get]
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	books := api.bookstore.ListBooks(r.Context())
	count := len(books)
	resp := GenericResponse(requestID, http.StatusOK, "", &count, books)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetFeaturedBooks serves books whose featured flag is set.
//
//	@Summary	Fetch featured books.
//	@Produce	json
//	@Success	200	{object}	APIResponse
//	@Router		/api/books/featured [get]
func (api *APIHandler) GetFeaturedBooks(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	books := api.bookstore.FeaturedBooks(r.Context())
	count := len(books)
	resp := GenericResponse(requestID, http.StatusOK, "", &count, books)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetTopRatedBooks serves at most 10 books ranked by weighted score.
//
//	@Summary	Fetch top rated books.
//	@Produce	json
//	@Success	200	{object}	APIResponse
//	@Router		/api/books/top-rated [get]
func (api *APIHandler) GetTopRatedBooks(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	books := api.bookstore.TopRatedBooks(r.Context())
	count := len(books)
	resp := GenericResponse(requestID, http.StatusOK, "", &count, books)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetBooksByDateRange serves books published within the inclusive
// lexical range of the two boundary path parameters.
//
//	@Summary	Fetch books published inside a date range.
//	@Produce	json
//	@Param		start	path		string	true	"start date (YYYY-MM-DD)"
//	@Param		end		path		string	true	"end date (YYYY-MM-DD)"
//	@Success	200		{object}	APIResponse
//	@Router		/api/books/dates/{start}/{end} [get]
func (api *APIHandler) GetBooksByDateRange(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	vars := mux.Vars(r)
	start, end := vars["start"], vars["end"]
	books := api.bookstore.BooksBetweenDates(r.Context(), start, end)
	count := len(books)
	resp := GenericResponse(requestID, http.StatusOK, "", &count, books)
	resp.DateRange = &DateRange{Start: start, End: end}
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOneBook serves a single book by its id.
//
//	@Summary	Fetch a single book.
//	@Produce	json
//	@Param		id	path		string	true	"book id"
//	@Success	200	{object}	APIResponse
//	@Failure	404	{object}	APIError
//	@Router		/api/books/{id} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := mux.Vars(r)["id"]
	book, err := api.bookstore.GetBook(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist")
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateBook validates and adds a new book to the catalog.
//
//	@Summary	Create a new book.
//	@Accept		json
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Success	201	{object}	APIResponse
//	@Failure	400	{object}	APIError
//	@Failure	401	{object}	APIError
//	@Failure	500	{object}	APIError
//	@Router		/api/books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	req := CreateBookRequest{}
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if err := DecodeCreateBookRequestBody(r, &req); err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to create the book: invalid request body")
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.bookstore.AddBook(r.Context(), req)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("book.id", req.ID), zap.String("request.id", requestID), zap.Error(err))
		var errResp *APIError
		switch {
		case errors.Is(err, ErrBookAlreadyExists):
			errResp = NewAPIError(requestID, http.StatusBadRequest, "book with this id already exists")
		case IsPersistError(err):
			errResp = NewAPIError(requestID, http.StatusInternalServerError, "failed to persist the book")
		default:
			errResp = NewAPIError(requestID, http.StatusBadRequest, "failed to create the book: "+err.Error())
		}
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create book", zap.String("book.id", book.ID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusCreated, "Book created successfully.", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
