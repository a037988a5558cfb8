package main

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// GetBookReviews serves all reviews of a book with its denormalized summary.
//
//	@Summary	Fetch all reviews of a book.
//	@Produce	json
//	@Param		bookId	path		string	true	"book id"
//	@Success	200		{object}	APIResponse
//	@Failure	404		{object}	APIError
//	@Router		/api/reviews/book/{bookId} [get]
func (api *APIHandler) GetBookReviews(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	bookID := mux.Vars(r)["bookId"]
	summary, reviews, err := api.bookstore.ReviewsForBook(r.Context(), bookID)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.id", bookID), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist")
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	count := len(reviews)
	resp := GenericResponse(requestID, http.StatusOK, "", &count, reviews)
	resp.Book = &summary
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateReview validates and adds a new review, updating the rating
// aggregates of the referenced book.
//
//	@Summary	Create a new review.
//	@Accept		json
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Success	201	{object}	APIResponse
//	@Failure	400	{object}	APIError
//	@Failure	401	{object}	APIError
//	@Failure	404	{object}	APIError
//	@Failure	500	{object}	APIError
//	@Router		/api/reviews [post]
func (api *APIHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	req := CreateReviewRequest{}
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if err := DecodeCreateReviewRequestBody(r, &req); err != nil {
		api.logger.Error("failed to create review", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to create the review: invalid request body")
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	review, err := api.bookstore.AddReview(r.Context(), req)
	if err != nil {
		api.logger.Error("failed to create review", zap.String("review.id", req.ID), zap.String("book.id", req.BookID), zap.String("request.id", requestID), zap.Error(err))
		var errResp *APIError
		switch {
		case errors.Is(err, ErrBookNotFound):
			errResp = NewAPIError(requestID, http.StatusNotFound, "book does not exist")
		case errors.Is(err, ErrReviewAlreadyExists):
			errResp = NewAPIError(requestID, http.StatusBadRequest, "review with this id already exists")
		case IsPersistError(err):
			errResp = NewAPIError(requestID, http.StatusInternalServerError, "failed to persist the review")
		default:
			errResp = NewAPIError(requestID, http.StatusBadRequest, "failed to create the review: "+err.Error())
		}
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create review", zap.String("review.id", review.ID), zap.String("book.id", review.BookID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusCreated, "Review created successfully.", nil, review)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
