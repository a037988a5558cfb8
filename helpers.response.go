package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// CustomResponseWriter is a wrapper for http.ResponseWriter. It is
// used to record response details like status code and body size
// for the statistics middleware.
type CustomResponseWriter struct {
	http.ResponseWriter
	code  int
	bytes int
	wrote bool
}

// NewCustomResponseWriter provides CustomResponseWriter with 200 as status code.
func NewCustomResponseWriter(rw http.ResponseWriter) *CustomResponseWriter {
	return &CustomResponseWriter{
		ResponseWriter: rw,
		code:           200,
	}
}

// WriteHeader implements http.WriteHeader interface.
func (cw *CustomResponseWriter) WriteHeader(code int) {
	if !cw.wrote {
		cw.code = code
		cw.wrote = true
		cw.ResponseWriter.WriteHeader(code)
	}
}

// Write implements http.Write interface.
func (cw *CustomResponseWriter) Write(bytes []byte) (int, error) {
	if !cw.wrote {
		cw.WriteHeader(cw.code)
	}
	n, err := cw.ResponseWriter.Write(bytes)
	cw.bytes += n
	return n, err
}

// Status returns the written status code.
func (cw *CustomResponseWriter) Status() int {
	return cw.code
}

// Bytes returns bytes written as response body.
func (cw *CustomResponseWriter) Bytes() int {
	return cw.bytes
}

// Unwrap returns native response writer and used by
// the http.ResponseController during its operation.
func (cw *CustomResponseWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// DateRange is the echoed boundaries of a date-range query.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// APIError is the data model sent when an error occurred during request processing.
type APIError struct {
	Success   bool   `json:"success"`
	RequestID string `json:"requestid"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
}

// APIResponse is the data model sent when a request succeed. The
// optional fields serve specific endpoints only: Count for listings,
// DateRange for the date filter, Book for the reviews-of-book summary.
type APIResponse struct {
	Success   bool         `json:"success"`
	RequestID string       `json:"requestid"`
	Status    int          `json:"status"`
	Message   string       `json:"message,omitempty"`
	Count     *int         `json:"count,omitempty"`
	DateRange *DateRange   `json:"dateRange,omitempty"`
	Book      *BookSummary `json:"book,omitempty"`
	Data      interface{}  `json:"data"`
}

func NewAPIError(requestid string, status int, message string) *APIError {
	return &APIError{
		Success:   false,
		RequestID: requestid,
		Status:    status,
		Message:   message,
	}
}

func GenericResponse(requestid string, status int, message string, count *int, data interface{}) *APIResponse {
	return &APIResponse{
		Success:   true,
		RequestID: requestid,
		Status:    status,
		Message:   message,
		Count:     count,
		Data:      data,
	}
}

// WriteErrorResponse is used to send error response to client. In case the client closed the
// request or the processing timed out, the timeout middleware already kicked-in and answered,
// so only the stats-relevant status code is set. 499 is the Nginx non standard code for
// Client Closed Request.
func WriteErrorResponse(ctx context.Context, w http.ResponseWriter, errResp *APIError) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			w.WriteHeader(http.StatusGatewayTimeout)
		} else {
			w.WriteHeader(499)
		}
		return ctx.Err()
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(errResp.Status)
	return json.NewEncoder(w).Encode(errResp)
}

// WriteResponse is used to send success api response to client. It sets the status code to 499
// in case client cancelled the request, and to 504 if the request processing timed out.
func WriteResponse(ctx context.Context, w http.ResponseWriter, resp *APIResponse) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			w.WriteHeader(http.StatusGatewayTimeout)
		} else {
			w.WriteHeader(499)
		}
		return ctx.Err()
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(resp.Status)
	return json.NewEncoder(w).Encode(resp)
}
