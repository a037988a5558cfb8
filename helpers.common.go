package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
)

// Sentinel errors of the catalog engine.
var (
	ErrBookNotFound        = errors.New("book not found")
	ErrBookAlreadyExists   = errors.New("book already exists")
	ErrReviewAlreadyExists = errors.New("review already exists")
)

type ContextKey string

const (
	RequestIDPrefix         string     = "r"
	RequestIDContextKey     ContextKey = "request.id"
	RequestNumberContextKey ContextKey = "request.number"
)

// persistFailedError reports a sink failure on a given document. The
// in-memory mutation was already reverted when the caller sees it.
type persistFailedError struct {
	doc string
	err error
}

func (e *persistFailedError) Error() string {
	return "failed to persist " + e.doc + " document: " + e.err.Error()
}

func (e *persistFailedError) Unwrap() error {
	return e.err
}

// IsPersistError tells whether an error comes from the persistence sink.
func IsPersistError(err error) bool {
	var pErr *persistFailedError
	return errors.As(err, &pErr)
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(RequestNumberContextKey); val != nil {
		return val.(uint64)
	}
	return 0
}

// DecodeCreateBookRequestBody reads the content of a book creation request.
func DecodeCreateBookRequestBody(r *http.Request, req *CreateBookRequest) error {
	if r.Body == nil {
		return errors.New("invalid create book request body")
	}
	return json.NewDecoder(r.Body).Decode(req)
}

// DecodeCreateReviewRequestBody reads the content of a review creation request.
func DecodeCreateReviewRequestBody(r *http.Request, req *CreateReviewRequest) error {
	if r.Body == nil {
		return errors.New("invalid create review request body")
	}
	return json.NewDecoder(r.Body).Decode(req)
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
