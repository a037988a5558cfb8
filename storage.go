package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BooksDocument mirrors the persisted books collection layout.
type BooksDocument struct {
	Books []Book `json:"books"`
}

// ReviewsDocument mirrors the persisted reviews collection layout.
type ReviewsDocument struct {
	Reviews []Review `json:"reviews"`
}

// CatalogStorage loads and persists the two catalog documents wholesale.
// A load over a missing document returns the empty document of the right
// shape with no error; corrupt content surfaces as an error so the
// caller can decide the degrade policy.
type CatalogStorage interface {
	LoadBooks(ctx context.Context) (BooksDocument, error)
	LoadReviews(ctx context.Context) (ReviewsDocument, error)
	SaveBooks(ctx context.Context, doc BooksDocument) error
	SaveReviews(ctx context.Context, doc ReviewsDocument) error
	Close() error
}

// NewCatalogStorage builds the storage backend selected by configuration.
func NewCatalogStorage(logger *zap.Logger, config *Config) (CatalogStorage, error) {
	switch config.Storage.Backend {
	case FileBackend:
		return NewFileCatalogStorage(logger, &config.Storage)
	case BoltBackend:
		client, err := GetBoltDBClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to boltdb store: %s", err)
		}
		return NewBoltCatalogStorage(logger, &config.BoltDB, client), nil
	case RedisBackend:
		client, err := GetRedisClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis server: %s", err)
		}
		return NewRedisCatalogStorage(logger, client), nil
	}
	return nil, fmt.Errorf("unknown storage backend: %q", config.Storage.Backend)
}
