package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type fileCatalogStorage struct {
	logger      *zap.Logger
	booksPath   string
	reviewsPath string
}

// NewFileCatalogStorage provides a storage over two flat JSON documents.
// Each successful mutation rewrites the concerned document wholesale.
func NewFileCatalogStorage(logger *zap.Logger, config *StorageConfig) (CatalogStorage, error) {
	for _, path := range []string{config.BooksFile, config.ReviewsFile} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage folder for %s: %s", path, err)
		}
	}
	return &fileCatalogStorage{
		logger:      logger,
		booksPath:   config.BooksFile,
		reviewsPath: config.ReviewsFile,
	}, nil
}

// LoadBooks reads the books document. A missing file is an empty catalog.
func (fs *fileCatalogStorage) LoadBooks(_ context.Context) (BooksDocument, error) {
	doc := BooksDocument{Books: []Book{}}
	data, err := os.ReadFile(fs.booksPath)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, err
	}
	if err = json.Unmarshal(data, &doc); err != nil {
		return BooksDocument{Books: []Book{}}, err
	}
	if doc.Books == nil {
		doc.Books = []Book{}
	}
	return doc, nil
}

// LoadReviews reads the reviews document. A missing file is an empty collection.
func (fs *fileCatalogStorage) LoadReviews(_ context.Context) (ReviewsDocument, error) {
	doc := ReviewsDocument{Reviews: []Review{}}
	data, err := os.ReadFile(fs.reviewsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, err
	}
	if err = json.Unmarshal(data, &doc); err != nil {
		return ReviewsDocument{Reviews: []Review{}}, err
	}
	if doc.Reviews == nil {
		doc.Reviews = []Review{}
	}
	return doc, nil
}

// SaveBooks overwrites the books document with the given collection.
func (fs *fileCatalogStorage) SaveBooks(_ context.Context, doc BooksDocument) error {
	return fs.writeDocument(fs.booksPath, doc)
}

// SaveReviews overwrites the reviews document with the given collection.
func (fs *fileCatalogStorage) SaveReviews(_ context.Context, doc ReviewsDocument) error {
	return fs.writeDocument(fs.reviewsPath, doc)
}

func (fs *fileCatalogStorage) writeDocument(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Close is a no-op for the file backend.
func (fs *fileCatalogStorage) Close() error {
	return nil
}
