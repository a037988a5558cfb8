package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

// Bolt keys for the two catalog documents.
const (
	BoltBooksKey   = "books"
	BoltReviewsKey = "reviews"
)

type boltCatalogStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient sets up the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltCatalogStorage provides a bolt-backed catalog storage. Both
// documents live under fixed keys inside a single bucket.
func NewBoltCatalogStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) CatalogStorage {
	return &boltCatalogStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// LoadBooks retrieves the books document from the bolt store.
func (bs *boltCatalogStorage) LoadBooks(_ context.Context) (BooksDocument, error) {
	doc := BooksDocument{Books: []Book{}}
	err := bs.loadDocument(BoltBooksKey, &doc)
	if err != nil {
		return BooksDocument{Books: []Book{}}, err
	}
	if doc.Books == nil {
		doc.Books = []Book{}
	}
	return doc, nil
}

// LoadReviews retrieves the reviews document from the bolt store.
func (bs *boltCatalogStorage) LoadReviews(_ context.Context) (ReviewsDocument, error) {
	doc := ReviewsDocument{Reviews: []Review{}}
	err := bs.loadDocument(BoltReviewsKey, &doc)
	if err != nil {
		return ReviewsDocument{Reviews: []Review{}}, err
	}
	if doc.Reviews == nil {
		doc.Reviews = []Review{}
	}
	return doc, nil
}

func (bs *boltCatalogStorage) loadDocument(key string, doc any) error {
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(bs.config.BucketName)).Get([]byte(key))
	if result == nil {
		return nil
	}
	return json.Unmarshal(result, doc)
}

// SaveBooks overwrites the books document in the bolt store.
func (bs *boltCatalogStorage) SaveBooks(_ context.Context, doc BooksDocument) error {
	return bs.saveDocument(BoltBooksKey, doc)
}

// SaveReviews overwrites the reviews document in the bolt store.
func (bs *boltCatalogStorage) SaveReviews(_ context.Context, doc ReviewsDocument) error {
	return bs.saveDocument(BoltReviewsKey, doc)
}

func (bs *boltCatalogStorage) saveDocument(key string, doc any) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put([]byte(key), docBytes)
	})
}

// Close shuts down the bolt-backed catalog storage.
func (bs *boltCatalogStorage) Close() error {
	return bs.client.Close()
}
