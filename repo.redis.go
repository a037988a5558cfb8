package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis keys for the two catalog documents.
const (
	RedisBooksKey   = "bookstore:books"
	RedisReviewsKey = "bookstore:reviews"
)

type redisCatalogStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// NewRedisCatalogStorage provides a redis-backed catalog storage. Both
// documents are stored serialized under fixed keys.
func NewRedisCatalogStorage(logger *zap.Logger, client *redis.Client) CatalogStorage {
	return &redisCatalogStorage{
		logger: logger,
		client: client,
	}
}

// LoadBooks retrieves the books document from redis.
func (rs *redisCatalogStorage) LoadBooks(ctx context.Context) (BooksDocument, error) {
	doc := BooksDocument{Books: []Book{}}
	err := rs.loadDocument(ctx, RedisBooksKey, &doc)
	if err != nil {
		return BooksDocument{Books: []Book{}}, err
	}
	if doc.Books == nil {
		doc.Books = []Book{}
	}
	return doc, nil
}

// LoadReviews retrieves the reviews document from redis.
func (rs *redisCatalogStorage) LoadReviews(ctx context.Context) (ReviewsDocument, error) {
	doc := ReviewsDocument{Reviews: []Review{}}
	err := rs.loadDocument(ctx, RedisReviewsKey, &doc)
	if err != nil {
		return ReviewsDocument{Reviews: []Review{}}, err
	}
	if doc.Reviews == nil {
		doc.Reviews = []Review{}
	}
	return doc, nil
}

func (rs *redisCatalogStorage) loadDocument(ctx context.Context, key string, doc any) error {
	docJSONString, err := rs.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(docJSONString), doc)
}

// SaveBooks overwrites the books document in redis.
func (rs *redisCatalogStorage) SaveBooks(ctx context.Context, doc BooksDocument) error {
	return rs.saveDocument(ctx, RedisBooksKey, doc)
}

// SaveReviews overwrites the reviews document in redis.
func (rs *redisCatalogStorage) SaveReviews(ctx context.Context, doc ReviewsDocument) error {
	return rs.saveDocument(ctx, RedisReviewsKey, doc)
}

func (rs *redisCatalogStorage) saveDocument(ctx context.Context, key string, doc any) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return rs.client.Set(ctx, key, docBytes, 0).Err()
}

// Close shuts down the redis-backed catalog storage.
func (rs *redisCatalogStorage) Close() error {
	return rs.client.Close()
}
