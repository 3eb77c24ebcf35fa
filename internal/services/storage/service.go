package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/phambaophuc/image-watermark/internal/config"
	"github.com/phambaophuc/image-watermark/pkg/utils"
	"github.com/redis/go-redis/v9"
)

// ObjectStore is an object storage backend able to issue signed GET URLs.
type ObjectStore interface {
	Name() string
	Put(ctx context.Context, key string, data []byte, contentType string) error
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Health(ctx context.Context) error
}

type StorageService struct {
	store         ObjectStore
	redisClient   *redis.Client
	keyPrefix     string
	urlExpiry     time.Duration
	cacheDuration time.Duration
	jobTTL        time.Duration
}

func NewStorageService(ctx context.Context, cfg *config.Config) (*StorageService, error) {
	var (
		store ObjectStore
		err   error
	)
	switch cfg.Storage.Provider {
	case config.ProviderGCS:
		store, err = NewGCSStore(ctx, cfg.Storage)
	case config.ProviderSupabase:
		store = NewSupabaseStore(cfg.Storage)
	default:
		err = fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return NewService(store, redisClient, cfg), nil
}

// NewService wires an already built store. redisClient may be nil, which
// disables result caching and job records.
func NewService(store ObjectStore, redisClient *redis.Client, cfg *config.Config) *StorageService {
	return &StorageService{
		store:         store,
		redisClient:   redisClient,
		keyPrefix:     cfg.Storage.KeyPrefix,
		urlExpiry:     cfg.Storage.SignedURLExpiry,
		cacheDuration: cfg.Redis.CacheDuration,
		jobTTL:        cfg.Redis.JobTTL,
	}
}

// Upload puts the object under the configured prefix and returns a signed
// download URL for it.
func (s *StorageService) Upload(ctx context.Context, buffer *bytes.Buffer, filename, contentType string) (string, error) {
	key := utils.GenerateStorageKey(s.keyPrefix, filename)

	if err := s.store.Put(ctx, key, buffer.Bytes(), contentType); err != nil {
		return "", err
	}

	signedURL, err := s.store.SignedURL(ctx, key, s.urlExpiry)
	if err != nil {
		return "", err
	}
	return signedURL, nil
}

// Close releases the Redis pool and the store client.
func (s *StorageService) Close() error {
	var err error
	if s.redisClient != nil {
		err = s.redisClient.Close()
	}
	if c, ok := s.store.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
