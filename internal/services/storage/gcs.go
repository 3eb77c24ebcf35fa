package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/phambaophuc/image-watermark/internal/config"
	"google.golang.org/api/option"
)

// GCSStore uploads to a Google Cloud Storage bucket and signs V4 URLs.
type GCSStore struct {
	client         *storage.Client
	bucket         string
	region         string
	googleAccessID string
	privateKey     []byte
}

func NewGCSStore(ctx context.Context, cfg config.StorageConfig) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	} else if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	store := &GCSStore{
		client:         client,
		bucket:         cfg.BucketName,
		region:         cfg.Region,
		googleAccessID: cfg.AccessKey,
	}
	if cfg.Secret != "" {
		store.privateKey = []byte(cfg.Secret)
	}
	return store, nil
}

func (s *GCSStore) Name() string {
	return config.ProviderGCS
}

func (s *GCSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		w.Close()
		return newError(s.Name(), "put", key, err)
	}
	if err := w.Close(); err != nil {
		return newError(s.Name(), "put", key, err)
	}
	return nil
}

// SignedURL signs with the configured access ID and key, or with the client
// credentials when those are empty.
func (s *GCSStore) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	signed, err := s.client.Bucket(s.bucket).SignedURL(key, &storage.SignedURLOptions{
		GoogleAccessID: s.googleAccessID,
		PrivateKey:     s.privateKey,
		Method:         http.MethodGet,
		Expires:        time.Now().Add(expiry),
		Scheme:         storage.SigningSchemeV4,
	})
	if err != nil {
		return "", newError(s.Name(), "sign", key, err)
	}
	return signed, nil
}

func (s *GCSStore) Health(ctx context.Context) error {
	attrs, err := s.client.Bucket(s.bucket).Attrs(ctx)
	if err != nil {
		return newError(s.Name(), "attrs", "", err)
	}
	if err := checkLocation(s.region, attrs.Location); err != nil {
		return newError(s.Name(), "attrs", "", err)
	}
	return nil
}

// checkLocation compares a configured region with a bucket location. An empty
// region accepts any location.
func checkLocation(region, location string) error {
	if region == "" || strings.EqualFold(region, location) {
		return nil
	}
	return fmt.Errorf("bucket location %s does not match region %s", location, region)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
