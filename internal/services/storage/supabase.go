package storage

import (
	"bytes"
	"context"
	"math"
	"strings"
	"time"

	"github.com/phambaophuc/image-watermark/internal/config"
	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore uploads to Supabase Storage.
type SupabaseStore struct {
	sbClient *storage_go.Client
	bucket   string
}

func NewSupabaseStore(cfg config.StorageConfig) *SupabaseStore {
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if !strings.HasSuffix(endpoint, "/storage/v1") {
		endpoint += "/storage/v1"
	}
	return &SupabaseStore{
		sbClient: storage_go.NewClient(endpoint, cfg.Secret, nil),
		bucket:   cfg.BucketName,
	}
}

func (s *SupabaseStore) Name() string {
	return config.ProviderSupabase
}

func (s *SupabaseStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	upsert := false
	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return newError(s.Name(), "put", key, err)
	}
	return nil
}

func (s *SupabaseStore) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	seconds := int(math.Ceil(expiry.Seconds()))
	resp, err := s.sbClient.CreateSignedUrl(s.bucket, key, seconds)
	if err != nil {
		return "", newError(s.Name(), "sign", key, err)
	}
	return resp.SignedURL, nil
}

func (s *SupabaseStore) Health(ctx context.Context) error {
	if _, err := s.sbClient.ListFiles(s.bucket, "", storage_go.FileSearchOptions{}); err != nil {
		return newError(s.Name(), "list", "", err)
	}
	return nil
}
