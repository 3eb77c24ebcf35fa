package storage

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/redis/go-redis/v9"
)

const cachePrefix = "wm_cache:"

// GetCachedResult returns a previous result for the same request, or
// ErrCacheMiss.
func (s *StorageService) GetCachedResult(ctx context.Context, cacheKey string) (*models.WatermarkResult, error) {
	if !s.cacheEnabled() {
		return nil, ErrCacheMiss
	}

	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var result models.WatermarkResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("cache decode error: %w", err)
	}
	return &result, nil
}

func (s *StorageService) SetCachedResult(ctx context.Context, cacheKey string, result *models.WatermarkResult) error {
	if !s.cacheEnabled() {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache encode error: %w", err)
	}
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheDuration).Err()
}

func (s *StorageService) cacheEnabled() bool {
	return s.redisClient != nil && s.cacheDuration > 0
}

// GenerateCacheKey hashes every request field that influences the result.
func GenerateCacheKey(req *models.WatermarkRequest) string {
	hash := md5.New()
	fmt.Fprintf(hash, "url=%s\x00text=%s\x00time=%s\x00direction=%s\x00tenant=%s\x00origin=%s\x00opacity=%d",
		req.ImageURL, req.Text, req.Time, req.Direction, req.TenantKey, req.OriginName, req.Opacity)
	return fmt.Sprintf("%s%x", cachePrefix, hash.Sum(nil))
}
