// Package watermark runs the fetch, render, upload and sign pipeline shared by
// the HTTP endpoint and the queue workers.
package watermark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/phambaophuc/image-watermark/internal/config"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/phambaophuc/image-watermark/internal/services/processor"
	"github.com/phambaophuc/image-watermark/internal/services/storage"
	"github.com/phambaophuc/image-watermark/pkg/utils"
	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("invalid watermark request")

// Store uploads results and remembers them per request.
type Store interface {
	Upload(ctx context.Context, buffer *bytes.Buffer, filename, contentType string) (string, error)
	GetCachedResult(ctx context.Context, cacheKey string) (*models.WatermarkResult, error)
	SetCachedResult(ctx context.Context, cacheKey string, result *models.WatermarkResult) error
}

// Fetcher downloads a source image.
type Fetcher func(ctx context.Context, imageURL string) ([]byte, error)

type Service struct {
	processor *processor.ImageProcessor
	store     Store
	fetch     Fetcher
	location  *time.Location
	logger    *zap.Logger
}

func NewService(proc *processor.ImageProcessor, store Store, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.Watermark.DownloadTimeout}
	maxSize := cfg.Watermark.MaxSourceSize
	fetch := func(ctx context.Context, imageURL string) ([]byte, error) {
		data, _, err := utils.DownloadImage(ctx, client, imageURL, maxSize)
		return data, err
	}

	return &Service{
		processor: proc,
		store:     store,
		fetch:     fetch,
		location:  loc,
		logger:    logger,
	}, nil
}

// WithFetcher replaces the source downloader.
func (s *Service) WithFetcher(f Fetcher) *Service {
	s.fetch = f
	return s
}

// ParseStyle validates the request and converts it to render parameters.
func ParseStyle(req *models.WatermarkRequest, loc *time.Location) (processor.Style, error) {
	if req.Text == "" {
		return processor.Style{}, fmt.Errorf("%w: %v", ErrInvalidRequest, processor.ErrEmptyText)
	}

	direction, err := processor.ParseDirection(req.Direction)
	if err != nil {
		return processor.Style{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if req.Opacity < 0 || req.Opacity > 100 {
		return processor.Style{}, fmt.Errorf("%w: %v: %d", ErrInvalidRequest, processor.ErrInvalidOpacity, req.Opacity)
	}

	style := processor.Style{
		Text:      req.Text,
		Direction: direction,
		Opacity:   req.Opacity,
	}

	if req.Time != models.NoTimestamp {
		millis, err := strconv.ParseInt(req.Time, 10, 64)
		if err != nil {
			return processor.Style{}, fmt.Errorf("%w: time must be epoch milliseconds or %s", ErrInvalidRequest, models.NoTimestamp)
		}
		style.Time = time.UnixMilli(millis).In(loc)
		style.HasTime = true
	}

	return style, nil
}

// Apply watermarks the requested image, uploads it and returns a signed URL.
func (s *Service) Apply(ctx context.Context, req *models.WatermarkRequest) (*models.WatermarkResult, error) {
	start := time.Now()

	if req.ImageURL == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidRequest)
	}
	if req.OriginName == "" {
		req.OriginName = models.DefaultOriginName
	}

	style, err := ParseStyle(req, s.location)
	if err != nil {
		return nil, err
	}

	cacheKey := storage.GenerateCacheKey(req)
	if cached, err := s.store.GetCachedResult(ctx, cacheKey); err == nil {
		s.logger.Info("Cache hit", zap.String("cache_key", cacheKey))
		return cached, nil
	} else if !errors.Is(err, storage.ErrCacheMiss) {
		s.logger.Warn("Failed to read cache", zap.String("cache_key", cacheKey), zap.Error(err))
	}

	data, err := s.fetch(ctx, req.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source image: %w", err)
	}

	out, err := s.processor.ProcessImage(data, style, processor.FormatForName(req.OriginName))
	if err != nil {
		return nil, fmt.Errorf("failed to watermark image: %w", err)
	}

	fileName := utils.GenerateFilename(req.OriginName, req.TenantKey, out.Format.Suffix())
	imageURL, err := s.store.Upload(ctx, out.Buffer, fileName, out.Format.ContentType())
	if err != nil {
		return nil, fmt.Errorf("failed to upload watermarked image: %w", err)
	}

	result := &models.WatermarkResult{
		ImageURL: imageURL,
		FileName: utils.DisplayFilename(req.OriginName, out.Format.Suffix()),
		Width:    out.Width,
		Height:   out.Height,
	}

	if err := s.store.SetCachedResult(ctx, cacheKey, result); err != nil {
		s.logger.Warn("Failed to cache result", zap.String("cache_key", cacheKey), zap.Error(err))
	}

	s.logger.Info("Watermark applied",
		zap.String("direction", style.Direction.String()),
		zap.String("format", out.Format.String()),
		zap.String("file_name", fileName),
		zap.Int("width", out.Width),
		zap.Int("height", out.Height),
		zap.Int("bytes", out.Buffer.Len()),
		zap.Duration("latency", time.Since(start)),
	)

	return result, nil
}
