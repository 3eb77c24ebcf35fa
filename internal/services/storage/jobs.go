package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/redis/go-redis/v9"
)

const jobPrefix = "wm_job:"

var (
	ErrJobNotFound  = errors.New("job not found")
	ErrJobsDisabled = errors.New("job store not configured")
)

func (s *StorageService) SaveJob(ctx context.Context, job *models.WatermarkJob) error {
	if s.redisClient == nil {
		return ErrJobsDisabled
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return s.redisClient.Set(ctx, jobPrefix+job.ID, data, s.jobTTL).Err()
}

func (s *StorageService) GetJob(ctx context.Context, id string) (*models.WatermarkJob, error) {
	if s.redisClient == nil {
		return nil, ErrJobsDisabled
	}

	data, err := s.redisClient.Get(ctx, jobPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	var job models.WatermarkJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &job, nil
}
