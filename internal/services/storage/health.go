package storage

import "context"

// HealthCheck checks Redis and the object store
func (s *StorageService) HealthCheck(ctx context.Context) map[string]string {
	status := make(map[string]string)

	if s.redisClient == nil {
		status["redis"] = "not configured"
	} else if err := s.redisClient.Ping(ctx).Err(); err != nil {
		status["redis"] = "unhealthy: " + err.Error()
	} else {
		status["redis"] = "healthy"
	}

	if err := s.store.Health(ctx); err != nil {
		status[s.store.Name()] = "unhealthy: " + err.Error()
	} else {
		status[s.store.Name()] = "healthy"
	}

	return status
}
