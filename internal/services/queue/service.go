package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/phambaophuc/image-watermark/internal/config"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Watermarker runs one watermark request.
type Watermarker interface {
	Apply(ctx context.Context, req *models.WatermarkRequest) (*models.WatermarkResult, error)
}

// JobStore keeps job records for status polling.
type JobStore interface {
	SaveJob(ctx context.Context, job *models.WatermarkJob) error
	GetJob(ctx context.Context, id string) (*models.WatermarkJob, error)
}

type QueueService struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	publishMu   sync.Mutex
	logger      *zap.Logger
	queueName   string
	watermarker Watermarker
	jobs        JobStore
	workers     sync.WaitGroup
}

func NewQueueService(
	cfg config.RabbitMQConfig,
	watermarker Watermarker,
	jobs JobStore,
	logger *zap.Logger,
) (*QueueService, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return newQueueService(conn, channel, cfg.Queue, watermarker, jobs, logger), nil
}

func newQueueService(
	conn *amqp.Connection,
	channel *amqp.Channel,
	queueName string,
	watermarker Watermarker,
	jobs JobStore,
	logger *zap.Logger,
) *QueueService {
	return &QueueService{
		conn:        conn,
		channel:     channel,
		logger:      logger,
		queueName:   queueName,
		watermarker: watermarker,
		jobs:        jobs,
	}
}

// GetJob returns the stored record for a job ID.
func (q *QueueService) GetJob(ctx context.Context, id string) (*models.WatermarkJob, error) {
	return q.jobs.GetJob(ctx, id)
}

// Wait blocks until every started worker has stopped.
func (q *QueueService) Wait() {
	q.workers.Wait()
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
