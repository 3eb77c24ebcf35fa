package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/phambaophuc/image-watermark/internal/services/storage"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// StartWorkers starts count consumers, each on its own channel.
func (q *QueueService) StartWorkers(ctx context.Context, count int) error {
	for i := 1; i <= count; i++ {
		if err := q.StartWorker(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

func (q *QueueService) StartWorker(ctx context.Context, workerID int) error {
	channel, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open worker channel: %w", err)
	}

	// One unacked render per worker.
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := channel.Consume(
		q.queueName,                        // queue
		fmt.Sprintf("worker-%d", workerID), // consumer
		false,                              // auto-ack
		false,                              // exclusive
		false,                              // no-local
		false,                              // no-wait
		nil,                                // args
	)
	if err != nil {
		channel.Close()
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("Worker started", zap.Int("worker_id", workerID))

	q.workers.Add(1)
	go func() {
		defer q.workers.Done()
		defer channel.Close()

		for {
			select {
			case <-ctx.Done():
				q.logger.Info("Worker stopping", zap.Int("worker_id", workerID))
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn("Message channel closed", zap.Int("worker_id", workerID))
					return
				}

				q.processMessage(ctx, msg, workerID)
			}
		}
	}()

	return nil
}

func (q *QueueService) processMessage(ctx context.Context, msg amqp.Delivery, workerID int) {
	var job models.WatermarkJob
	if err := json.Unmarshal(msg.Body, &job); err != nil || job.ID == "" {
		q.logger.Error("Failed to unmarshal job",
			zap.Error(err),
			zap.Int("worker_id", workerID))
		msg.Nack(false, false) // Don't requeue malformed messages
		return
	}

	q.logger.Info("Processing job",
		zap.String("job_id", job.ID),
		zap.Int("worker_id", workerID))

	job.Status = models.StatusProcessing
	q.storeJob(ctx, &job)

	start := time.Now()
	result, err := q.watermarker.Apply(ctx, &job.Request)
	if err != nil && ctx.Err() != nil {
		// Shutting down: hand the job back to the broker instead of failing it.
		job.Status = models.StatusPending
		q.storeJob(context.WithoutCancel(ctx), &job)
		q.logger.Warn("Job interrupted, requeueing",
			zap.String("job_id", job.ID),
			zap.Int("worker_id", workerID),
			zap.Error(err))
		if err := msg.Nack(false, true); err != nil {
			q.logger.Error("Failed to requeue message",
				zap.String("job_id", job.ID),
				zap.Error(err))
		}
		return
	}
	if err != nil {
		job.Status = models.StatusFailed
		job.Error = err.Error()
		fields := append([]zap.Field{
			zap.String("job_id", job.ID),
			zap.Error(err),
		}, storage.ErrorFields(err)...)
		q.logger.Error("Job processing failed", fields...)
	} else {
		job.Status = models.StatusCompleted
		job.Result = result
		q.logger.Info("Job completed successfully",
			zap.String("job_id", job.ID),
			zap.Duration("latency", time.Since(start)))
	}

	q.storeJob(ctx, &job)

	if err := msg.Ack(false); err != nil {
		q.logger.Error("Failed to ack message",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

func (q *QueueService) storeJob(ctx context.Context, job *models.WatermarkJob) {
	job.UpdatedAt = time.Now()
	if err := q.jobs.SaveJob(ctx, job); err != nil {
		q.logger.Warn("Failed to store job",
			zap.String("job_id", job.ID),
			zap.String("status", job.Status),
			zap.Error(err))
	}
}
