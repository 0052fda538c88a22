package queue

import (
	"context"
	"fmt"
	"time"

	"repo-insight/internal/redis"

	"github.com/google/uuid"
)

// IPublisher defines the interface for publishing jobs to the queue
type IPublisher interface {
	PublishDeepAnalysisJob(ctx context.Context, repository string, userID int64, provider string) error
	GetQueueLength(ctx context.Context) (int64, error)
}

type publisherImpl struct {
	queue *Queue
}

// NewPublisher creates a publisher
func NewPublisher(redisClient *redis.Client, queueName string) IPublisher {
	return &publisherImpl{
		queue: NewQueue(redisClient, queueName),
	}
}

// PublishDeepAnalysisJob creates a job to run a deep analysis for a repository.
// Dispatch is at-most-once: a lost job is retried only by a new caller action.
func (p *publisherImpl) PublishDeepAnalysisJob(ctx context.Context, repository string, userID int64, provider string) error {
	job := &Job{
		ID:         uuid.New().String(),
		Repository: repository,
		UserID:     userID,
		Provider:   provider,
		Type:       JobTypeDeepAnalysis,
		CreatedAt:  time.Now(),
		Retries:    0,
		MaxRetries: 0,
	}

	if err := p.queue.Push(ctx, job); err != nil {
		return fmt.Errorf("failed to publish deep analysis job: %w", err)
	}

	return nil
}

// GetQueueLength returns current queue size
func (p *publisherImpl) GetQueueLength(ctx context.Context) (int64, error) {
	length, err := p.queue.Length(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}
