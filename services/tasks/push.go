package tasks

import (
	"context"
	"fmt"
	"time"

	"notifyhub/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// NewQueueClient creates the asynq client for the fan-out queue.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
}

// AsynqEnqueuer adapts an asynq.Client to the durable queue contract the
// dispatcher consumes.
type AsynqEnqueuer struct {
	Client *asynq.Client
}

// Enqueue durably enqueues one payload under the given topic. The random
// task id keeps queue-level retries of the same logical dispatch from
// colliding while still giving each task a stable identity.
func (e *AsynqEnqueuer) Enqueue(ctx context.Context, topic string, payload []byte) error {
	task := asynq.NewTask(topic, payload)
	opts := []asynq.Option{
		asynq.TaskID(uuid.NewString()),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	if _, err := e.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s failed: %w", topic, err)
	}
	return nil
}
