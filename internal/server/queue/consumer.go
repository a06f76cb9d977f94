package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"memoirvault/internal/logging"
)

// Consumer reads jobs from the processing topic and feeds them into a
// channel drained by the worker pool.
type Consumer struct {
	reader *kafka.Reader
	logger logging.Logger
}

func NewConsumer(brokers []string, topic string, logger logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     "memoirvault-workers",
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})

	return &Consumer{reader: reader, logger: logger.With("component", "queue_consumer")}
}

// Start reads until ctx is cancelled. Jobs that fail to decode are logged
// and skipped; a full jobs channel blocks further reads, which is the
// desired backpressure.
func (c *Consumer) Start(ctx context.Context, jobs chan<- Job) error {
	c.logger.Info(ctx, "consumer started")

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info(ctx, "consumer stopping")
				return c.reader.Close()
			}
			c.logger.Error(ctx, "error reading message", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		var job Job
		if err := json.Unmarshal(message.Value, &job); err != nil {
			c.logger.Error(ctx, "error unmarshalling message", "error", err)
			continue
		}

		select {
		case jobs <- job:
			c.logger.Info(ctx, "job received", "task_id", job.TaskID, "kind", job.Kind)
		case <-ctx.Done():
			return c.reader.Close()
		}
	}
}
