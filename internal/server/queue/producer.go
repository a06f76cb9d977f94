package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"memoirvault/internal/logging"
)

// Producer publishes jobs to the processing topic.
type Producer struct {
	writer *kafka.Writer
	logger logging.Logger
}

func NewProducer(brokers []string, topic string, logger logging.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  false,
		WriteTimeout:           10 * time.Second,
		ReadTimeout:            10 * time.Second,
		AllowAutoTopicCreation: true,
	}

	return &Producer{writer: writer, logger: logger.With("component", "queue_producer")}
}

// Publish sends one job. Messages are keyed by task ID so replays of the
// same task land on the same partition.
func (p *Producer) Publish(ctx context.Context, job Job) error {
	if job.TaskID == "" {
		return fmt.Errorf("task id is required")
	}
	if job.Kind == "" {
		return fmt.Errorf("kind is required")
	}

	value, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(job.TaskID),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(job.Kind)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		p.logger.Error(ctx, "failed to publish job", "task_id", job.TaskID, "error", err)
		return fmt.Errorf("failed to write to kafka: %w", err)
	}

	p.logger.Info(ctx, "job published", "task_id", job.TaskID, "kind", job.Kind)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
