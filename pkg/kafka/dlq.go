package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// DLQTopicPrefix prefixes dead-letter topics.
const DLQTopicPrefix = TopicPrefix + ".dlq"

// DLQTopic names the dead-letter topic for a source topic.
func DLQTopic(topic string) string {
	return DLQTopicPrefix + "." + topic
}

// DLQProducer copies failed messages to their dead-letter topic with headers
// describing where they came from and why they failed.
type DLQProducer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewDLQProducer creates a synchronous, one-message-per-batch writer.
func NewDLQProducer(brokers []string, logger *slog.Logger) *DLQProducer {
	return &DLQProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			BatchSize:    1,
			BatchTimeout: 100 * time.Millisecond,
			RequiredAcks: kafka.RequireAll,
		},
		logger: logger,
	}
}

func dlqMessage(orig kafka.Message, cause error, group string) kafka.Message {
	headers := make([]kafka.Header, 0, len(orig.Headers)+5)
	headers = append(headers, orig.Headers...)
	headers = append(headers,
		kafka.Header{Key: "dlq.original_topic", Value: []byte(orig.Topic)},
		kafka.Header{Key: "dlq.original_partition", Value: []byte(strconv.Itoa(orig.Partition))},
		kafka.Header{Key: "dlq.original_offset", Value: []byte(strconv.FormatInt(orig.Offset, 10))},
		kafka.Header{Key: "dlq.consumer_group", Value: []byte(group)},
	)
	if cause != nil {
		headers = append(headers, kafka.Header{Key: "dlq.error", Value: []byte(cause.Error())})
	}
	return kafka.Message{
		Topic:   DLQTopic(orig.Topic),
		Key:     orig.Key,
		Value:   orig.Value,
		Headers: headers,
	}
}

// Publish dead-letters orig.
func (d *DLQProducer) Publish(ctx context.Context, orig kafka.Message, cause error, group string) error {
	msg := dlqMessage(orig, cause, group)
	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		d.logger.ErrorContext(ctx, "failed to publish message to DLQ",
			slog.String("dlq_topic", msg.Topic),
			slog.Int64("offset", orig.Offset),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("publish to DLQ %s: %w", msg.Topic, err)
	}
	d.logger.WarnContext(ctx, "message sent to DLQ",
		slog.String("dlq_topic", msg.Topic),
		slog.Int64("offset", orig.Offset),
		slog.String("consumer_group", group),
	)
	return nil
}

// Close closes the writer.
func (d *DLQProducer) Close() error {
	return d.writer.Close()
}
