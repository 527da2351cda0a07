package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	pkgkafka "github.com/mahmoud22020/Pvdmenus/pkg/kafka"
	"github.com/mahmoud22020/Pvdmenus/pkg/logger"
)

// Actions of an entity lifecycle event.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Aggregate types.
const (
	AggregateCategory = "category"
	AggregateItem     = "item"
	AggregateBulk     = "bulk"
)

// Topics published by the menu admin service.
var (
	TopicCategoryCreated = pkgkafka.Topic(AggregateCategory, ActionCreated)
	TopicCategoryUpdated = pkgkafka.Topic(AggregateCategory, ActionUpdated)
	TopicCategoryDeleted = pkgkafka.Topic(AggregateCategory, ActionDeleted)
	TopicItemCreated     = pkgkafka.Topic(AggregateItem, ActionCreated)
	TopicItemUpdated     = pkgkafka.Topic(AggregateItem, ActionUpdated)
	TopicItemDeleted     = pkgkafka.Topic(AggregateItem, ActionDeleted)
	TopicBulkCompleted   = pkgkafka.Topic(AggregateBulk, "completed")
)

// SourceMenuAdmin identifies events originating here.
const SourceMenuAdmin = "menu-admin"

// EntityDeletedData is the payload of category.deleted and item.deleted.
type EntityDeletedData struct {
	ID int64 `json:"id"`
}

// BulkCompletedData is the payload of bulk.completed.
type BulkCompletedData struct {
	BatchID    string `json:"batch_id"`
	Kind       string `json:"kind"`
	Rows       int    `json:"rows"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	Deleted    int    `json:"deleted"`
	Skipped    int    `json:"skipped"`
	ErrorCount int    `json:"error_count"`
	UserID     string `json:"user_id,omitempty"`
}

// Producer publishes menu domain events.
type Producer struct {
	kafka  pkgkafka.Publisher
	logger *slog.Logger
}

// NewProducer creates an event producer over any Publisher.
func NewProducer(kafka pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishCategory publishes category.<action> with the category as payload.
func (p *Producer) PublishCategory(ctx context.Context, action string, c *domain.Category) error {
	return p.publish(ctx, pkgkafka.Topic(AggregateCategory, action), AggregateCategory, c.Venue, c.ID, c)
}

// PublishItem publishes item.<action> with the item as payload.
func (p *Producer) PublishItem(ctx context.Context, action string, it *domain.Item) error {
	return p.publish(ctx, pkgkafka.Topic(AggregateItem, action), AggregateItem, it.Venue, it.ID, it)
}

// PublishCategoryDeleted publishes category.deleted.
func (p *Producer) PublishCategoryDeleted(ctx context.Context, venue domain.Venue, id int64) error {
	return p.publish(ctx, TopicCategoryDeleted, AggregateCategory, venue, id, EntityDeletedData{ID: id})
}

// PublishItemDeleted publishes item.deleted.
func (p *Producer) PublishItemDeleted(ctx context.Context, venue domain.Venue, id int64) error {
	return p.publish(ctx, TopicItemDeleted, AggregateItem, venue, id, EntityDeletedData{ID: id})
}

// PublishBulkCompleted publishes bulk.completed once a batch finishes.
func (p *Producer) PublishBulkCompleted(ctx context.Context, venue domain.Venue, data BulkCompletedData) error {
	event, err := pkgkafka.NewEvent(TopicBulkCompleted, AggregateBulk, data.BatchID, SourceMenuAdmin, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", TopicBulkCompleted, err)
	}
	return p.send(ctx, TopicBulkCompleted, event.WithVenue(venue.String()))
}

func (p *Producer) publish(ctx context.Context, topic, aggregate string, venue domain.Venue, id int64, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregate, strconv.FormatInt(id, 10), SourceMenuAdmin, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	return p.send(ctx, topic, event.WithVenue(venue.String()))
}

func (p *Producer) send(ctx context.Context, topic string, event *pkgkafka.Event) error {
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", event.AggregateID),
		slog.String("event_id", event.EventID),
	)
	return nil
}
