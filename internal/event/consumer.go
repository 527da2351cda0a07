package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
	pkgkafka "github.com/mahmoud22020/Pvdmenus/pkg/kafka"
)

// TranslationFiller machine-translates whatever one entity is missing.
type TranslationFiller interface {
	FillEntity(ctx context.Context, venue domain.Venue, kind domain.EntityKind, id int64) (domain.FillReport, error)
}

// entityRef is the part of a category or item payload the worker needs.
type entityRef struct {
	ID int64 `json:"id"`
}

// Consumer translates newly created categories and items.
type Consumer struct {
	filler TranslationFiller
	logger *slog.Logger
}

// NewConsumer creates the translation worker.
func NewConsumer(filler TranslationFiller, logger *slog.Logger) *Consumer {
	return &Consumer{filler: filler, logger: logger}
}

// Handlers maps each consumed topic to its handler.
func (c *Consumer) Handlers() map[string]pkgkafka.Handler {
	return map[string]pkgkafka.Handler{
		TopicCategoryCreated: c.HandleCategoryCreated,
		TopicItemCreated:     c.HandleItemCreated,
	}
}

// HandleCategoryCreated processes category.created events.
func (c *Consumer) HandleCategoryCreated(ctx context.Context, event *pkgkafka.Event) error {
	return c.fill(ctx, event, domain.KindCategory)
}

// HandleItemCreated processes item.created events.
func (c *Consumer) HandleItemCreated(ctx context.Context, event *pkgkafka.Event) error {
	return c.fill(ctx, event, domain.KindItem)
}

func (c *Consumer) fill(ctx context.Context, event *pkgkafka.Event, kind domain.EntityKind) error {
	var ref entityRef
	if err := event.UnmarshalData(&ref); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}
	venue, err := domain.ParseVenue(event.Venue)
	if err != nil {
		return fmt.Errorf("%s event %s: %w", event.EventType, event.EventID, err)
	}

	report, err := c.filler.FillEntity(ctx, venue, kind, ref.ID)
	if err != nil {
		// Deleted before the worker got to it.
		if errors.Is(err, apperrors.ErrNotFound) {
			c.logger.InfoContext(ctx, "entity gone, skipping translation",
				slog.String("kind", string(kind)),
				slog.Int64("entity_id", ref.ID),
			)
			return nil
		}
		return fmt.Errorf("fill %s %d translations: %w", kind, ref.ID, err)
	}

	c.logger.InfoContext(ctx, "entity translated",
		slog.String("venue", venue.String()),
		slog.String("kind", string(kind)),
		slog.Int64("entity_id", ref.ID),
		slog.Int("translated", report.Translated),
		slog.Int("failed", report.Failed),
	)
	return nil
}
