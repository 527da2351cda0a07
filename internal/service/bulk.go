package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/internal/event"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
	"github.com/mahmoud22020/Pvdmenus/pkg/logger"
)

// Batch kinds.
const (
	KindCategories = "categories"
	KindItems      = "items"
)

var (
	bulkRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_bulk_rows_total",
			Help: "Bulk import rows by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
	bulkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menu_bulk_batch_duration_seconds",
			Help:    "Duration of bulk import batches",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)
)

// BulkService runs spreadsheet batches against the in-process services.
type BulkService struct {
	menu         *MenuService
	dayPricing   *DayPricingService
	translations domain.TranslationRepository
	translator   bulk.Translator
	producer     *event.Producer
	cfg          bulk.Config
	logger       *slog.Logger
}

// NewBulkService creates a bulk service. translator may be nil to disable
// machine translation.
func NewBulkService(
	menu *MenuService,
	dayPricing *DayPricingService,
	translations domain.TranslationRepository,
	translator bulk.Translator,
	producer *event.Producer,
	cfg bulk.Config,
	logger *slog.Logger,
) *BulkService {
	return &BulkService{
		menu:         menu,
		dayPricing:   dayPricing,
		translations: translations,
		translator:   translator,
		producer:     producer,
		cfg:          cfg,
		logger:       logger,
	}
}

// Result is a finished batch.
type Result struct {
	BatchID string        `json:"batch_id"`
	Kind    string        `json:"kind"`
	Summary *bulk.Summary `json:"summary"`
	Display bulk.View     `json:"display"`
}

// Run applies rows of the given kind to venue. A canceled batch returns the
// partial result together with the context error.
func (s *BulkService) Run(ctx context.Context, venue domain.Venue, kind string, rows []bulk.Row) (*Result, error) {
	if kind != KindCategories && kind != KindItems {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown bulk kind %q", kind))
	}

	batchID := uuid.NewString()
	ctx = logger.WithBatchID(ctx, batchID)
	ctx, span := otel.Tracer("github.com/mahmoud22020/Pvdmenus/internal/service").Start(ctx, "bulk."+kind)
	defer span.End()
	span.SetAttributes(
		attribute.String("menu.venue", venue.String()),
		attribute.String("menu.bulk.batch_id", batchID),
		attribute.Int("menu.bulk.rows", len(rows)),
	)

	start := time.Now()
	engine, err := s.engine(ctx, venue)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var summary *bulk.Summary
	if kind == KindCategories {
		summary, err = engine.RunCategories(ctx, rows)
	} else {
		summary, err = engine.RunItems(ctx, rows)
	}
	bulkDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if summary == nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	record(kind, summary)
	span.SetAttributes(
		attribute.Int("menu.bulk.created", summary.Created),
		attribute.Int("menu.bulk.updated", summary.Updated),
		attribute.Int("menu.bulk.deleted", summary.Deleted),
		attribute.Int("menu.bulk.errors", len(summary.Errors)),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}

	res := &Result{BatchID: batchID, Kind: kind, Summary: summary, Display: summary.Display()}
	if !errors.Is(err, context.Canceled) {
		s.announce(ctx, venue, res)
	}
	return res, err
}

// engine loads the venue's current categories and items into a fresh engine.
func (s *BulkService) engine(ctx context.Context, venue domain.Venue) (*bulk.Engine, error) {
	categories, err := s.menu.ListCategories(ctx, venue)
	if err != nil {
		return nil, err
	}
	items, _, err := s.menu.ListItems(ctx, venue, domain.ItemFilter{})
	if err != nil {
		return nil, err
	}
	ports := Ports(venue, s.menu, s.dayPricing, s.translations, s.translator)
	return bulk.NewEngine(ports, s.cfg, categories, items, logger.WithContext(ctx, s.logger)), nil
}

func record(kind string, s *bulk.Summary) {
	bulkRows.WithLabelValues(kind, "created").Add(float64(s.Created))
	bulkRows.WithLabelValues(kind, "updated").Add(float64(s.Updated))
	bulkRows.WithLabelValues(kind, "deleted").Add(float64(s.Deleted))
	bulkRows.WithLabelValues(kind, "skipped").Add(float64(s.Skipped))
	bulkRows.WithLabelValues(kind, "failed").Add(float64(len(s.Errors)))
}

func (s *BulkService) announce(ctx context.Context, venue domain.Venue, res *Result) {
	data := event.BulkCompletedData{
		BatchID:    res.BatchID,
		Kind:       res.Kind,
		Rows:       res.Summary.Rows,
		Created:    res.Summary.Created,
		Updated:    res.Summary.Updated,
		Deleted:    res.Summary.Deleted,
		Skipped:    res.Summary.Skipped,
		ErrorCount: len(res.Summary.Errors),
		UserID:     logger.UserIDFromContext(ctx),
	}
	if err := s.producer.PublishBulkCompleted(ctx, venue, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish bulk.completed event",
			slog.String("batch_id", res.BatchID),
			slog.String("error", err.Error()),
		)
	}
}
