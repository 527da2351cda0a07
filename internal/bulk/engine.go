// Package bulk reconciles spreadsheet rows against the menu store: it classifies
// each row, resolves id or name references, writes the category or item, then
// cascades day pricing and translations, collecting a per-row summary.
package bulk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// Column headers of the category and item sheets.
const (
	ColAction = "Action"

	ColCategoryID          = "Category ID"
	ColCategoryName        = "Category Name"
	ColParentID            = "Parent ID"
	ColParentName          = "Parent Name"
	ColSortOrder           = "Sort Order"
	ColIsVisible           = "Is Visible"
	ColHasTimeAvailability = "Has Time Availability"
	ColAvailableFrom       = "Available From"
	ColAvailableTo         = "Available To"

	ColItemID        = "Item ID"
	ColItemName      = "Item Name"
	ColDescription   = "Description"
	ColPrice         = "Price"
	ColCurrency      = "Currency"
	ColIsAvailable   = "Is Available"
	ColUseDayPricing = "Use Day Pricing"
)

// Config tunes one engine.
type Config struct {
	// Languages are the translation targets, e.g. ar, ru, zh.
	Languages []string
	// AutoTranslate machine-translates blanks in the translation columns.
	AutoTranslate bool
	// MaxRows rejects larger batches up front. Zero means no limit.
	MaxRows int
}

// Engine runs batches for one venue. It is not safe for concurrent use: rows
// are applied strictly in order because later rows may reference entities
// written by earlier ones.
type Engine struct {
	ports      Ports
	cfg        Config
	categories *Resolver[domain.Category]
	items      *Resolver[domain.Item]
	logger     *slog.Logger
}

// NewEngine seeds the resolvers from the venue's current categories and items.
func NewEngine(ports Ports, cfg Config, categories []domain.Category, items []domain.Item, logger *slog.Logger) *Engine {
	return &Engine{
		ports: ports,
		cfg:   cfg,
		categories: NewResolver(func(c domain.Category) (int64, string) {
			return c.ID, c.Name
		}, categories),
		items: NewResolver(func(it domain.Item) (int64, string) {
			return it.ID, it.Name
		}, items),
		logger: logger,
	}
}

// RunCategories applies category rows.
func (e *Engine) RunCategories(ctx context.Context, rows []Row) (*Summary, error) {
	return e.run(ctx, "categories", rows, e.reconcileCategory)
}

// RunItems applies item rows.
func (e *Engine) RunItems(ctx context.Context, rows []Row) (*Summary, error) {
	return e.run(ctx, "items", rows, e.reconcileItem)
}

type reconcileFunc func(ctx context.Context, r Row, action Action, s *Summary) []error

// run applies rows in order. Row failures are recorded in the summary and never
// stop the batch. Cancellation is checked between rows; the summary then covers
// the rows processed so far and ctx.Err() is returned alongside it.
func (e *Engine) run(ctx context.Context, kind string, rows []Row, reconcile reconcileFunc) (*Summary, error) {
	if e.cfg.MaxRows > 0 && len(rows) > e.cfg.MaxRows {
		return nil, apperrors.InvalidInput(fmt.Sprintf("batch has %d rows, the limit is %d", len(rows), e.cfg.MaxRows))
	}

	s := newSummary()
	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			e.logger.WarnContext(ctx, "bulk batch canceled",
				slog.String("kind", kind),
				slog.Int("processed", s.Rows),
				slog.Int("total", len(rows)),
			)
			return s, err
		}
		if r.Number == 0 {
			r.Number = i + 2
		}
		s.Rows++

		if r.Empty() {
			s.Skipped++
			continue
		}

		action, recognized := Classify(r.Get(ColAction))
		if !recognized {
			raw := Text(r.Get(ColAction))
			s.warn(r.Number, fmt.Sprintf("Action %q not recognized, treated as create", raw))
			e.logger.WarnContext(ctx, "unrecognized action coerced to create",
				slog.Int("row", r.Number),
				slog.String("action", raw),
			)
		}

		for _, err := range reconcile(ctx, r, action, s) {
			s.fail(r.Number, err)
			e.logger.WarnContext(ctx, "bulk row failed",
				slog.String("kind", kind),
				slog.Int("row", r.Number),
				slog.String("action", action.String()),
				slog.String("error_kind", Kind(err)),
				slog.String("error", err.Error()),
			)
		}
	}

	e.logger.InfoContext(ctx, "bulk batch finished",
		slog.String("kind", kind),
		slog.Int("rows", s.Rows),
		slog.Int("created", s.Created),
		slog.Int("updated", s.Updated),
		slog.Int("deleted", s.Deleted),
		slog.Int("skipped", s.Skipped),
		slog.Int("errors", len(s.Errors)),
	)
	return s, nil
}

// cascade runs the secondary writes for an entity whose primary write already
// succeeded.
func (e *Engine) cascade(ctx context.Context, src translationSource) []error {
	if !e.cfg.AutoTranslate && !e.hasProvidedTranslations(src.row) {
		return nil
	}
	if e.ports.Translations == nil {
		return nil
	}
	return e.syncTranslations(ctx, src)
}
