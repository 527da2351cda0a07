package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/pkg/validator"
)

// DayPricingService reads and replaces weekday price schedules.
type DayPricingService struct {
	items  domain.ItemRepository
	repo   domain.DayPricingRepository
	logger *slog.Logger
}

// NewDayPricingService creates a new day pricing service.
func NewDayPricingService(items domain.ItemRepository, repo domain.DayPricingRepository, logger *slog.Logger) *DayPricingService {
	return &DayPricingService{items: items, repo: repo, logger: logger}
}

// Get returns the item's full 7-day schedule. Days never stored come back
// inactive.
func (s *DayPricingService) Get(ctx context.Context, venue domain.Venue, itemID int64) ([]domain.DayPricingEntry, error) {
	if _, err := s.items.GetByID(ctx, venue, itemID); err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	stored, err := s.repo.Get(ctx, venue, itemID)
	if err != nil {
		return nil, fmt.Errorf("get day pricing: %w", err)
	}
	return domain.CompleteSchedule(stored)
}

// Replace stores entries as the item's schedule, filling missing days so exactly
// seven rows are written.
func (s *DayPricingService) Replace(ctx context.Context, venue domain.Venue, itemID int64, entries []domain.DayPricingEntry) ([]domain.DayPricingEntry, error) {
	for i := range entries {
		if err := validator.Validate(&entries[i]); err != nil {
			return nil, err
		}
	}
	full, err := domain.CompleteSchedule(entries)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, venue, itemID, full); err != nil {
		return nil, fmt.Errorf("replace day pricing: %w", err)
	}

	s.logger.InfoContext(ctx, "day pricing replaced",
		slog.String("venue", venue.String()),
		slog.Int64("item_id", itemID),
	)
	return full, nil
}
