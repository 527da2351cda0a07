package domain

import (
	"context"
	"fmt"
	"sort"

	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// DaysPerWeek is the size of every stored schedule.
const DaysPerWeek = 7

// DayPricingEntry overrides an item's price on one weekday (0 = Sunday).
type DayPricingEntry struct {
	DayOfWeek int     `json:"day_of_week" validate:"gte=0,lte=6"`
	Price     float64 `json:"price" validate:"gte=0"`
	IsActive  bool    `json:"is_active"`
}

// CompleteSchedule returns a 7-entry schedule in weekday order. Days missing
// from entries are added inactive with price 0. Duplicate or out-of-range days
// are rejected.
func CompleteSchedule(entries []DayPricingEntry) ([]DayPricingEntry, error) {
	var seen [DaysPerWeek]bool
	out := make([]DayPricingEntry, 0, DaysPerWeek)
	for _, e := range entries {
		if e.DayOfWeek < 0 || e.DayOfWeek >= DaysPerWeek {
			return nil, apperrors.InvalidInput(fmt.Sprintf("day_of_week %d out of range 0..6", e.DayOfWeek))
		}
		if seen[e.DayOfWeek] {
			return nil, apperrors.InvalidInput(fmt.Sprintf("day_of_week %d listed twice", e.DayOfWeek))
		}
		seen[e.DayOfWeek] = true
		out = append(out, e)
	}
	for day := 0; day < DaysPerWeek; day++ {
		if !seen[day] {
			out = append(out, DayPricingEntry{DayOfWeek: day})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

// DayPricingRepository stores weekday schedules.
type DayPricingRepository interface {
	Get(ctx context.Context, venue Venue, itemID int64) ([]DayPricingEntry, error)

	// Replace swaps the stored schedule for entries in one transaction.
	Replace(ctx context.Context, venue Venue, itemID int64, entries []DayPricingEntry) error
}
