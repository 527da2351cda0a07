package bulk

import (
	"time"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
)

// weekdayColumn is the optional per-day price column, e.g. "Sunday Price".
func weekdayColumn(day int) string {
	return time.Weekday(day).String() + " Price"
}

// BuildSchedule returns the full 7-day schedule for an item. With no overrides
// every day is active at base. Otherwise the overridden days are active at
// their own price and the rest are kept inactive at base.
func BuildSchedule(base float64, overrides map[int]float64) []domain.DayPricingEntry {
	entries := make([]domain.DayPricingEntry, domain.DaysPerWeek)
	for day := range entries {
		entries[day] = domain.DayPricingEntry{DayOfWeek: day, Price: base, IsActive: len(overrides) == 0}
		if p, ok := overrides[day]; ok {
			entries[day].Price = p
			entries[day].IsActive = true
		}
	}
	return entries
}

// scheduleFromRow reads the row's Price and weekday price columns.
func scheduleFromRow(r Row) []domain.DayPricingEntry {
	base := 0.0
	if p := ParseNumber(r.Get(ColPrice)); p != nil {
		base = *p
	}
	overrides := make(map[int]float64)
	for day := 0; day < domain.DaysPerWeek; day++ {
		if p := ParseNumber(r.Get(weekdayColumn(day))); p != nil {
			overrides[day] = *p
		}
	}
	return BuildSchedule(base, overrides)
}
