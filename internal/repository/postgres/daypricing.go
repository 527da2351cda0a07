package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/pkg/database"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// DayPricingRepository implements domain.DayPricingRepository. Schedules are
// scoped to a venue through their item.
type DayPricingRepository struct {
	pool database.TxBeginner
}

// NewDayPricingRepository creates a PostgreSQL-backed schedule repository.
func NewDayPricingRepository(pool database.TxBeginner) *DayPricingRepository {
	return &DayPricingRepository{pool: pool}
}

// Get returns the stored entries of an item ordered by weekday.
func (r *DayPricingRepository) Get(ctx context.Context, venue domain.Venue, itemID int64) (entries []domain.DayPricingEntry, err error) {
	query := `
		SELECT p.day_of_week, p.price, p.is_active
		FROM item_day_pricing p
		JOIN menu_items i ON i.id = p.item_id
		WHERE i.venue = $1 AND p.item_id = $2
		ORDER BY p.day_of_week`

	ctx, end := database.TraceQuery(ctx, "GetDayPricing", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, venue, itemID)
	if err != nil {
		return nil, fmt.Errorf("get day pricing: %w", err)
	}
	defer rows.Close()

	entries = []domain.DayPricingEntry{}
	for rows.Next() {
		var e domain.DayPricingEntry
		if err = rows.Scan(&e.DayOfWeek, &e.Price, &e.IsActive); err != nil {
			return nil, fmt.Errorf("scan day pricing row: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day pricing rows: %w", err)
	}
	return entries, nil
}

// Replace deletes the item's schedule and inserts entries in one transaction.
func (r *DayPricingRepository) Replace(ctx context.Context, venue domain.Venue, itemID int64, entries []domain.DayPricingEntry) (err error) {
	ctx, end := database.TraceQuery(ctx, "ReplaceDayPricing", "DELETE/INSERT item_day_pricing")
	defer func() { end(err) }()

	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM menu_items WHERE venue = $1 AND id = $2)`,
			venue, itemID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check item: %w", err)
		}
		if !exists {
			return apperrors.NotFound("item", fmt.Sprint(itemID))
		}

		if _, err := tx.Exec(ctx, `DELETE FROM item_day_pricing WHERE item_id = $1`, itemID); err != nil {
			return fmt.Errorf("clear day pricing: %w", err)
		}

		for _, e := range entries {
			if _, err := tx.Exec(ctx,
				`INSERT INTO item_day_pricing (item_id, day_of_week, price, is_active) VALUES ($1, $2, $3, $4)`,
				itemID, e.DayOfWeek, e.Price, e.IsActive,
			); err != nil {
				return fmt.Errorf("insert day pricing for day %d: %w", e.DayOfWeek, err)
			}
		}
		return nil
	})
}
