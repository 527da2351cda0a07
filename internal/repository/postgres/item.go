package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/pkg/database"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

const itemColumns = `id, venue, category_id, name, description, price, currency_symbol,
	sort_order, is_available, use_day_pricing, created_at, updated_at`

// ItemRepository implements domain.ItemRepository.
type ItemRepository struct {
	pool database.DBTX
}

// NewItemRepository creates a PostgreSQL-backed item repository.
func NewItemRepository(pool database.DBTX) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// Create inserts it and fills in its id and timestamps.
func (r *ItemRepository) Create(ctx context.Context, it *domain.Item) (err error) {
	query := `
		INSERT INTO menu_items (venue, category_id, name, description, price,
			currency_symbol, sort_order, is_available, use_day_pricing)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	ctx, end := database.TraceQuery(ctx, "CreateItem", query)
	defer func() { end(err) }()

	err = r.pool.QueryRow(ctx, query,
		it.Venue,
		it.CategoryID,
		it.Name,
		it.Description,
		it.Price,
		it.CurrencySymbol,
		it.SortOrder,
		it.IsAvailable,
		it.UseDayPricing,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("category does not exist")
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves an item of venue by id.
func (r *ItemRepository) GetByID(ctx context.Context, venue domain.Venue, id int64) (it *domain.Item, err error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items WHERE venue = $1 AND id = $2`, itemColumns)

	ctx, end := database.TraceQuery(ctx, "GetItem", query)
	defer func() { end(err) }()

	it = &domain.Item{}
	if err = scanItemRow(r.pool.QueryRow(ctx, query, venue, id), it); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("item", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Update writes every mutable column of it.
func (r *ItemRepository) Update(ctx context.Context, it *domain.Item) (err error) {
	query := `
		UPDATE menu_items
		SET category_id = $1, name = $2, description = $3, price = $4,
		    currency_symbol = $5, sort_order = $6, is_available = $7,
		    use_day_pricing = $8, updated_at = NOW()
		WHERE venue = $9 AND id = $10
		RETURNING created_at, updated_at`

	ctx, end := database.TraceQuery(ctx, "UpdateItem", query)
	defer func() { end(err) }()

	err = r.pool.QueryRow(ctx, query,
		it.CategoryID,
		it.Name,
		it.Description,
		it.Price,
		it.CurrencySymbol,
		it.SortOrder,
		it.IsAvailable,
		it.UseDayPricing,
		it.Venue,
		it.ID,
	).Scan(&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("item", strconv.FormatInt(it.ID, 10))
		}
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("category does not exist")
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes an item together with its schedule and translations.
func (r *ItemRepository) Delete(ctx context.Context, venue domain.Venue, id int64) (err error) {
	query := `DELETE FROM menu_items WHERE venue = $1 AND id = $2`

	ctx, end := database.TraceQuery(ctx, "DeleteItem", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, venue, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("item", strconv.FormatInt(id, 10))
	}
	return nil
}

// List returns one page of venue's items and the total count.
func (r *ItemRepository) List(ctx context.Context, venue domain.Venue, f domain.ItemFilter) (items []domain.Item, total int, err error) {
	args := []any{venue}
	where := `WHERE venue = $1`
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM menu_items
		%s
		ORDER BY category_id, sort_order, id`, itemColumns, where)
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	ctx, end := database.TraceQuery(ctx, "ListItems", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items = []domain.Item{}
	for rows.Next() {
		var it domain.Item
		if err = rows.Scan(
			&it.ID, &it.Venue, &it.CategoryID, &it.Name, &it.Description, &it.Price,
			&it.CurrencySymbol, &it.SortOrder, &it.IsAvailable, &it.UseDayPricing,
			&it.CreatedAt, &it.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate item rows: %w", err)
	}
	return items, total, nil
}

func scanItemRow(row pgx.Row, it *domain.Item) error {
	return row.Scan(
		&it.ID,
		&it.Venue,
		&it.CategoryID,
		&it.Name,
		&it.Description,
		&it.Price,
		&it.CurrencySymbol,
		&it.SortOrder,
		&it.IsAvailable,
		&it.UseDayPricing,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
}
