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

// categoryColumns is the standard SELECT column list for categories.
const categoryColumns = `id, venue, name, parent_id, sort_order, is_visible,
	has_time_availability, available_from, available_to, created_at, updated_at`

// CategoryRepository implements domain.CategoryRepository.
type CategoryRepository struct {
	pool database.TxBeginner
}

// NewCategoryRepository creates a PostgreSQL-backed category repository.
func NewCategoryRepository(pool database.TxBeginner) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create inserts c and fills in its id and timestamps.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (err error) {
	query := `
		INSERT INTO categories (venue, name, parent_id, sort_order, is_visible,
			has_time_availability, available_from, available_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	ctx, end := database.TraceQuery(ctx, "CreateCategory", query)
	defer func() { end(err) }()

	err = r.pool.QueryRow(ctx, query,
		c.Venue,
		c.Name,
		c.ParentID,
		c.SortOrder,
		c.IsVisible,
		c.HasTimeAvailability,
		c.AvailableFrom,
		c.AvailableTo,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("parent category does not exist")
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID retrieves a category of venue by id.
func (r *CategoryRepository) GetByID(ctx context.Context, venue domain.Venue, id int64) (c *domain.Category, err error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE venue = $1 AND id = $2`, categoryColumns)

	ctx, end := database.TraceQuery(ctx, "GetCategory", query)
	defer func() { end(err) }()

	c = &domain.Category{}
	if err = scanCategoryRow(r.pool.QueryRow(ctx, query, venue, id), c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Update writes every mutable column of c.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) (err error) {
	query := `
		UPDATE categories
		SET name = $1, parent_id = $2, sort_order = $3, is_visible = $4,
		    has_time_availability = $5, available_from = $6, available_to = $7,
		    updated_at = NOW()
		WHERE venue = $8 AND id = $9
		RETURNING created_at, updated_at`

	ctx, end := database.TraceQuery(ctx, "UpdateCategory", query)
	defer func() { end(err) }()

	err = r.pool.QueryRow(ctx, query,
		c.Name,
		c.ParentID,
		c.SortOrder,
		c.IsVisible,
		c.HasTimeAvailability,
		c.AvailableFrom,
		c.AvailableTo,
		c.Venue,
		c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("category", strconv.FormatInt(c.ID, 10))
		}
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("parent category does not exist")
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes the category. Its children move up to its parent and its items
// are removed by the foreign key cascade.
func (r *CategoryRepository) Delete(ctx context.Context, venue domain.Venue, id int64) (err error) {
	ctx, end := database.TraceQuery(ctx, "DeleteCategory", "DELETE FROM categories")
	defer func() { end(err) }()

	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		var parentID *int64
		err := tx.QueryRow(ctx,
			`SELECT parent_id FROM categories WHERE venue = $1 AND id = $2 FOR UPDATE`,
			venue, id,
		).Scan(&parentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("category", strconv.FormatInt(id, 10))
			}
			return fmt.Errorf("get category for delete: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE categories SET parent_id = $1, updated_at = NOW() WHERE parent_id = $2`,
			parentID, id,
		); err != nil {
			return fmt.Errorf("reparent child categories: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

// List returns every category of venue in display order.
func (r *CategoryRepository) List(ctx context.Context, venue domain.Venue) (categories []domain.Category, err error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM categories
		WHERE venue = $1
		ORDER BY sort_order, id`, categoryColumns)

	ctx, end := database.TraceQuery(ctx, "ListCategories", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, venue)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories = []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err = scanCategoryRow(rows, &c); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

func scanCategoryRow(row pgx.Row, c *domain.Category) error {
	return row.Scan(
		&c.ID,
		&c.Venue,
		&c.Name,
		&c.ParentID,
		&c.SortOrder,
		&c.IsVisible,
		&c.HasTimeAvailability,
		&c.AvailableFrom,
		&c.AvailableTo,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}
