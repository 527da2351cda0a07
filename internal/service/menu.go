package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/internal/event"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
	"github.com/mahmoud22020/Pvdmenus/pkg/validator"
)

// MenuService implements category and item management for every venue.
type MenuService struct {
	categories domain.CategoryRepository
	items      domain.ItemRepository
	producer   *event.Producer
	logger     *slog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(categories domain.CategoryRepository, items domain.ItemRepository, producer *event.Producer, logger *slog.Logger) *MenuService {
	return &MenuService{
		categories: categories,
		items:      items,
		producer:   producer,
		logger:     logger,
	}
}

// ListCategories returns the venue's categories in display order.
func (s *MenuService) ListCategories(ctx context.Context, venue domain.Venue) ([]domain.Category, error) {
	list, err := s.categories.List(ctx, venue)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// CategoryTree returns the venue's categories nested under their parents.
func (s *MenuService) CategoryTree(ctx context.Context, venue domain.Venue) ([]*domain.Category, error) {
	list, err := s.ListCategories(ctx, venue)
	if err != nil {
		return nil, err
	}
	return domain.BuildTree(list), nil
}

// GetCategory retrieves one category.
func (s *MenuService) GetCategory(ctx context.Context, venue domain.Venue, id int64) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, venue, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// CreateCategory validates in and stores a new category.
func (s *MenuService) CreateCategory(ctx context.Context, venue domain.Venue, in domain.CategoryInput) (*domain.Category, error) {
	if err := s.checkCategoryInput(ctx, venue, 0, &in); err != nil {
		return nil, err
	}

	c := &domain.Category{Venue: venue}
	in.Apply(c)
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.publish(ctx, "category.created", func() error {
		return s.producer.PublishCategory(ctx, event.ActionCreated, c)
	})
	s.logger.InfoContext(ctx, "category created",
		slog.String("venue", venue.String()),
		slog.Int64("category_id", c.ID),
	)
	return c, nil
}

// UpdateCategory replaces every writable field of a category.
func (s *MenuService) UpdateCategory(ctx context.Context, venue domain.Venue, id int64, in domain.CategoryInput) (*domain.Category, error) {
	if err := s.checkCategoryInput(ctx, venue, id, &in); err != nil {
		return nil, err
	}

	c, err := s.categories.GetByID(ctx, venue, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	in.Apply(c)
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.publish(ctx, "category.updated", func() error {
		return s.producer.PublishCategory(ctx, event.ActionUpdated, c)
	})
	return c, nil
}

// DeleteCategory removes a category and its items. Child categories move up
// one level.
func (s *MenuService) DeleteCategory(ctx context.Context, venue domain.Venue, id int64) error {
	if err := s.categories.Delete(ctx, venue, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.publish(ctx, "category.deleted", func() error {
		return s.producer.PublishCategoryDeleted(ctx, venue, id)
	})
	s.logger.InfoContext(ctx, "category deleted",
		slog.String("venue", venue.String()),
		slog.Int64("category_id", id),
	)
	return nil
}

// checkCategoryInput validates in. A parent must be another category of the
// same venue.
func (s *MenuService) checkCategoryInput(ctx context.Context, venue domain.Venue, id int64, in *domain.CategoryInput) error {
	in.Normalize()
	if err := validator.Validate(in); err != nil {
		return err
	}
	if in.ParentID == nil {
		return nil
	}
	if *in.ParentID == id {
		return apperrors.InvalidInput("a category cannot be its own parent")
	}
	if _, err := s.categories.GetByID(ctx, venue, *in.ParentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.InvalidInput(fmt.Sprintf("parent category %d not found", *in.ParentID))
		}
		return fmt.Errorf("get parent category: %w", err)
	}
	return nil
}

// ListItems returns one page of the venue's items and the total count.
func (s *MenuService) ListItems(ctx context.Context, venue domain.Venue, f domain.ItemFilter) ([]domain.Item, int, error) {
	items, total, err := s.items.List(ctx, venue, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// GetItem retrieves one item.
func (s *MenuService) GetItem(ctx context.Context, venue domain.Venue, id int64) (*domain.Item, error) {
	it, err := s.items.GetByID(ctx, venue, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// CreateItem validates in and stores a new item.
func (s *MenuService) CreateItem(ctx context.Context, venue domain.Venue, in domain.ItemInput) (*domain.Item, error) {
	if err := s.checkItemInput(ctx, venue, &in); err != nil {
		return nil, err
	}

	it := &domain.Item{Venue: venue}
	in.Apply(it)
	if err := s.items.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.publish(ctx, "item.created", func() error {
		return s.producer.PublishItem(ctx, event.ActionCreated, it)
	})
	s.logger.InfoContext(ctx, "item created",
		slog.String("venue", venue.String()),
		slog.Int64("item_id", it.ID),
		slog.Int64("category_id", it.CategoryID),
	)
	return it, nil
}

// UpdateItem replaces every writable field of an item.
func (s *MenuService) UpdateItem(ctx context.Context, venue domain.Venue, id int64, in domain.ItemInput) (*domain.Item, error) {
	if err := s.checkItemInput(ctx, venue, &in); err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, venue, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	in.Apply(it)
	if err := s.items.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.publish(ctx, "item.updated", func() error {
		return s.producer.PublishItem(ctx, event.ActionUpdated, it)
	})
	return it, nil
}

// DeleteItem removes an item with its schedule and translations.
func (s *MenuService) DeleteItem(ctx context.Context, venue domain.Venue, id int64) error {
	if err := s.items.Delete(ctx, venue, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.publish(ctx, "item.deleted", func() error {
		return s.producer.PublishItemDeleted(ctx, venue, id)
	})
	return nil
}

func (s *MenuService) checkItemInput(ctx context.Context, venue domain.Venue, in *domain.ItemInput) error {
	in.Normalize()
	if err := validator.Validate(in); err != nil {
		return err
	}
	if _, err := s.categories.GetByID(ctx, venue, in.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.InvalidInput(fmt.Sprintf("category %d not found", in.CategoryID))
		}
		return fmt.Errorf("get item category: %w", err)
	}
	return nil
}

// publish runs fn and only logs a failure. Event delivery never fails a write.
func (s *MenuService) publish(ctx context.Context, name string, fn func() error) {
	if err := fn(); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish "+name+" event",
			slog.String("error", err.Error()),
		)
	}
}
