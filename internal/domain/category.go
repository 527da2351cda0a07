package domain

import (
	"context"
	"time"
)

// Category groups menu items. Categories form a tree through ParentID.
type Category struct {
	ID                  int64       `json:"id"`
	Venue               Venue       `json:"venue"`
	Name                string      `json:"name"`
	ParentID            *int64      `json:"parent_id"`
	SortOrder           int         `json:"sort_order"`
	IsVisible           bool        `json:"is_visible"`
	HasTimeAvailability bool        `json:"has_time_availability"`
	AvailableFrom       *string     `json:"available_from"`
	AvailableTo         *string     `json:"available_to"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
	Children            []*Category `json:"children,omitempty"`
}

// CategoryInput is the full writable state of a category, used for both create
// and update.
type CategoryInput struct {
	Name                string  `json:"name" validate:"notblank,max=255"`
	ParentID            *int64  `json:"parent_id" validate:"omitempty,gt=0"`
	SortOrder           int     `json:"sort_order"`
	IsVisible           bool    `json:"is_visible"`
	HasTimeAvailability bool    `json:"has_time_availability"`
	AvailableFrom       *string `json:"available_from" validate:"omitempty,max=20"`
	AvailableTo         *string `json:"available_to" validate:"omitempty,max=20"`
}

// Normalize clears the availability window when it is switched off.
func (in *CategoryInput) Normalize() {
	if !in.HasTimeAvailability {
		in.AvailableFrom = nil
		in.AvailableTo = nil
	}
}

// Apply copies the input onto c.
func (in CategoryInput) Apply(c *Category) {
	c.Name = in.Name
	c.ParentID = in.ParentID
	c.SortOrder = in.SortOrder
	c.IsVisible = in.IsVisible
	c.HasTimeAvailability = in.HasTimeAvailability
	c.AvailableFrom = in.AvailableFrom
	c.AvailableTo = in.AvailableTo
}

// BuildTree nests a flat, sort-ordered list under its parents. Categories whose
// parent is missing from the list are treated as roots.
func BuildTree(flat []Category) []*Category {
	nodes := make(map[int64]*Category, len(flat))
	for i := range flat {
		c := flat[i]
		c.Children = nil
		nodes[c.ID] = &c
	}

	roots := make([]*Category, 0)
	for i := range flat {
		node := nodes[flat[i].ID]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// CategoryRepository persists categories of one venue at a time.
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, venue Venue, id int64) (*Category, error)
	Update(ctx context.Context, c *Category) error

	// Delete removes the category and its items, and moves its child categories
	// up to the deleted category's parent.
	Delete(ctx context.Context, venue Venue, id int64) error

	List(ctx context.Context, venue Venue) ([]Category, error)
}
