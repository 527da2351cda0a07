package domain

import (
	"context"
	"time"
)

// DefaultCurrency is used when an item has no currency symbol.
const DefaultCurrency = "AED"

// Item is a dish or drink on the menu.
type Item struct {
	ID             int64     `json:"id"`
	Venue          Venue     `json:"venue"`
	CategoryID     int64     `json:"category_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	Price          *float64  `json:"price"`
	CurrencySymbol string    `json:"currency_symbol"`
	SortOrder      int       `json:"sort_order"`
	IsAvailable    bool      `json:"is_available"`
	UseDayPricing  bool      `json:"use_day_pricing"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ItemInput is the full writable state of an item. Price is kept even when day
// pricing is on; the weekday schedule then takes precedence.
type ItemInput struct {
	CategoryID     int64    `json:"category_id" validate:"gt=0"`
	Name           string   `json:"name" validate:"notblank,max=255"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	CurrencySymbol string   `json:"currency_symbol" validate:"max=10"`
	SortOrder      int      `json:"sort_order"`
	IsAvailable    bool     `json:"is_available"`
	UseDayPricing  bool     `json:"use_day_pricing"`
}

// Normalize fills the default currency.
func (in *ItemInput) Normalize() {
	if in.CurrencySymbol == "" {
		in.CurrencySymbol = DefaultCurrency
	}
}

// Apply copies the input onto it.
func (in ItemInput) Apply(it *Item) {
	it.CategoryID = in.CategoryID
	it.Name = in.Name
	it.Description = in.Description
	it.Price = in.Price
	it.CurrencySymbol = in.CurrencySymbol
	it.SortOrder = in.SortOrder
	it.IsAvailable = in.IsAvailable
	it.UseDayPricing = in.UseDayPricing
}

// ItemFilter narrows an item listing.
type ItemFilter struct {
	CategoryID *int64
	Limit      int
	Offset     int
}

// ItemRepository persists menu items.
type ItemRepository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, venue Venue, id int64) (*Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, venue Venue, id int64) error

	// List returns one page of items and the total matching count. A zero
	// Limit returns every item.
	List(ctx context.Context, venue Venue, f ItemFilter) ([]Item, int, error)
}
