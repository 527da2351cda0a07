package bulk

import (
	"context"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
)

// CategoryStore writes categories of the venue a batch is bound to.
type CategoryStore interface {
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// ItemStore writes items.
type ItemStore interface {
	CreateItem(ctx context.Context, in domain.ItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, id int64, in domain.ItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

// DayPricingStore replaces an item's whole weekday schedule.
type DayPricingStore interface {
	PutSchedule(ctx context.Context, itemID int64, entries []domain.DayPricingEntry) error
}

// TranslationStore upserts one translation keyed by entity and language.
type TranslationStore interface {
	UpsertTranslation(ctx context.Context, t domain.Translation) error
}

// Translator machine-translates source text into lang.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}

// Ports are the collaborators one batch writes through. Translator may be nil,
// in which case only manager-supplied translations are stored.
type Ports struct {
	Categories   CategoryStore
	Items        ItemStore
	DayPricing   DayPricingStore
	Translations TranslationStore
	Translator   Translator
}
