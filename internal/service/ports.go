package service

import (
	"context"

	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
	"github.com/mahmoud22020/Pvdmenus/internal/domain"
)

// venuePorts binds the services to one venue so a bulk batch can write
// through them.
type venuePorts struct {
	venue        domain.Venue
	menu         *MenuService
	dayPricing   *DayPricingService
	translations domain.TranslationRepository
}

// Ports returns the bulk engine ports for venue, writing through the same
// validation and events as the HTTP API. translator may be nil.
func Ports(venue domain.Venue, menu *MenuService, dayPricing *DayPricingService, translations domain.TranslationRepository, translator bulk.Translator) bulk.Ports {
	p := &venuePorts{venue: venue, menu: menu, dayPricing: dayPricing, translations: translations}
	return bulk.Ports{Categories: p, Items: p, DayPricing: p, Translations: p, Translator: translator}
}

func (p *venuePorts) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	return p.menu.CreateCategory(ctx, p.venue, in)
}

func (p *venuePorts) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	return p.menu.UpdateCategory(ctx, p.venue, id, in)
}

func (p *venuePorts) DeleteCategory(ctx context.Context, id int64) error {
	return p.menu.DeleteCategory(ctx, p.venue, id)
}

func (p *venuePorts) CreateItem(ctx context.Context, in domain.ItemInput) (*domain.Item, error) {
	return p.menu.CreateItem(ctx, p.venue, in)
}

func (p *venuePorts) UpdateItem(ctx context.Context, id int64, in domain.ItemInput) (*domain.Item, error) {
	return p.menu.UpdateItem(ctx, p.venue, id, in)
}

func (p *venuePorts) DeleteItem(ctx context.Context, id int64) error {
	return p.menu.DeleteItem(ctx, p.venue, id)
}

func (p *venuePorts) PutSchedule(ctx context.Context, itemID int64, entries []domain.DayPricingEntry) error {
	_, err := p.dayPricing.Replace(ctx, p.venue, itemID, entries)
	return err
}

func (p *venuePorts) UpsertTranslation(ctx context.Context, t domain.Translation) error {
	return p.translations.Upsert(ctx, p.venue, t)
}
