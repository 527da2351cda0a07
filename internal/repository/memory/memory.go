// Package memory holds the menu in process memory. It backs dry-run imports,
// where a workbook is checked against a snapshot of the live menu without
// writing anything.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// Store is one in-memory menu shared by the repositories it hands out. It
// applies the same cascades as the PostgreSQL schema.
type Store struct {
	mu           sync.Mutex
	lastID       int64
	categories   map[int64]domain.Category
	items        map[int64]domain.Item
	schedules    map[int64][]domain.DayPricingEntry
	translations map[string]domain.Translation
	now          func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		categories:   make(map[int64]domain.Category),
		items:        make(map[int64]domain.Item),
		schedules:    make(map[int64][]domain.DayPricingEntry),
		translations: make(map[string]domain.Translation),
		now:          time.Now,
	}
}

// Seed loads existing categories and items. New ids are allocated above the
// highest seeded id.
func (s *Store) Seed(categories []domain.Category, items []domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range categories {
		c.Children = nil
		s.categories[c.ID] = c
		s.lastID = max(s.lastID, c.ID)
	}
	for _, it := range items {
		s.items[it.ID] = it
		s.lastID = max(s.lastID, it.ID)
	}
}

// Categories returns the category repository.
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s} }

// Items returns the item repository.
func (s *Store) Items() *ItemRepository { return &ItemRepository{s} }

// DayPricing returns the day pricing repository.
func (s *Store) DayPricing() *DayPricingRepository { return &DayPricingRepository{s} }

// Translations returns the translation repository.
func (s *Store) Translations() *TranslationRepository { return &TranslationRepository{s} }

func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

func notFound(resource string, id int64) error {
	return apperrors.NotFound(resource, strconv.FormatInt(id, 10))
}

// deleteItemLocked drops an item with its schedule and translations.
func (s *Store) deleteItemLocked(id int64) {
	delete(s.items, id)
	delete(s.schedules, id)
	for key, t := range s.translations {
		if t.Kind == domain.KindItem && t.EntityID == id {
			delete(s.translations, key)
		}
	}
}

// CategoryRepository implements domain.CategoryRepository.
type CategoryRepository struct{ s *Store }

func (r *CategoryRepository) Create(_ context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ParentID != nil {
		if p, ok := r.s.categories[*c.ParentID]; !ok || p.Venue != c.Venue {
			return apperrors.InvalidInput("parent category does not exist")
		}
	}
	c.ID = r.s.nextID()
	c.CreatedAt = r.s.now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, venue domain.Venue, id int64) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || c.Venue != venue {
		return nil, notFound("category", id)
	}
	return &c, nil
}

func (r *CategoryRepository) Update(_ context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.categories[c.ID]
	if !ok || old.Venue != c.Venue {
		return notFound("category", c.ID)
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = r.s.now().UTC()
	r.s.categories[c.ID] = *c
	return nil
}

// Delete removes the category and its items, moving child categories up to
// the deleted category's parent.
func (r *CategoryRepository) Delete(_ context.Context, venue domain.Venue, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || c.Venue != venue {
		return notFound("category", id)
	}
	for cid, child := range r.s.categories {
		if child.ParentID != nil && *child.ParentID == id {
			child.ParentID = c.ParentID
			r.s.categories[cid] = child
		}
	}
	for iid, it := range r.s.items {
		if it.CategoryID == id {
			r.s.deleteItemLocked(iid)
		}
	}
	for key, t := range r.s.translations {
		if t.Kind == domain.KindCategory && t.EntityID == id {
			delete(r.s.translations, key)
		}
	}
	delete(r.s.categories, id)
	return nil
}

func (r *CategoryRepository) List(_ context.Context, venue domain.Venue) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Category{}
	for _, c := range r.s.categories {
		if c.Venue == venue {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ItemRepository implements domain.ItemRepository.
type ItemRepository struct{ s *Store }

func (r *ItemRepository) Create(_ context.Context, it *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[it.CategoryID]; !ok || c.Venue != it.Venue {
		return apperrors.InvalidInput("category does not exist")
	}
	it.ID = r.s.nextID()
	it.CreatedAt = r.s.now().UTC()
	it.UpdatedAt = it.CreatedAt
	r.s.items[it.ID] = *it
	return nil
}

func (r *ItemRepository) GetByID(_ context.Context, venue domain.Venue, id int64) (*domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok || it.Venue != venue {
		return nil, notFound("item", id)
	}
	return &it, nil
}

func (r *ItemRepository) Update(_ context.Context, it *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.items[it.ID]
	if !ok || old.Venue != it.Venue {
		return notFound("item", it.ID)
	}
	it.CreatedAt = old.CreatedAt
	it.UpdatedAt = r.s.now().UTC()
	r.s.items[it.ID] = *it
	return nil
}

func (r *ItemRepository) Delete(_ context.Context, venue domain.Venue, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok || it.Venue != venue {
		return notFound("item", id)
	}
	r.s.deleteItemLocked(id)
	return nil
}

func (r *ItemRepository) List(_ context.Context, venue domain.Venue, f domain.ItemFilter) ([]domain.Item, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Item{}
	for _, it := range r.s.items {
		if it.Venue == venue && (f.CategoryID == nil || it.CategoryID == *f.CategoryID) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	total := len(out)
	if f.Limit > 0 {
		start := min(f.Offset, total)
		out = out[start:min(start+f.Limit, total)]
	}
	return out, total, nil
}

// DayPricingRepository implements domain.DayPricingRepository.
type DayPricingRepository struct{ s *Store }

func (r *DayPricingRepository) Get(_ context.Context, venue domain.Venue, itemID int64) ([]domain.DayPricingEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it, ok := r.s.items[itemID]; !ok || it.Venue != venue {
		return nil, notFound("item", itemID)
	}
	return append([]domain.DayPricingEntry(nil), r.s.schedules[itemID]...), nil
}

func (r *DayPricingRepository) Replace(_ context.Context, venue domain.Venue, itemID int64, entries []domain.DayPricingEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it, ok := r.s.items[itemID]; !ok || it.Venue != venue {
		return notFound("item", itemID)
	}
	r.s.schedules[itemID] = append([]domain.DayPricingEntry(nil), entries...)
	return nil
}

// TranslationRepository implements domain.TranslationRepository.
type TranslationRepository struct{ s *Store }

func (r *TranslationRepository) exists(venue domain.Venue, kind domain.EntityKind, id int64) bool {
	switch kind {
	case domain.KindCategory:
		c, ok := r.s.categories[id]
		return ok && c.Venue == venue
	case domain.KindItem:
		it, ok := r.s.items[id]
		return ok && it.Venue == venue
	}
	return false
}

func (r *TranslationRepository) Upsert(_ context.Context, venue domain.Venue, t domain.Translation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.exists(venue, t.Kind, t.EntityID) {
		return notFound(string(t.Kind), t.EntityID)
	}
	r.s.translations[t.Key()] = t
	return nil
}

func (r *TranslationRepository) ListForEntity(_ context.Context, venue domain.Venue, kind domain.EntityKind, id int64) ([]domain.Translation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Translation{}
	if !r.exists(venue, kind, id) {
		return out, nil
	}
	for _, t := range r.s.translations {
		if t.Kind == kind && t.EntityID == id {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LanguageCode < out[j].LanguageCode })
	return out, nil
}

func (r *TranslationRepository) Languages(_ context.Context, venue domain.Venue, kind domain.EntityKind) (map[int64][]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int64][]string)
	for _, t := range r.s.translations {
		if t.Kind == kind && t.Name != "" && r.exists(venue, kind, t.EntityID) {
			out[t.EntityID] = append(out[t.EntityID], t.LanguageCode)
		}
	}
	return out, nil
}
