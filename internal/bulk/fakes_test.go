package bulk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// memStore is an in-memory implementation of every write port.
type memStore struct {
	mu           sync.Mutex
	nextID       int64
	categories   map[int64]domain.Category
	items        map[int64]domain.Item
	schedules    map[int64][]domain.DayPricingEntry
	translations map[string]domain.Translation

	failCategoryNames map[string]error
	failSchedule      error
	failUpsertLang    map[string]error
	calls             []string
}

func newMemStore() *memStore {
	return &memStore{
		nextID:            100,
		categories:        map[int64]domain.Category{},
		items:             map[int64]domain.Item{},
		schedules:         map[int64][]domain.DayPricingEntry{},
		translations:      map[string]domain.Translation{},
		failCategoryNames: map[string]error{},
		failUpsertLang:    map[string]error{},
	}
}

func (m *memStore) record(format string, args ...any) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *memStore) CreateCategory(_ context.Context, in domain.CategoryInput) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("create category %s", in.Name)
	if err := m.failCategoryNames[in.Name]; err != nil {
		return nil, err
	}
	m.nextID++
	c := domain.Category{ID: m.nextID}
	in.Apply(&c)
	m.categories[c.ID] = c
	return &c, nil
}

func (m *memStore) UpdateCategory(_ context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("update category %d", id)
	c, ok := m.categories[id]
	if !ok {
		return nil, apperrors.NotFound("category", fmt.Sprint(id))
	}
	in.Apply(&c)
	m.categories[id] = c
	return &c, nil
}

func (m *memStore) DeleteCategory(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("delete category %d", id)
	if _, ok := m.categories[id]; !ok {
		return apperrors.NotFound("category", fmt.Sprint(id))
	}
	delete(m.categories, id)
	for itemID, it := range m.items {
		if it.CategoryID == id {
			delete(m.items, itemID)
		}
	}
	return nil
}

func (m *memStore) CreateItem(_ context.Context, in domain.ItemInput) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("create item %s", in.Name)
	m.nextID++
	it := domain.Item{ID: m.nextID}
	in.Apply(&it)
	m.items[it.ID] = it
	return &it, nil
}

func (m *memStore) UpdateItem(_ context.Context, id int64, in domain.ItemInput) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("update item %d", id)
	it, ok := m.items[id]
	if !ok {
		return nil, apperrors.NotFound("item", fmt.Sprint(id))
	}
	in.Apply(&it)
	m.items[id] = it
	return &it, nil
}

func (m *memStore) DeleteItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("delete item %d", id)
	delete(m.items, id)
	return nil
}

func (m *memStore) PutSchedule(_ context.Context, itemID int64, entries []domain.DayPricingEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("put schedule %d", itemID)
	if m.failSchedule != nil {
		return m.failSchedule
	}
	m.schedules[itemID] = entries
	return nil
}

func (m *memStore) UpsertTranslation(_ context.Context, t domain.Translation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failUpsertLang[t.LanguageCode]; err != nil {
		return err
	}
	m.translations[t.Key()] = t
	return nil
}

func (m *memStore) translation(kind domain.EntityKind, id int64, lang string) (domain.Translation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.translations[domain.Translation{Kind: kind, EntityID: id, LanguageCode: lang}.Key()]
	return t, ok
}

// fakeTranslator prefixes text with the language, failing for languages in fail.
type fakeTranslator struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[lang] {
		return "", errors.New("quota exceeded")
	}
	return "[" + lang + "] " + text, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (m *memStore) ports(tr Translator) Ports {
	return Ports{Categories: m, Items: m, DayPricing: m, Translations: m, Translator: tr}
}

func row(n int, values map[string]any) Row {
	return Row{Number: n, Values: values}
}
