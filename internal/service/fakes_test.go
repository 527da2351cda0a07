package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/internal/event"
	"github.com/mahmoud22020/Pvdmenus/internal/repository/memory"
	pkgkafka "github.com/mahmoud22020/Pvdmenus/pkg/kafka"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingSchedules rejects every write.
type failingSchedules struct {
	domain.DayPricingRepository
	err error
}

func (f failingSchedules) Replace(context.Context, domain.Venue, int64, []domain.DayPricingEntry) error {
	return f.err
}

// --- mocks ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.AdminUser) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *mockUserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*pkgkafka.Event
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, e *pkgkafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, e)
	return nil
}

// echoTranslator returns "<lang>:<text>", failing for languages in fail.
type echoTranslator struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls int
}

func (e *echoTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.fail[lang] {
		return "", errors.New("provider unavailable")
	}
	return lang + ":" + text, nil
}

// fixture wires every service over one in-memory store.
type fixture struct {
	store      *memory.Store
	publisher  *recordingPublisher
	menu       *MenuService
	dayPricing *DayPricingService
}

func newFixture() *fixture {
	f := &fixture{store: memory.NewStore(), publisher: &recordingPublisher{}}
	logger := newTestLogger()
	f.menu = NewMenuService(f.store.Categories(), f.store.Items(), event.NewProducer(f.publisher, logger), logger)
	f.dayPricing = NewDayPricingService(f.store.Items(), f.store.DayPricing(), logger)
	return f
}

func (f *fixture) translationService(tr Translator, languages ...string) *TranslationService {
	return NewTranslationService(f.store.Translations(), f.store.Categories(), f.store.Items(), tr, languages, 0, newTestLogger())
}

func (f *fixture) bulkService(tr Translator, cfg bulk.Config) *BulkService {
	var bt bulk.Translator
	if tr != nil {
		bt = tr
	}
	return NewBulkService(f.menu, f.dayPricing, f.store.Translations(), bt, event.NewProducer(f.publisher, newTestLogger()), cfg, newTestLogger())
}

func (f *fixture) schedule(t *testing.T, venue domain.Venue, itemID int64) []domain.DayPricingEntry {
	t.Helper()
	entries, err := f.store.DayPricing().Get(context.Background(), venue, itemID)
	require.NoError(t, err)
	return entries
}

func (f *fixture) translation(t *testing.T, venue domain.Venue, kind domain.EntityKind, id int64, lang string) (domain.Translation, bool) {
	t.Helper()
	list, err := f.store.Translations().ListForEntity(context.Background(), venue, kind, id)
	require.NoError(t, err)
	for _, tr := range list {
		if tr.LanguageCode == lang {
			return tr, true
		}
	}
	return domain.Translation{}, false
}

func strPtr(s string) *string { return &s }
