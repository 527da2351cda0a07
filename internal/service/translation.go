package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// Translator machine-translates text into lang.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}

// TranslationService manages stored translations and the fill job that
// machine-translates whatever is missing.
type TranslationService struct {
	repo       domain.TranslationRepository
	categories domain.CategoryRepository
	items      domain.ItemRepository
	translator Translator
	languages  []string
	delay      time.Duration
	logger     *slog.Logger
}

// NewTranslationService creates a translation service for the given target
// languages. delay is slept between provider calls during fills.
func NewTranslationService(
	repo domain.TranslationRepository,
	categories domain.CategoryRepository,
	items domain.ItemRepository,
	translator Translator,
	languages []string,
	delay time.Duration,
	logger *slog.Logger,
) *TranslationService {
	return &TranslationService{
		repo:       repo,
		categories: categories,
		items:      items,
		translator: translator,
		languages:  languages,
		delay:      delay,
		logger:     logger,
	}
}

// Languages returns the configured target languages.
func (s *TranslationService) Languages() []string { return s.languages }

// List returns the stored translations of one entity.
func (s *TranslationService) List(ctx context.Context, venue domain.Venue, kind domain.EntityKind, id int64) ([]domain.Translation, error) {
	out, err := s.repo.ListForEntity(ctx, venue, kind, id)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return out, nil
}

// Upsert stores a manager-edited translation.
func (s *TranslationService) Upsert(ctx context.Context, venue domain.Venue, t domain.Translation) error {
	t.LanguageCode = strings.ToLower(strings.TrimSpace(t.LanguageCode))
	t.Name = strings.TrimSpace(t.Name)
	if !slices.Contains(s.languages, t.LanguageCode) {
		return apperrors.InvalidInput(fmt.Sprintf("unsupported language %q", t.LanguageCode))
	}
	if t.EntityID <= 0 {
		return apperrors.InvalidInput("entity id is required")
	}
	if t.Kind == domain.KindCategory {
		t.Description = nil
	}
	if err := s.repo.Upsert(ctx, venue, t); err != nil {
		return fmt.Errorf("upsert translation: %w", err)
	}
	return nil
}

// FillMissing machine-translates every category and item of venue lacking a
// translation in a target language. Provider failures are counted and skipped.
func (s *TranslationService) FillMissing(ctx context.Context, venue domain.Venue) (domain.FillReport, error) {
	var report domain.FillReport

	categories, err := s.categories.List(ctx, venue)
	if err != nil {
		return report, fmt.Errorf("list categories: %w", err)
	}
	have, err := s.repo.Languages(ctx, venue, domain.KindCategory)
	if err != nil {
		return report, fmt.Errorf("list category translations: %w", err)
	}
	for _, c := range categories {
		r, err := s.fill(ctx, venue, domain.KindCategory, c.ID, c.Name, "", have[c.ID])
		report.Add(r)
		if err != nil {
			return report, err
		}
	}

	items, _, err := s.items.List(ctx, venue, domain.ItemFilter{})
	if err != nil {
		return report, fmt.Errorf("list items: %w", err)
	}
	have, err = s.repo.Languages(ctx, venue, domain.KindItem)
	if err != nil {
		return report, fmt.Errorf("list item translations: %w", err)
	}
	for _, it := range items {
		r, err := s.fill(ctx, venue, domain.KindItem, it.ID, it.Name, deref(it.Description), have[it.ID])
		report.Add(r)
		if err != nil {
			return report, err
		}
	}

	s.logger.InfoContext(ctx, "translation fill finished",
		slog.String("venue", venue.String()),
		slog.Int("translated", report.Translated),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

// FillEntity machine-translates one entity into every language it lacks.
func (s *TranslationService) FillEntity(ctx context.Context, venue domain.Venue, kind domain.EntityKind, id int64) (domain.FillReport, error) {
	var name, desc string
	switch kind {
	case domain.KindCategory:
		c, err := s.categories.GetByID(ctx, venue, id)
		if err != nil {
			return domain.FillReport{}, fmt.Errorf("get category: %w", err)
		}
		name = c.Name
	case domain.KindItem:
		it, err := s.items.GetByID(ctx, venue, id)
		if err != nil {
			return domain.FillReport{}, fmt.Errorf("get item: %w", err)
		}
		name, desc = it.Name, deref(it.Description)
	default:
		return domain.FillReport{}, apperrors.InvalidInput(fmt.Sprintf("unknown translation kind %q", kind))
	}

	existing, err := s.repo.ListForEntity(ctx, venue, kind, id)
	if err != nil {
		return domain.FillReport{}, fmt.Errorf("list translations: %w", err)
	}
	var have []string
	for _, t := range existing {
		if t.Name != "" {
			have = append(have, t.LanguageCode)
		}
	}
	return s.fill(ctx, venue, kind, id, name, desc, have)
}

// fill translates one entity into each target language missing from have. Only
// context cancellation and store failures are returned as errors.
func (s *TranslationService) fill(ctx context.Context, venue domain.Venue, kind domain.EntityKind, id int64, name, desc string, have []string) (domain.FillReport, error) {
	var report domain.FillReport
	for _, lang := range s.languages {
		if slices.Contains(have, lang) || strings.TrimSpace(name) == "" {
			continue
		}

		t := domain.Translation{Kind: kind, EntityID: id, LanguageCode: lang}
		translated, err := s.translate(ctx, name, lang)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Failed++
			s.logger.WarnContext(ctx, "translation failed",
				slog.String("kind", string(kind)),
				slog.Int64("entity_id", id),
				slog.String("lang", lang),
				slog.String("error", err.Error()),
			)
			continue
		}
		t.Name = translated

		if kind == domain.KindItem && strings.TrimSpace(desc) != "" {
			if d, err := s.translate(ctx, desc, lang); err == nil {
				t.Description = &d
			} else if ctx.Err() != nil {
				return report, ctx.Err()
			}
		}

		if err := s.repo.Upsert(ctx, venue, t); err != nil {
			return report, fmt.Errorf("store %s %d translation (%s): %w", kind, id, lang, err)
		}
		report.Translated++
	}
	return report, nil
}

// translate calls the provider and then waits out the configured delay.
func (s *TranslationService) translate(ctx context.Context, text, lang string) (string, error) {
	out, err := s.translator.Translate(ctx, text, lang)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return out, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
