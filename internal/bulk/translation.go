package bulk

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
)

// translationSource is the text of a freshly written entity plus any
// translations the manager typed into the row.
type translationSource struct {
	kind        domain.EntityKind
	id          int64
	name        string
	description string
	row         Row
}

// nameColumn and descriptionColumn are the optional manager-supplied
// translation columns, e.g. "Name (AR)".
func nameColumn(lang string) string        { return fmt.Sprintf("Name (%s)", strings.ToUpper(lang)) }
func descriptionColumn(lang string) string { return fmt.Sprintf("Description (%s)", strings.ToUpper(lang)) }

func (e *Engine) hasProvidedTranslations(r Row) bool {
	for _, lang := range e.cfg.Languages {
		if !IsBlank(r.Get(nameColumn(lang))) || !IsBlank(r.Get(descriptionColumn(lang))) {
			return true
		}
	}
	return false
}

// syncTranslations writes one translation per target language, in parallel.
// Manager text wins; blanks are machine-translated when enabled; a failed
// machine translation leaves that field empty. It returns one CascadeError per
// language whose upsert failed.
func (e *Engine) syncTranslations(ctx context.Context, src translationSource) []error {
	errs := make([]error, len(e.cfg.Languages))
	var g errgroup.Group
	for i, lang := range e.cfg.Languages {
		g.Go(func() error {
			errs[i] = e.syncLanguage(ctx, src, lang)
			return nil
		})
	}
	_ = g.Wait()

	out := errs[:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

func (e *Engine) syncLanguage(ctx context.Context, src translationSource, lang string) error {
	name := e.fill(ctx, src.row.Get(nameColumn(lang)), src.name, lang)

	var desc string
	if src.kind == domain.KindItem {
		desc = e.fill(ctx, src.row.Get(descriptionColumn(lang)), src.description, lang)
	}
	if name == "" && desc == "" {
		return nil
	}

	t := domain.Translation{Kind: src.kind, EntityID: src.id, LanguageCode: lang, Name: name}
	if desc != "" {
		t.Description = &desc
	}
	if err := e.ports.Translations.UpsertTranslation(ctx, t); err != nil {
		return &CascadeError{Step: fmt.Sprintf("Translation (%s)", lang), Err: err}
	}
	return nil
}

func (e *Engine) fill(ctx context.Context, provided any, source, lang string) string {
	if s := Text(provided); s != "" {
		return s
	}
	if source == "" || !e.cfg.AutoTranslate || e.ports.Translator == nil {
		return ""
	}
	out, err := e.ports.Translator.Translate(ctx, source, lang)
	if err != nil {
		e.logger.WarnContext(ctx, "machine translation failed",
			slog.String("lang", lang),
			slog.String("error", err.Error()),
		)
		return ""
	}
	return strings.TrimSpace(out)
}
