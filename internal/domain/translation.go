package domain

import (
	"context"
	"fmt"
)

// EntityKind says which table a translation belongs to.
type EntityKind string

const (
	KindCategory EntityKind = "category"
	KindItem     EntityKind = "item"
)

// Translation is the localized text of one category or item in one language.
// Categories have no description.
type Translation struct {
	Kind         EntityKind `json:"kind"`
	EntityID     int64      `json:"entity_id"`
	LanguageCode string     `json:"language_code"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
}

// Key identifies the translation row an upsert replaces.
func (t Translation) Key() string {
	return fmt.Sprintf("%s:%d:%s", t.Kind, t.EntityID, t.LanguageCode)
}

// TranslationRepository stores translations with upsert semantics keyed by
// entity and language.
type TranslationRepository interface {
	Upsert(ctx context.Context, venue Venue, t Translation) error
	ListForEntity(ctx context.Context, venue Venue, kind EntityKind, entityID int64) ([]Translation, error)

	// Languages returns, per entity id of the given kind, the language codes
	// that already have a translation.
	Languages(ctx context.Context, venue Venue, kind EntityKind) (map[int64][]string, error)
}

// FillReport counts the outcome of a machine-translation fill.
type FillReport struct {
	Translated int `json:"translated"`
	Failed     int `json:"failed"`
}

// Add accumulates o into r.
func (r *FillReport) Add(o FillReport) {
	r.Translated += o.Translated
	r.Failed += o.Failed
}
