package postgres

import (
	"context"
	"fmt"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/pkg/database"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// translationTable describes where one entity kind keeps its translations.
type translationTable struct {
	table       string
	entityTable string
	fk          string
	hasDesc     bool
}

var translationTables = map[domain.EntityKind]translationTable{
	domain.KindCategory: {table: "category_translations", entityTable: "categories", fk: "category_id"},
	domain.KindItem:     {table: "item_translations", entityTable: "menu_items", fk: "item_id", hasDesc: true},
}

func tableFor(kind domain.EntityKind) (translationTable, error) {
	t, ok := translationTables[kind]
	if !ok {
		return translationTable{}, apperrors.InvalidInput(fmt.Sprintf("unknown translation kind %q", kind))
	}
	return t, nil
}

// TranslationRepository implements domain.TranslationRepository.
type TranslationRepository struct {
	pool database.DBTX
}

// NewTranslationRepository creates a PostgreSQL-backed translation repository.
func NewTranslationRepository(pool database.DBTX) *TranslationRepository {
	return &TranslationRepository{pool: pool}
}

// Upsert inserts or replaces the translation for (entity, language). The entity
// must belong to venue.
func (r *TranslationRepository) Upsert(ctx context.Context, venue domain.Venue, t domain.Translation) (err error) {
	tt, err := tableFor(t.Kind)
	if err != nil {
		return err
	}

	var query string
	args := []any{t.EntityID, t.LanguageCode, t.Name, venue}
	if tt.hasDesc {
		query = fmt.Sprintf(`
			INSERT INTO %[1]s (%[2]s, language_code, name, description)
			SELECT $1, $2, $3, $5 FROM %[3]s WHERE id = $1 AND venue = $4
			ON CONFLICT (%[2]s, language_code)
			DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, updated_at = NOW()`,
			tt.table, tt.fk, tt.entityTable)
		args = append(args, t.Description)
	} else {
		query = fmt.Sprintf(`
			INSERT INTO %[1]s (%[2]s, language_code, name)
			SELECT $1, $2, $3 FROM %[3]s WHERE id = $1 AND venue = $4
			ON CONFLICT (%[2]s, language_code)
			DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()`,
			tt.table, tt.fk, tt.entityTable)
	}

	ctx, end := database.TraceQuery(ctx, "UpsertTranslation", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("upsert %s translation: %w", t.Kind, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound(string(t.Kind), fmt.Sprint(t.EntityID))
	}
	return nil
}

// ListForEntity returns every stored translation of one entity.
func (r *TranslationRepository) ListForEntity(ctx context.Context, venue domain.Venue, kind domain.EntityKind, entityID int64) (out []domain.Translation, err error) {
	tt, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	desc := "NULL::text"
	if tt.hasDesc {
		desc = "t.description"
	}
	query := fmt.Sprintf(`
		SELECT t.language_code, t.name, %s
		FROM %s t
		JOIN %s e ON e.id = t.%s
		WHERE e.venue = $1 AND t.%s = $2
		ORDER BY t.language_code`, desc, tt.table, tt.entityTable, tt.fk, tt.fk)

	ctx, end := database.TraceQuery(ctx, "ListTranslations", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, venue, entityID)
	if err != nil {
		return nil, fmt.Errorf("list %s translations: %w", kind, err)
	}
	defer rows.Close()

	out = []domain.Translation{}
	for rows.Next() {
		tr := domain.Translation{Kind: kind, EntityID: entityID}
		if err = rows.Scan(&tr.LanguageCode, &tr.Name, &tr.Description); err != nil {
			return nil, fmt.Errorf("scan translation row: %w", err)
		}
		out = append(out, tr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translation rows: %w", err)
	}
	return out, nil
}

// Languages maps each translated entity of venue to its stored language codes.
func (r *TranslationRepository) Languages(ctx context.Context, venue domain.Venue, kind domain.EntityKind) (out map[int64][]string, err error) {
	tt, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT t.%s, t.language_code
		FROM %s t
		JOIN %s e ON e.id = t.%s
		WHERE e.venue = $1 AND t.name <> ''`, tt.fk, tt.table, tt.entityTable, tt.fk)

	ctx, end := database.TraceQuery(ctx, "TranslationLanguages", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, venue)
	if err != nil {
		return nil, fmt.Errorf("list %s translation languages: %w", kind, err)
	}
	defer rows.Close()

	out = map[int64][]string{}
	for rows.Next() {
		var (
			id   int64
			lang string
		)
		if err = rows.Scan(&id, &lang); err != nil {
			return nil, fmt.Errorf("scan translation language row: %w", err)
		}
		out[id] = append(out[id], lang)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translation language rows: %w", err)
	}
	return out, nil
}
