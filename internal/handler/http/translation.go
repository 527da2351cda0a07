package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/internal/service"
	"github.com/mahmoud22020/Pvdmenus/pkg/httputil"
)

// TranslationHandler serves stored translations and the fill job.
type TranslationHandler struct {
	translations *service.TranslationService
	logger       *slog.Logger
}

// NewTranslationHandler creates a new translation HTTP handler.
func NewTranslationHandler(translations *service.TranslationService, logger *slog.Logger) *TranslationHandler {
	return &TranslationHandler{translations: translations, logger: logger}
}

// CategoryTranslationRequest is the JSON body of PUT /translations/categories.
type CategoryTranslationRequest struct {
	CategoryID   int64  `json:"category_id"`
	LanguageCode string `json:"language_code"`
	Name         string `json:"name"`
}

// ItemTranslationRequest is the JSON body of PUT /translations/items.
type ItemTranslationRequest struct {
	ItemID       int64   `json:"item_id"`
	LanguageCode string  `json:"language_code"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
}

// ListCategoryTranslations handles GET /translations/categories/{id}
func (h *TranslationHandler) ListCategoryTranslations(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.KindCategory)
}

// ListItemTranslations handles GET /translations/items/{id}
func (h *TranslationHandler) ListItemTranslations(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.KindItem)
}

func (h *TranslationHandler) list(w http.ResponseWriter, r *http.Request, kind domain.EntityKind) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	list, err := h.translations.List(r.Context(), venue, kind, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, list)
}

// PutCategoryTranslation handles PUT /translations/categories
func (h *TranslationHandler) PutCategoryTranslation(w http.ResponseWriter, r *http.Request) {
	var req CategoryTranslationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.upsert(w, r, domain.Translation{
		Kind:         domain.KindCategory,
		EntityID:     req.CategoryID,
		LanguageCode: req.LanguageCode,
		Name:         req.Name,
	})
}

// PutItemTranslation handles PUT /translations/items
func (h *TranslationHandler) PutItemTranslation(w http.ResponseWriter, r *http.Request) {
	var req ItemTranslationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.upsert(w, r, domain.Translation{
		Kind:         domain.KindItem,
		EntityID:     req.ItemID,
		LanguageCode: req.LanguageCode,
		Name:         req.Name,
		Description:  req.Description,
	})
}

func (h *TranslationHandler) upsert(w http.ResponseWriter, r *http.Request, t domain.Translation) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	if err := h.translations.Upsert(r.Context(), venue, t); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, map[string]string{"status": "saved"})
}

// FillTranslations handles POST /translations/fill, machine-translating every
// missing name and description of the venue.
func (h *TranslationHandler) FillTranslations(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}

	report, err := h.translations.FillMissing(r.Context(), venue)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, report)
}
