package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/internal/service"
	"github.com/mahmoud22020/Pvdmenus/pkg/httputil"
)

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	menu   *service.MenuService
	logger *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(menu *service.MenuService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{menu: menu, logger: logger}
}

// ListCategories handles GET /categories. Pass ?tree=true for the nested form.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("tree") == "true" {
		tree, err := h.menu.CategoryTree(r.Context(), venue)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteData(w, http.StatusOK, tree)
		return
	}

	list, err := h.menu.ListCategories(r.Context(), venue)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, list)
}

// GetCategory handles GET /categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	c, err := h.menu.GetCategory(r.Context(), venue, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, c)
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	var in domain.CategoryInput
	if !decodeBody(w, r, &in) {
		return
	}

	c, err := h.menu.CreateCategory(r.Context(), venue, in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, c)
}

// UpdateCategory handles PUT /categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var in domain.CategoryInput
	if !decodeBody(w, r, &in) {
		return
	}

	c, err := h.menu.UpdateCategory(r.Context(), venue, id, in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, c)
}

// DeleteCategory handles DELETE /categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.menu.DeleteCategory(r.Context(), venue, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, map[string]any{"id": id, "status": "deleted"})
}
