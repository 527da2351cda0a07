package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/internal/service"
	"github.com/mahmoud22020/Pvdmenus/pkg/httputil"
	"github.com/mahmoud22020/Pvdmenus/pkg/pagination"
)

// ItemHandler handles HTTP requests for menu item endpoints.
type ItemHandler struct {
	menu   *service.MenuService
	logger *slog.Logger
}

// NewItemHandler creates a new item HTTP handler.
func NewItemHandler(menu *service.MenuService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{menu: menu, logger: logger}
}

// ListItems handles GET /items?category_id=&page=&per_page=
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}

	p := pagination.FromRequest(r)
	filter := domain.ItemFilter{Limit: p.PerPage, Offset: p.Offset()}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "invalid category_id: " + raw},
			})
			return
		}
		filter.CategoryID = &id
	}

	items, total, err := h.menu.ListItems(r.Context(), venue, filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(items, total, p))
}

// GetItem handles GET /items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	it, err := h.menu.GetItem(r.Context(), venue, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, it)
}

// CreateItem handles POST /items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	var in domain.ItemInput
	if !decodeBody(w, r, &in) {
		return
	}

	it, err := h.menu.CreateItem(r.Context(), venue, in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, it)
}

// UpdateItem handles PUT /items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var in domain.ItemInput
	if !decodeBody(w, r, &in) {
		return
	}

	it, err := h.menu.UpdateItem(r.Context(), venue, id, in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, it)
}

// DeleteItem handles DELETE /items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.menu.DeleteItem(r.Context(), venue, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, map[string]any{"id": id, "status": "deleted"})
}
