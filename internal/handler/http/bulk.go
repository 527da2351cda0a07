package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
	"github.com/mahmoud22020/Pvdmenus/internal/service"
	"github.com/mahmoud22020/Pvdmenus/internal/sheet"
	"github.com/mahmoud22020/Pvdmenus/pkg/httputil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BulkHandler accepts spreadsheet batches.
type BulkHandler struct {
	bulk      *service.BulkService
	maxUpload int64
	logger    *slog.Logger
}

// NewBulkHandler creates a bulk handler accepting uploads up to maxUpload bytes.
func NewBulkHandler(bulk *service.BulkService, maxUpload int64, logger *slog.Logger) *BulkHandler {
	return &BulkHandler{bulk: bulk, maxUpload: maxUpload, logger: logger}
}

// BulkRequest is the JSON form of a batch: rows already decoded by the client.
type BulkRequest struct {
	Rows []bulk.Row `json:"rows"`
}

// BulkCategories handles POST /bulk/categories
func (h *BulkHandler) BulkCategories(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, service.KindCategories)
}

// BulkItems handles POST /bulk/items
func (h *BulkHandler) BulkItems(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, service.KindItems)
}

func (h *BulkHandler) run(w http.ResponseWriter, r *http.Request, kind string) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	rows, err := h.rows(r, kind)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteJSON(w, http.StatusRequestEntityTooLarge, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "PAYLOAD_TOO_LARGE", Message: "upload exceeds the size limit"},
			})
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, err := h.bulk.Run(r.Context(), venue, kind, rows)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

// rows reads the batch from a multipart "file" upload or a JSON body.
func (h *BulkHandler) rows(r *http.Request, kind string) ([]bulk.Row, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req BulkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, err
			}
			return nil, badRequest("invalid request body: " + err.Error())
		}
		return req.Rows, nil
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, badRequest("multipart field \"file\" is required")
	}
	defer file.Close()

	wb, err := sheet.Decode(file)
	if err != nil {
		return nil, err
	}
	rows := wb.Categories
	if kind == service.KindItems {
		rows = wb.Items
	}
	if rows == nil {
		return nil, badRequest("workbook has no " + kind + " sheet")
	}
	return rows, nil
}

// Template handles GET /api/v1/bulk/template
func (h *BulkHandler) Template(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := sheet.WriteTemplate(&buf); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="bulk-template.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
