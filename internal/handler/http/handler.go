// Package http exposes the menu admin API.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
	"github.com/mahmoud22020/Pvdmenus/pkg/httputil"
	"github.com/mahmoud22020/Pvdmenus/pkg/validator"
)

// venueParam reads {venue}. Unknown venues get a 400.
func venueParam(w http.ResponseWriter, r *http.Request) (domain.Venue, bool) {
	v, err := domain.ParseVenue(chi.URLParam(r, "venue"))
	if err != nil {
		httputil.WriteError(w, r, err, nil)
		return "", false
	}
	return v, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return false
	}
	return true
}

// writeError answers field validation failures with their field list and
// everything else through httputil.WriteError.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		httputil.WriteValidationError(w, err)
		return
	}
	httputil.WriteError(w, r, err, logger)
}

func badRequest(msg string) error {
	return apperrors.InvalidInput(msg)
}
