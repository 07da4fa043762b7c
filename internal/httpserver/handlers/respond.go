package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"exportdesk/internal/apperrors"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func respondStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondError maps a taxonomy error to its HTTP status. Anything outside
// the taxonomy is logged and hidden behind a generic 500.
func respondError(w http.ResponseWriter, lg *zap.SugaredLogger, err error) {
	code := apperrors.CodeOf(err)
	status := apperrors.StatusOf(err)
	msg := err.Error()
	if code == apperrors.CodeInternal {
		lg.Errorw("internal error", "error", err)
		msg = "internal error"
	}
	respondStatus(w, status, map[string]any{"code": code, "error": msg})
}

// decodeValid decodes the request body into dst and runs its validate tags.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, "malformed request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, "invalid request body", err)
	}
	return nil
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Newf(apperrors.CodeValidation, "invalid id %q", raw)
	}
	return uint(id), nil
}
