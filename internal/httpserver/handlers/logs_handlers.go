package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/audit"
	"exportdesk/internal/models"
)

// Logs returns recent audit entries, newest first. With ?table= and
// ?record_id= it returns the history of one record; the table must be on
// the auditable allow-list.
func Logs(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := audit.NewQuery(db)
		table := r.URL.Query().Get("table")
		rawID := r.URL.Query().Get("record_id")

		var logs []models.Log
		var err error
		switch {
		case table == "" && rawID == "":
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			logs, err = q.List(limit)
		case table != "" && rawID != "":
			var id uint64
			id, err = strconv.ParseUint(rawID, 10, 64)
			if err != nil {
				respondError(w, lg, apperrors.Newf(apperrors.CodeValidation, "invalid record_id %q", rawID))
				return
			}
			logs, err = q.ForRecord(table, uint(id))
		default:
			respondError(w, lg, apperrors.New(apperrors.CodeValidation, "table and record_id must be given together"))
			return
		}
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, logs)
	}
}
