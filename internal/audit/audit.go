// Package audit writes and queries the append-only mutation ledger.
package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/models"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Tables whose entries the query surface may be filtered by. Anything else
// is rejected rather than silently returning an empty result.
var filterableTables = map[string]struct{}{
	"general_data":     {},
	"export_contracts": {},
}

// Record appends one ledger row inside the caller's transaction, so the
// mutation and its log entry commit or roll back together. For creates pass
// newSnap only, for deletes oldSnap only, for updates both; the update
// detail is stored as {"old": ..., "new": ...}.
func Record(tx *gorm.DB, actorID uint, action, table string, recordID uint, oldSnap, newSnap any) error {
	var detail any
	switch action {
	case ActionCreate:
		detail = newSnap
	case ActionDelete:
		detail = oldSnap
	case ActionUpdate:
		detail = map[string]any{"old": oldSnap, "new": newSnap}
	default:
		return apperrors.Newf(apperrors.CodeValidation, "unknown audit action %q", action)
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	entry := models.Log{
		UserID:    actorID,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		Detail:    models.JSONB(raw),
	}
	return tx.Create(&entry).Error
}

type Query struct {
	db *gorm.DB
}

func NewQuery(db *gorm.DB) *Query { return &Query{db: db} }

// List returns the most recent entries, newest first.
func (q *Query) List(limit int) ([]models.Log, error) {
	if limit <= 0 {
		limit = 200
	}
	var logs []models.Log
	err := q.db.Order("created_at desc, id desc").Limit(limit).Find(&logs).Error
	return logs, err
}

// ForRecord returns the history of one record, newest first. The table must
// be on the filterable allow-list.
func (q *Query) ForRecord(table string, recordID uint) ([]models.Log, error) {
	if _, ok := filterableTables[table]; !ok {
		return nil, apperrors.ErrInvalidTableName
	}
	var logs []models.Log
	err := q.db.Where("table_name = ? AND record_id = ?", table, recordID).
		Order("created_at desc, id desc").Find(&logs).Error
	return logs, err
}
