package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// #region log-action
// LogAction writes an entry to the action_log table.
func LogAction(ctx context.Context, db *sql.DB, entry ActionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO action_log (page, action, slot_key, summary_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.Page,
		entry.Action,
		nullIfEmpty(entry.SlotKey),
		nullIfEmpty(entry.SummaryJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log action: %w", err)
	}
	return nil
}

// #endregion log-action

// #region list-actions
// ListActions returns the newest entries first. An empty page matches all pages.
func ListActions(ctx context.Context, db *sql.DB, page string, limit int) ([]ActionEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, page, action, slot_key, summary_json, created_at
		 FROM action_log WHERE (? = '' OR page = ?) ORDER BY id DESC LIMIT ?`,
		page, page, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var out []ActionEntry
	for rows.Next() {
		var e ActionEntry
		var slotKey, summary sql.NullString
		var created string
		if err := rows.Scan(&e.ID, &e.Page, &e.Action, &slotKey, &summary, &created); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		e.SlotKey = slotKey.String
		e.SummaryJSON = summary.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list-actions

// #region recorder
// Recorder receives page actions from the presentation layers.
type Recorder interface {
	Record(ctx context.Context, page, action, slotKey string, summary any) error
}

// SQLRecorder records actions into a SQLite action_log table.
type SQLRecorder struct {
	DB *sql.DB
}

// Record marshals summary and writes one action_log row.
func (r SQLRecorder) Record(ctx context.Context, page, action, slotKey string, summary any) error {
	var summaryJSON string
	if summary != nil {
		b, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("marshal summary: %w", err)
		}
		summaryJSON = string(b)
	}
	return LogAction(ctx, r.DB, ActionEntry{
		Page:        page,
		Action:      action,
		SlotKey:     slotKey,
		SummaryJSON: summaryJSON,
	})
}

// NopRecorder drops every action. Used with non-SQL backends.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, string, string, string, any) error { return nil }

// #endregion recorder

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
