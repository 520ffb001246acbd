package logging

import "time"

// #region action-entry
// ActionEntry is a single row in the action_log table: one page transition
// (calculate, round, generate, run, reset, export) and a JSON summary of its
// outcome.
type ActionEntry struct {
	ID          int64
	Page        string
	Action      string
	SlotKey     string
	SummaryJSON string
	CreatedAt   time.Time
}

// #endregion action-entry
