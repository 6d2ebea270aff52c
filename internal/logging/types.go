package logging

import "time"

// #region history-entry
// HistoryEntry is one answered (or failed) question written to chat_history.
type HistoryEntry struct {
	SessionID   string
	UserID      *int64
	Query       string
	Language    string
	Response    string
	Success     bool
	ErrorKind   string
	Confidence  float64
	ContextJSON string
	Elapsed     time.Duration
	CreatedAt   time.Time
}

// #endregion history-entry

// #region context-entry
// ContextLogEntry records which knowledge fed an answer, for chat_context_log.
type ContextLogEntry struct {
	SessionID         string
	Query             string
	ContextJSON       string
	ResponseGenerated bool
	CategoryMatched   string // comma-separated category names
	Confidence        float64
	CreatedAt         time.Time
}

// #endregion context-entry
