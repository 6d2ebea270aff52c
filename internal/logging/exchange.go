package logging

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// timeLayout keeps a fixed fraction width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region log-exchange
// LogExchange writes one chat_history row and returns its ULID.
func LogExchange(db *sql.DB, entry HistoryEntry) (string, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	id, err := newID(entry.CreatedAt)
	if err != nil {
		return "", err
	}

	var userID any
	if entry.UserID != nil {
		userID = *entry.UserID
	}
	_, err = db.Exec(
		`INSERT INTO chat_history (id, session_id, user_id, query, query_language, response, response_language,
		 success, error_kind, confidence, context_used, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		entry.SessionID,
		userID,
		entry.Query,
		entry.Language,
		nullIfEmpty(entry.Response),
		entry.Language,
		entry.Success,
		nullIfEmpty(entry.ErrorKind),
		entry.Confidence,
		nullIfEmpty(entry.ContextJSON),
		entry.Elapsed.Milliseconds(),
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("log exchange: %w", err)
	}
	return id, nil
}

// #endregion log-exchange

// #region log-context
// LogContextUsage writes one chat_context_log row.
func LogContextUsage(db *sql.DB, entry ContextLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := db.Exec(
		`INSERT INTO chat_context_log (session_id, user_query, context_used, response_generated, category_matched, confidence_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.SessionID),
		entry.Query,
		nullIfEmpty(entry.ContextJSON),
		entry.ResponseGenerated,
		nullIfEmpty(entry.CategoryMatched),
		entry.Confidence,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("log context usage: %w", err)
	}
	return nil
}

// #endregion log-context

// #region helpers
func newID(at time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(at), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return "", fmt.Errorf("new ulid: %w", err)
	}
	return id.String(), nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
