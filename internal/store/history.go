package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// #region history
// Exchange is one logged question and answer.
type Exchange struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	UserID      *int64    `json:"user_id,omitempty"`
	Query       string    `json:"query"`
	Language    string    `json:"language"`
	Response    string    `json:"response"`
	Success     bool      `json:"success"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	Confidence  float64   `json:"confidence"`
	ContextUsed string    `json:"context_used,omitempty"`
	ElapsedMS   int64     `json:"elapsed_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecentHistory returns the latest exchanges, newest first.
func (s *Store) RecentHistory(ctx context.Context, limit int) ([]Exchange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_id, query, query_language, response, success, error_kind,
		        confidence, context_used, elapsed_ms, created_at
		 FROM chat_history ORDER BY created_at DESC, id DESC LIMIT ?`, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		var (
			e                            Exchange
			userID, elapsed              sql.NullInt64
			response, errorKind, ctxUsed sql.NullString
			confidence                   sql.NullFloat64
			createdAt                    string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &userID, &e.Query, &e.Language, &response, &e.Success,
			&errorKind, &confidence, &ctxUsed, &elapsed, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if userID.Valid {
			id := userID.Int64
			e.UserID = &id
		}
		e.Response = response.String
		e.ErrorKind = errorKind.String
		e.Confidence = confidence.Float64
		e.ContextUsed = ctxUsed.String
		e.ElapsedMS = elapsed.Int64
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion history
