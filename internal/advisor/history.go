package advisor

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/agri-advisor/internal/knowledge"
	"github.com/danielpatrickdp/agri-advisor/internal/logging"
	"github.com/danielpatrickdp/agri-advisor/internal/profile"
	"github.com/danielpatrickdp/agri-advisor/internal/prompt"
)

// #region record
// record logs the exchange and its context usage. Logging failures never
// reach the caller.
func (a *Advisor) record(req Request, pres profile.Result, kres knowledge.Result, resp Response) {
	if a.db == nil {
		return
	}

	var contextJSON string
	if resp.ContextUsed != nil {
		if b, err := json.Marshal(resp.ContextUsed); err == nil {
			contextJSON = string(b)
		}
	}
	var userID *int64
	if pres.User != nil {
		id := pres.User.ID
		userID = &id
	}
	entry := logging.HistoryEntry{
		SessionID:   resp.SessionID,
		UserID:      userID,
		Query:       req.Query,
		Language:    prompt.Normalize(req.Language),
		Success:     resp.Success,
		ErrorKind:   resp.ErrorKind,
		Confidence:  resp.Confidence,
		ContextJSON: contextJSON,
		Elapsed:     resp.Elapsed,
	}
	if resp.Success {
		entry.Response = resp.Text
	}
	if _, err := logging.LogExchange(a.db, entry); err != nil {
		a.log.Warn("[ADVISOR] history log failed", zap.String("session", resp.SessionID), zap.Error(err))
	}

	if err := logging.LogContextUsage(a.db, logging.ContextLogEntry{
		SessionID:         resp.SessionID,
		Query:             req.Query,
		ContextJSON:       contextJSON,
		ResponseGenerated: resp.Success,
		CategoryMatched:   strings.Join(kres.MatchedCategories, ","),
		Confidence:        kres.Confidence,
	}); err != nil {
		a.log.Warn("[ADVISOR] context log failed", zap.String("session", resp.SessionID), zap.Error(err))
	}
}

// #endregion record
