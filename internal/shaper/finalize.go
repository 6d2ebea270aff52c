package shaper

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

// #region constants

const (
	maxRepairs      = 1 // hard bound, never a loop
	verifiedNudge   = 0.05
	maxConfidence   = 1.0
	repairLogPrefix = "[SHAPER]"
)

// #endregion constants

// #region types

// Repairer rewrites text into the target language.
type Repairer interface {
	Translate(ctx context.Context, text, language string) (string, error)
}

// Response is the final answer handed back to the caller.
type Response struct {
	Text             string  `json:"text"`
	HTML             string  `json:"html,omitempty"`
	WordCount        int     `json:"word_count"`
	LanguageVerified bool    `json:"language_verified"`
	RepairAttempted  bool    `json:"repair_attempted"`
	Confidence       float64 `json:"confidence"`
	Stats            Stats   `json:"stats"`
}

// Shaper runs the shaping passes plus at most one language repair.
type Shaper struct {
	repairer Repairer
	log      *zap.Logger
}

// New creates a Shaper. A nil repairer disables language repair.
func New(repairer Repairer, log *zap.Logger) *Shaper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shaper{repairer: repairer, log: log}
}

// #endregion types

// #region finalize

// Finalize shapes raw text, checks its language and repairs it at most once.
// If the repair fails or leaves the text unchanged the original is kept and
// LanguageVerified is false.
func (s *Shaper) Finalize(ctx context.Context, raw string, cfg Config, confidence float64) Response {
	shaped := Shape(raw, cfg)
	verified := Verify(shaped.Text, cfg.Language)

	resp := Response{}
	if !verified && !IsEnglish(cfg.Language) && s.repairer != nil {
		for attempt := 0; attempt < maxRepairs; attempt++ {
			resp.RepairAttempted = true
			translated, err := s.repairer.Translate(ctx, shaped.Text, cfg.Language)
			if err != nil {
				s.log.Warn(repairLogPrefix+" language repair failed",
					zap.String("language", cfg.Language), zap.Error(err))
				break
			}
			repaired := Shape(translated, cfg)
			if strings.TrimSpace(translated) == "" || repaired.Text == shaped.Text {
				s.log.Info(repairLogPrefix+" language repair left text unchanged",
					zap.String("language", cfg.Language))
				break
			}
			shaped = repaired
			verified = true
		}
	}

	resp.Text = shaped.Text
	resp.WordCount = shaped.WordCount
	resp.LanguageVerified = verified
	resp.Stats = ComputeStats(shaped.Text)
	resp.Confidence = clampConfidence(confidence)
	if verified {
		resp.Confidence = math.Min(maxConfidence, resp.Confidence+verifiedNudge)
	}
	if cfg.Markdown {
		html, err := RenderHTML(shaped.Text)
		if err != nil {
			s.log.Warn(repairLogPrefix+" html render failed", zap.Error(err))
		} else {
			resp.HTML = html
		}
	}
	return resp
}

func clampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	return math.Min(c, maxConfidence)
}

// #endregion finalize

// #region html

// RenderHTML converts shaped markdown to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// #endregion html

// #region stats

// Stats summarizes a response.
type Stats struct {
	Words      int `json:"words"`
	Characters int `json:"characters"`
	Sentences  int `json:"sentences"`
	Paragraphs int `json:"paragraphs"`
}

var (
	sentenceSplit  = regexp.MustCompile(`[.!?।]+`)
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
)

// ComputeStats counts words, characters, sentences and paragraphs.
func ComputeStats(text string) Stats {
	return Stats{
		Words:      CountWords(text),
		Characters: len([]rune(text)),
		Sentences:  countNonBlank(sentenceSplit.Split(text, -1)),
		Paragraphs: countNonBlank(paragraphSplit.Split(text, -1)),
	}
}

func countNonBlank(parts []string) int {
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// #endregion stats
