package shaper

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// #region config

// Config controls one shaping pass.
type Config struct {
	MaxWords int
	Markdown bool
	Emojis   bool
	Language string
}

// DefaultConfig returns the standard chat formatting.
func DefaultConfig() Config {
	return Config{MaxWords: 200, Markdown: true, Emojis: true, Language: "en"}
}

// Shaped is the output of the pure shaping passes.
type Shaped struct {
	Text           string
	WordCount      int
	OriginalLength int
	Truncated      bool
}

// #endregion config

// #region shape

// Shape cleans, truncates and decorates raw generated text. It is pure and
// idempotent: shaping its own output with the same config changes nothing.
func Shape(raw string, cfg Config) Shaped {
	text := Clean(raw)
	text, truncated := LimitWords(text, cfg.MaxWords)
	if cfg.Markdown {
		text = ApplyMarkup(text)
	}
	if cfg.Emojis {
		text = AddEmojis(text, cfg.Language)
	}
	return Shaped{
		Text:           text,
		WordCount:      CountWords(text),
		OriginalLength: len([]rune(raw)),
		Truncated:      truncated,
	}
}

// #endregion shape

// #region clean

var (
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	hSpace      = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	bulletLead  = regexp.MustCompile(`^(?:[-*+]\s+|•\s*|–\s+)`)
	boldSpacing = regexp.MustCompile(`\*\*[ \t]*([^*\n]+?)[ \t]*\*\*`)
)

// Clean collapses whitespace, normalizes bullet markers to "- " and tidies bold markers.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(hSpace.ReplaceAllString(line, " "))
		if loc := bulletLead.FindStringIndex(line); loc != nil && loc[1] < len(line) {
			line = "- " + line[loc[1]:]
		}
		lines[i] = boldSpacing.ReplaceAllString(line, "**$1**")
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// #endregion clean

// #region words

// isWord reports whether a whitespace token carries a letter or digit.
// Markup-only tokens such as "###", "-" or an emoji are not words.
func isWord(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// CountWords counts whitespace tokens that carry a letter or digit.
func CountWords(text string) int {
	n := 0
	for _, tok := range strings.Fields(text) {
		if isWord(tok) {
			n++
		}
	}
	return n
}

type span struct{ start, end int }

func tokenSpans(text string) []span {
	var spans []span
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(text)})
	}
	return spans
}

func endsSentence(token string) bool {
	token = strings.TrimRight(token, `"')]`)
	return strings.HasSuffix(token, ".") || strings.HasSuffix(token, "!") ||
		strings.HasSuffix(token, "?") || strings.HasSuffix(token, "।")
}

// LimitWords truncates text to maxWords words. When a sentence ends at or after
// 70% of the budget the cut snaps back to it, otherwise "..." marks the cut.
func LimitWords(text string, maxWords int) (string, bool) {
	if maxWords <= 0 || CountWords(text) <= maxWords {
		return text, false
	}

	threshold := int(math.Ceil(0.7 * float64(maxWords)))
	words, cut, snap := 0, 0, -1
	for _, sp := range tokenSpans(text) {
		tok := text[sp.start:sp.end]
		if !isWord(tok) {
			continue
		}
		words++
		if endsSentence(tok) && words >= threshold {
			snap = sp.end
		}
		if words == maxWords {
			cut = sp.end
			break
		}
	}

	if snap >= 0 {
		return strings.TrimSpace(text[:snap]), true
	}
	out := strings.TrimRight(text[:cut], " \t\n,;:-.!?।")
	return out + "...", true
}

// #endregion words
