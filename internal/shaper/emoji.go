package shaper

import "strings"

// #region table

type topicEmoji struct {
	keyword string
	emoji   string
}

// topicEmojis is checked in order; the first keyword found in a header wins.
var topicEmojis = []topicEmoji{
	{"crop", "🌱"},
	{"soil", "🌍"},
	{"irrigation", "💧"},
	{"fertilizer", "🌿"},
	{"weather", "🌤️"},
	{"recommendation", "💡"},
	{"warning", "⚠️"},
	{"tip", "💡"},
}

// localized decorates culturally specific words per language.
var localized = map[string][][2]string{
	"hi": {{"भारत", "🇮🇳"}, {"किसान", "👨‍🌾"}},
}

// #endregion table

// #region emojis

// AddEmojis prefixes header lines with a topic emoji. A header is a "#" line or
// a short title line ending with a colon. Lines that already carry an emoji are
// left alone, so the pass can be re-applied safely.
func AddEmojis(text, language string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		prefix, title, ok := headerParts(line)
		if !ok || hasTopicEmoji(title) {
			continue
		}
		if e := emojiFor(title); e != "" {
			lines[i] = prefix + e + " " + title
		}
	}
	text = strings.Join(lines, "\n")

	for _, pair := range localized[language] {
		word, emoji := pair[0], pair[1]
		text = strings.ReplaceAll(text, emoji+" "+word, word)
		text = strings.ReplaceAll(text, word, emoji+" "+word)
	}
	return text
}

func headerParts(line string) (prefix, title string, ok bool) {
	if strings.HasPrefix(line, "#") {
		hashes := len(line) - len(strings.TrimLeft(line, "#"))
		return line[:hashes] + " ", strings.TrimSpace(line[hashes:]), true
	}
	if !strings.HasSuffix(line, ":") {
		return "", "", false
	}
	if _, isTitle := titleLine(line); isTitle || hasTopicEmoji(line) {
		return "", line, true
	}
	return "", "", false
}

func hasTopicEmoji(title string) bool {
	for _, t := range topicEmojis {
		if strings.HasPrefix(title, t.emoji) {
			return true
		}
	}
	return false
}

func emojiFor(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return r == ' ' || r == '*' || r == ':' || r == ',' || r == '&' || r == '/'
	})
	for _, t := range topicEmojis {
		for _, w := range words {
			if strings.HasPrefix(w, t.keyword) {
				return t.emoji
			}
		}
	}
	return ""
}

// #endregion emojis
