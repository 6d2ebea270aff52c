package shaper

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// #region vocabulary

var unitTerms = map[string]bool{
	"pH": true, "kg": true, "hectare": true, "hectares": true,
	"acre": true, "acres": true, "mm": true, "°C": true,
}

var measured = regexp.MustCompile(`^\d+(?:\.\d+)?(?:mm|kg|°C)$`)

var agronomyTerms = map[string]bool{
	"rice": true, "wheat": true, "maize": true, "sugarcane": true, "cotton": true,
	"soybean": true, "potato": true, "tomato": true, "irrigation": true, "fertilizer": true,
	"pesticide": true, "soil": true, "crop": true, "yield": true, "harvest": true,
}

// #endregion vocabulary

// #region markup

// ApplyMarkup promotes short title lines to "###" headers and emphasizes units
// and agronomy terms. Text already inside bold or code spans is left alone.
func ApplyMarkup(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if h, ok := promoteHeader(line); ok {
			lines[i] = h
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines[i] = emphasizeTerms(line)
	}
	return strings.Join(lines, "\n")
}

// titleLine reports whether a line reads as a short section title: it starts
// with an upper-case letter, has at most eight words and either ends with a
// colon or is written in capitals.
func titleLine(line string) (string, bool) {
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "- ") {
		return "", false
	}
	core := line
	if strings.HasPrefix(core, "**") && strings.HasSuffix(core, "**") && len(core) > 4 {
		core = strings.TrimSpace(core[2 : len(core)-2])
	}
	colon := strings.HasSuffix(core, ":")
	core = strings.TrimSpace(strings.TrimSuffix(core, ":"))
	if core == "" || len([]rune(core)) > 60 || len(strings.Fields(core)) > 8 {
		return "", false
	}
	first := []rune(core)[0]
	if !unicode.IsUpper(first) {
		return "", false
	}
	if colon {
		return core, true
	}
	if strings.ContainsAny(core, ".!?") {
		return "", false
	}
	letters := 0
	for _, r := range core {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return "", false
			}
			letters++
		}
	}
	return core, letters >= 3
}

func promoteHeader(line string) (string, bool) {
	title, ok := titleLine(line)
	if !ok {
		return "", false
	}
	return "### " + title, true
}

func emphasizeTerms(line string) string {
	tokens := strings.Split(line, " ")
	bold, code := 0, 0
	for i, tok := range tokens {
		if bold%2 == 0 && code%2 == 0 && !strings.ContainsAny(tok, "*`") {
			tokens[i] = wrapTerm(tok)
		}
		bold += strings.Count(tok, "**")
		code += strings.Count(tok, "`")
	}
	return strings.Join(tokens, " ")
}

// wrapTerm wraps the token's core, keeping surrounding punctuation outside.
func wrapTerm(tok string) string {
	start := strings.IndexFunc(tok, func(r rune) bool { return !strings.ContainsRune(`([{"'`, r) })
	last := strings.LastIndexFunc(tok, func(r rune) bool { return !strings.ContainsRune(`.,;:!?)]}"'`, r) })
	if start < 0 || last < start {
		return tok
	}
	_, size := utf8.DecodeRuneInString(tok[last:])
	end := last + size
	core := tok[start:end]

	switch {
	case unitTerms[core] || measured.MatchString(core):
		return tok[:start] + "`" + core + "`" + tok[end:]
	case agronomyTerms[strings.ToLower(core)]:
		return tok[:start] + "**" + core + "**" + tok[end:]
	}
	return tok
}

// #endregion markup
