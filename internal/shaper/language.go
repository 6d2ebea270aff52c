package shaper

import (
	"strings"
	"unicode"
)

// #region scripts

// scripts maps each supported non-English language to its writing system.
var scripts = map[string]*unicode.RangeTable{
	"hi": unicode.Devanagari,
	"mr": unicode.Devanagari,
	"ta": unicode.Tamil,
	"te": unicode.Telugu,
	"bn": unicode.Bengali,
	"as": unicode.Bengali,
	"gu": unicode.Gujarati,
	"kn": unicode.Kannada,
	"ml": unicode.Malayalam,
	"pa": unicode.Gurmukhi,
	"or": unicode.Oriya,
}

// latinTerms are technical tokens expected in any language's answer.
var latinTerms = map[string]bool{
	"ph": true, "npk": true, "n": true, "p": true, "k": true, "kg": true, "ha": true,
	"mm": true, "cm": true, "c": true, "°c": true, "dap": true, "urea": true, "zn": true,
	"fe": true, "mn": true, "cu": true, "b": true, "km": true, "h": true,
}

const (
	minScriptShare = 0.2
	minLatinShare  = 0.8
)

// IsEnglish reports whether a language code is treated as English.
// Unsupported codes fall back to English.
func IsEnglish(language string) bool {
	_, ok := scripts[language]
	return !ok
}

// #endregion scripts

// #region verify

// Verify reports whether text looks like it is written in the target language.
// English needs mostly ASCII letters. Other languages need a share of letters
// in their own script, ignoring Latin technical terms such as pH or NPK.
func Verify(text, language string) bool {
	ascii, target, total := 0, 0, 0
	table := scripts[language]
	for _, tok := range strings.Fields(text) {
		raw := strings.Trim(tok, "*`_#.,;:!?()[]{}\"'-•")
		if latinTerms[strings.ToLower(raw)] || measured.MatchString(raw) {
			continue
		}
		for _, r := range tok {
			if !unicode.IsLetter(r) {
				continue
			}
			total++
			if r < unicode.MaxASCII {
				ascii++
			}
			if table != nil && unicode.Is(table, r) {
				target++
			}
		}
	}
	if total == 0 {
		return true
	}
	if table == nil {
		return float64(ascii)/float64(total) >= minLatinShare
	}
	return float64(target)/float64(total) >= minScriptShare
}

// #endregion verify
