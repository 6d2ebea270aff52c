package knowledge

import (
	"strings"
	"unicode"
)

// #region stopwords
// stopwords contains common English words excluded from keyword extraction.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "can": true, "must": true, "shall": true,
	"i": true, "you": true, "he": true, "she": true, "it": true, "we": true,
	"they": true, "me": true, "him": true, "her": true, "us": true, "them": true,
	"my": true, "your": true, "his": true, "its": true, "our": true, "their": true,
	"this": true, "that": true, "these": true, "those": true, "what": true, "which": true,
	"who": true, "whom": true, "whose": true, "where": true, "when": true, "why": true,
	"how": true, "all": true, "any": true, "both": true, "each": true, "few": true,
	"more": true, "most": true, "other": true, "some": true, "such": true, "no": true,
	"nor": true, "not": true, "only": true, "own": true, "same": true, "so": true,
	"than": true, "too": true, "very": true, "just": true, "now": true,
}

// #endregion stopwords

// #region extract
// ExtractKeywords lowercases the query, replaces punctuation with spaces and keeps
// unique words longer than two characters that are not stopwords, capped at max.
func ExtractKeywords(query string, max int) []string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !isWordRune(r)
	})
	seen := make(map[string]bool)
	var keywords []string
	for _, w := range words {
		if len([]rune(w)) <= 2 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
		if max > 0 && len(keywords) == max {
			break
		}
	}
	return keywords
}

// isWordRune keeps combining marks so Indic words are not split at vowel signs.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

// #endregion extract

// #region similarity
// Similarity is the number of query keywords that contain, or are contained in,
// some record term, divided by the larger of the two list lengths.
func Similarity(queryKeywords, terms []string) float64 {
	if len(queryKeywords) == 0 || len(terms) == 0 {
		return 0
	}
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lowered = append(lowered, t)
		}
	}
	if len(lowered) == 0 {
		return 0
	}

	matched := 0
	for _, kw := range queryKeywords {
		kw = strings.ToLower(kw)
		for _, t := range lowered {
			if strings.Contains(t, kw) || strings.Contains(kw, t) {
				matched++
				break
			}
		}
	}
	denom := len(queryKeywords)
	if len(lowered) > denom {
		denom = len(lowered)
	}
	return float64(matched) / float64(denom)
}

// #endregion similarity
