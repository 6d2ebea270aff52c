package knowledge

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// #region scorer
// Scorer ranks curated knowledge against a free-text query.
type Scorer struct {
	source Source
	config Config
	log    *zap.Logger
}

// NewScorer creates a Scorer over the given source.
func NewScorer(source Source, config Config, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{source: source, config: config, log: log}
}

// #endregion scorer

// #region score
// Score extracts keywords, fetches candidates per category and keeps the best
// matches. It never fails: a category whose fetch errors contributes nothing
// and is reported in Result.Failed.
func (s *Scorer) Score(ctx context.Context, query string) Result {
	result := Result{Failed: map[Category]error{}}
	result.Keywords = ExtractKeywords(query, s.config.MaxKeywords)
	if len(result.Keywords) == 0 {
		result.Reason = "no keywords extracted"
		return result
	}

	// Categories are fetched concurrently. A failed fetch never cancels its siblings.
	type fetch struct {
		candidates []Record
		err        error
	}
	fetched := make([]fetch, len(Categories))
	var g errgroup.Group
	for i, cat := range Categories {
		g.Go(func() error {
			candidates, err := s.source.Candidates(ctx, cat, result.Keywords, s.config.CandidateLimit)
			fetched[i] = fetch{candidates: candidates, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, cat := range Categories {
		f := fetched[i]
		if f.err != nil {
			s.log.Warn("[KNOWLEDGE] candidate fetch failed",
				zap.String("category", string(cat)), zap.Error(f.err))
			result.Failed[cat] = f.err
			continue
		}
		for j := range f.candidates {
			f.candidates[j].Category = cat
		}
		result.Records = append(result.Records, Rank(result.Keywords, f.candidates, s.config)...)
	}

	result.Confidence = meanSimilarity(result.Records)
	result.MatchedCategories = matchedCategories(result.Records)
	result.Reason = fmt.Sprintf("matched %d records over %d keywords (failed categories=%d)",
		len(result.Records), len(result.Keywords), len(result.Failed))

	s.log.Debug("[KNOWLEDGE] scored",
		zap.Strings("keywords", result.Keywords),
		zap.Int("records", len(result.Records)),
		zap.Float64("confidence", result.Confidence))
	return result
}

// #endregion score

// #region rank
// Rank scores records against the keywords, drops weak matches and keeps the
// top records of each category. Ties are broken by record ID so the output
// does not depend on input order.
func Rank(keywords []string, records []Record, config Config) []ScoredRecord {
	byCat := make(map[Category][]ScoredRecord)
	var order []Category
	for _, rec := range records {
		sim := Similarity(keywords, rec.Terms())
		if sim <= config.MinSimilarity {
			continue
		}
		if _, ok := byCat[rec.Category]; !ok {
			order = append(order, rec.Category)
		}
		byCat[rec.Category] = append(byCat[rec.Category], ScoredRecord{Record: rec, Similarity: sim})
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := categoryIndex(order[i]), categoryIndex(order[j])
		if a != b {
			return a < b
		}
		return order[i] < order[j]
	})

	var out []ScoredRecord
	for _, cat := range order {
		scored := byCat[cat]
		sort.Slice(scored, func(i, j int) bool {
			if scored[i].Similarity != scored[j].Similarity {
				return scored[i].Similarity > scored[j].Similarity
			}
			return scored[i].ID < scored[j].ID
		})
		if config.TopPerCategory > 0 && len(scored) > config.TopPerCategory {
			scored = scored[:config.TopPerCategory]
		}
		out = append(out, scored...)
	}
	return out
}

func categoryIndex(c Category) int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return len(Categories)
}

// #endregion rank

// #region helpers
func meanSimilarity(records []ScoredRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Similarity
	}
	return sum / float64(len(records))
}

func matchedCategories(records []ScoredRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if r.CategoryID == "" || seen[r.CategoryID] {
			continue
		}
		seen[r.CategoryID] = true
		out = append(out, r.CategoryID)
	}
	return out
}

// Excerpt returns the first maxChars runes of s, trimmed, with "..." when cut.
func Excerpt(s string, maxChars int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if maxChars <= 0 || len(runes) <= maxChars {
		return s
	}
	return strings.TrimSpace(string(runes[:maxChars])) + "..."
}

// #endregion helpers
