package knowledge

import "context"

// #region category
// Category identifies which curated collection a record belongs to.
type Category string

const (
	CategoryKnowledge Category = "knowledge"
	CategoryFAQ       Category = "faq"
	CategoryPractice  Category = "practice"
)

// Categories lists every collection in the order they are fetched and rendered.
var Categories = []Category{CategoryKnowledge, CategoryFAQ, CategoryPractice}

// #endregion category

// #region record
// Record is one curated knowledge item. For FAQs Title holds the question and Body the answer.
type Record struct {
	ID         string
	Category   Category
	CategoryID string
	Title      string
	Body       string
	Summary    string
	Tags       []string
	Keywords   []string
	Region     string
	CropType   string
	Difficulty string
	Steps      []string // practices only
	Benefits   []string // practices only
}

// Terms returns the record's tags followed by its keywords.
func (r Record) Terms() []string {
	terms := make([]string, 0, len(r.Tags)+len(r.Keywords))
	terms = append(terms, r.Tags...)
	terms = append(terms, r.Keywords...)
	return terms
}

// ScoredRecord pairs a record with its similarity to the query.
type ScoredRecord struct {
	Record
	Similarity float64
}

// #endregion record

// #region config
// Config holds thresholds and limits for knowledge scoring.
type Config struct {
	MinSimilarity  float64 `yaml:"min_similarity"` // records at or below this are dropped
	TopPerCategory int     `yaml:"top_per_category"`
	MaxKeywords    int     `yaml:"max_keywords"`
	CandidateLimit int     `yaml:"candidate_limit"` // row cap per category scan
	ExcerptChars   int     `yaml:"excerpt_chars"`
}

// DefaultConfig returns the standard scoring limits.
func DefaultConfig() Config {
	return Config{
		MinSimilarity:  0.1,
		TopPerCategory: 3,
		MaxKeywords:    10,
		CandidateLimit: 25,
		ExcerptChars:   200,
	}
}

// #endregion config

// #region result
// Result is the outcome of scoring one query.
type Result struct {
	Keywords          []string
	Records           []ScoredRecord
	Confidence        float64
	MatchedCategories []string
	Failed            map[Category]error // categories whose fetch failed
	Reason            string
}

// ByCategory returns the retained records of one collection, in rank order.
func (r Result) ByCategory(c Category) []ScoredRecord {
	var out []ScoredRecord
	for _, rec := range r.Records {
		if rec.Category == c {
			out = append(out, rec)
		}
	}
	return out
}

// #endregion result

// #region source
// Source fetches candidate records for one category. Implementations match
// candidates loosely on the keywords and cap the scan at limit rows.
type Source interface {
	Candidates(ctx context.Context, category Category, keywords []string, limit int) ([]Record, error)
}

// #endregion source
