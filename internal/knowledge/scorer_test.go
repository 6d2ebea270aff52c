package knowledge

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

// #region fake-source
type fakeSource struct {
	records map[Category][]Record
	errs    map[Category]error

	mu    sync.Mutex
	calls int
}

func (f *fakeSource) Candidates(_ context.Context, c Category, _ []string, limit int) ([]Record, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := f.errs[c]; err != nil {
		return nil, err
	}
	recs := f.records[c]
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	out := make([]Record, len(recs))
	copy(out, recs)
	return out, nil
}

// #endregion fake-source

// #region keyword-tests
func TestExtractKeywords_FiltersStopwordsAndShortWords(t *testing.T) {
	got := ExtractKeywords("How do I water my rice in the dry season?", 10)
	want := []string{"water", "rice", "dry", "season"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractKeywords_Cap(t *testing.T) {
	got := ExtractKeywords("alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima", 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 keywords, got %d: %v", len(got), got)
	}
}

func TestExtractKeywords_Punctuation(t *testing.T) {
	got := ExtractKeywords("fertilizer,urea;potash!!", 10)
	want := []string{"fertilizer", "urea", "potash"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractKeywords_KeepsIndicWords(t *testing.T) {
	got := ExtractKeywords("मिट्टी की जांच", 10)
	if len(got) == 0 || got[0] != "मिट्टी" {
		t.Fatalf("expected Hindi word kept intact, got %v", got)
	}
}

func TestExtractKeywords_Dedup(t *testing.T) {
	got := ExtractKeywords("rice rice RICE", 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 keyword, got %v", got)
	}
}

// #endregion keyword-tests

// #region similarity-tests
func TestSimilarity_PartialOverlap(t *testing.T) {
	got := Similarity([]string{"rice", "water"}, []string{"rice", "irrigation", "paddy"})
	if got < 0.333 || got > 0.334 {
		t.Fatalf("expected ~0.333, got %f", got)
	}
}

func TestSimilarity_BlankTermsIgnored(t *testing.T) {
	got := Similarity([]string{"rice", "water"}, []string{"rice", " ", "", "paddy"})
	if got != 0.5 {
		t.Fatalf("expected 0.5 with blank terms dropped, got %f", got)
	}
}

func TestSimilarity_EmptyTerms(t *testing.T) {
	if got := Similarity([]string{"rice"}, nil); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
}

func TestSimilarity_SubstringBothWays(t *testing.T) {
	if got := Similarity([]string{"fertilizers"}, []string{"fertilizer"}); got != 1 {
		t.Fatalf("expected 1, got %f", got)
	}
	if got := Similarity([]string{"soil"}, []string{"soils"}); got != 1 {
		t.Fatalf("expected 1, got %f", got)
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	gofakeit.Seed(42)
	for i := 0; i < 200; i++ {
		q := make([]string, gofakeit.Number(0, 8))
		for j := range q {
			q[j] = gofakeit.Word()
		}
		terms := make([]string, gofakeit.Number(0, 8))
		for j := range terms {
			terms[j] = gofakeit.Word()
		}
		got := Similarity(q, terms)
		if got < 0 || got > 1 {
			t.Fatalf("similarity out of range: %f (q=%v terms=%v)", got, q, terms)
		}
	}
}

// #endregion similarity-tests

// #region rank-tests
func TestRank_TopThreePerCategoryAndThreshold(t *testing.T) {
	kw := []string{"rice", "water"}
	recs := []Record{
		{ID: "k1", Category: CategoryKnowledge, Tags: []string{"rice", "water"}},
		{ID: "k2", Category: CategoryKnowledge, Tags: []string{"rice"}},
		{ID: "k3", Category: CategoryKnowledge, Tags: []string{"rice", "paddy"}},
		{ID: "k4", Category: CategoryKnowledge, Tags: []string{"water", "rice", "soil"}},
		{ID: "k5", Category: CategoryKnowledge, Tags: []string{"wheat"}},
		{ID: "f1", Category: CategoryFAQ, Tags: []string{"rice"}},
	}
	got := Rank(kw, recs, DefaultConfig())

	var ids []string
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	want := []string{"k1", "k4", "k2", "f1"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("rank mismatch (-want +got):\n%s", diff)
	}
	for _, r := range got {
		if r.Similarity <= 0.1 {
			t.Errorf("record %s kept with similarity %f", r.ID, r.Similarity)
		}
	}
}

func TestRank_OrderIndependent(t *testing.T) {
	kw := []string{"rice", "water", "soil"}
	recs := []Record{
		{ID: "a", Category: CategoryKnowledge, Tags: []string{"rice"}},
		{ID: "b", Category: CategoryKnowledge, Tags: []string{"water"}},
		{ID: "c", Category: CategoryKnowledge, Tags: []string{"soil"}},
		{ID: "d", Category: CategoryKnowledge, Tags: []string{"rice", "water"}},
		{ID: "e", Category: CategoryPractice, Tags: []string{"soil"}},
		{ID: "f", Category: CategoryFAQ, Keywords: []string{"rice"}},
	}
	want := Rank(kw, recs, DefaultConfig())

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := make([]Record, len(recs))
		copy(shuffled, recs)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Rank(kw, shuffled, DefaultConfig())
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("order dependence on shuffle %d (-want +got):\n%s", i, diff)
		}
	}
}

// #endregion rank-tests

// #region score-tests
func TestScore_PartialFailure(t *testing.T) {
	src := &fakeSource{
		records: map[Category][]Record{
			CategoryKnowledge: {{ID: "k1", CategoryID: "crops", Tags: []string{"rice", "irrigation"}}},
			CategoryPractice:  {{ID: "p1", CategoryID: "water", Keywords: []string{"irrigation"}}},
		},
		errs: map[Category]error{CategoryFAQ: errors.New("faq table offline")},
	}
	s := NewScorer(src, DefaultConfig(), zap.NewNop())
	res := s.Score(context.Background(), "rice irrigation schedule")

	if src.calls != 3 {
		t.Fatalf("expected all 3 categories fetched, got %d", src.calls)
	}
	if _, ok := res.Failed[CategoryFAQ]; !ok {
		t.Fatal("expected FAQ failure recorded")
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Fatalf("confidence out of range: %f", res.Confidence)
	}
	if diff := cmp.Diff([]string{"crops", "water"}, res.MatchedCategories); diff != "" {
		t.Fatalf("matched categories (-want +got):\n%s", diff)
	}
	if len(res.ByCategory(CategoryPractice)) != 1 {
		t.Fatal("expected one practice")
	}
}

func TestScore_NoKeywordsSkipsFetch(t *testing.T) {
	src := &fakeSource{}
	s := NewScorer(src, DefaultConfig(), nil)
	res := s.Score(context.Background(), "is it ok?")
	if src.calls != 0 {
		t.Fatalf("expected no fetches, got %d", src.calls)
	}
	if res.Confidence != 0 || len(res.Records) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestScore_AtMostNineRecords(t *testing.T) {
	var recs []Record
	for i := 0; i < 10; i++ {
		recs = append(recs, Record{ID: gofakeit.UUID(), Tags: []string{"rice"}})
	}
	src := &fakeSource{records: map[Category][]Record{
		CategoryKnowledge: recs, CategoryFAQ: recs, CategoryPractice: recs,
	}}
	res := NewScorer(src, DefaultConfig(), nil).Score(context.Background(), "rice")
	if len(res.Records) != 9 {
		t.Fatalf("expected 9 records, got %d", len(res.Records))
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("short", 200); got != "short" {
		t.Fatalf("unexpected excerpt %q", got)
	}
	if got := Excerpt("abcdefghij", 4); got != "abcd..." {
		t.Fatalf("unexpected excerpt %q", got)
	}
}

// #endregion score-tests
