package prompt

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/agri-advisor/internal/fusion"
	"github.com/danielpatrickdp/agri-advisor/internal/insights"
	"github.com/danielpatrickdp/agri-advisor/internal/knowledge"
	"github.com/danielpatrickdp/agri-advisor/internal/profile"
	"github.com/danielpatrickdp/agri-advisor/internal/weather"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

// #region general-mode
func TestCompose_GeneralModeOmitsEmptySections(t *testing.T) {
	p := Compose("How do I grow tomatoes?", fusion.Fuse(fusion.Inputs{}), DefaultOptions())

	for _, want := range []string{
		"Answer ONLY in English",
		"politely redirect to agricultural topics",
		"User Question: How do I grow tomatoes?",
		"Provide a general response in English:",
		"RESPONSE GUIDELINES:",
		"- Keep response under 200 words",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("expected %q in prompt", want)
		}
	}
	for _, header := range []string{"Context Information:", "User Profile:", "Farm Information:", "Current Weather:", "Relevant Crops:", "Soil Information:", "Relevant Knowledge:"} {
		if strings.Contains(p, header) {
			t.Errorf("unexpected empty section %q", header)
		}
	}
}

func TestCompose_NilContext(t *testing.T) {
	p := Compose("hello", nil, DefaultOptions())
	if !strings.Contains(p, "Provide a general response") {
		t.Fatal("expected general mode for nil context")
	}
}

// #endregion general-mode

// #region personalized-mode
func TestCompose_SectionOrder(t *testing.T) {
	ac := fusion.Fuse(fusion.Inputs{
		Profile: &profile.Result{
			User:  &profile.User{ID: 1, Name: "Asha", Location: "Pune"},
			Farms: []profile.Farm{{ID: 1, Name: "North", SoilType: strPtr("Loamy Soil"), PH: f64Ptr(6.5)}},
			Crops: []profile.Crop{{ID: 1, Name: "Wheat", LocalName: "गेहूं", Season: "Rabi"}},
			Soils: []profile.SoilProperty{{ID: 1, Name: "Loamy", Texture: "Medium"}},
		},
		Weather:  &weather.Snapshot{Temperature: 28, Humidity: 65, Conditions: "Partly cloudy"},
		Analysis: &insights.Analysis{Insights: insights.Bundle{SoilHealth: insights.SoilHealth{Score: 70}}},
		Knowledge: &knowledge.Result{Records: []knowledge.ScoredRecord{
			{Record: knowledge.Record{ID: "k1", Category: knowledge.CategoryKnowledge, Title: "Wheat sowing", Body: strings.Repeat("x", 500)}, Similarity: 0.5},
			{Record: knowledge.Record{ID: "f1", Category: knowledge.CategoryFAQ, Title: "When to sow?", Body: "November"}, Similarity: 0.5},
		}},
	})
	opts := DefaultOptions()
	opts.Language = "hi"
	p := Compose("Which crop suits my soil?", ac, opts)

	order := []string{"User Profile:", "Farm Information:", "Current Weather:", "Relevant Crops:", "Soil Information:", "Soil Analysis:", "Relevant Knowledge:", "Frequently Asked Questions:", "User Question:", "RESPONSE GUIDELINES:"}
	last := -1
	for _, h := range order {
		idx := strings.Index(p, h)
		if idx < 0 {
			t.Fatalf("missing section %q", h)
		}
		if idx < last {
			t.Fatalf("section %q out of order", h)
		}
		last = idx
	}
	if strings.Contains(p, "Recommended Practices:") {
		t.Error("practices section should be omitted")
	}
	if !strings.Contains(p, "Answer ONLY in Hindi") || !strings.Contains(p, "Provide a personalized response in Hindi:") {
		t.Error("expected Hindi directives")
	}
	if !strings.Contains(p, "Soil Type: Loamy Soil") || !strings.Contains(p, "pH Level: 6.5") {
		t.Error("expected farm soil facts")
	}
	if strings.Contains(p, strings.Repeat("x", 201)) {
		t.Error("knowledge excerpt not capped")
	}
}

// #endregion personalized-mode

// #region guidelines
func TestGuidelines_PlainNoEmoji(t *testing.T) {
	g := Guidelines(Options{Language: "ta", MaxWords: 80, Style: StyleConcise})
	for _, want := range []string{"- Keep response under 80 words", "- Use plain text", "- No emojis", "- Style: concise", "- Language: Tamil"} {
		if !strings.Contains(g, want) {
			t.Errorf("expected %q in guidelines", want)
		}
	}
	if strings.Contains(g, "###") || strings.Contains(g, "🌱") {
		t.Error("markdown/emoji hints should be absent")
	}
}

// #endregion guidelines

// #region language-tests
func TestLanguageTables(t *testing.T) {
	if len(SupportedLanguages) != 12 {
		t.Fatalf("expected 12 languages, got %d", len(SupportedLanguages))
	}
	for _, code := range SupportedLanguages {
		if Apology(code) == "" || Greeting(code) == "" || LanguageName(code) == "" {
			t.Errorf("incomplete entry for %s", code)
		}
	}
	if LanguageName("xx") != "English" || Normalize("xx") != "en" {
		t.Error("unsupported language should fall back to English")
	}
	if Apology("hi") == Apology("en") {
		t.Error("expected a Hindi apology")
	}
}

// #endregion language-tests
