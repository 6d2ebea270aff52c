package prompt

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/agri-advisor/internal/fusion"
	"github.com/danielpatrickdp/agri-advisor/internal/insights"
	"github.com/danielpatrickdp/agri-advisor/internal/knowledge"
	"github.com/danielpatrickdp/agri-advisor/internal/weather"
)

// #region options

// Style is the requested answer register.
type Style string

const (
	StyleConcise        Style = "concise"
	StyleDetailed       Style = "detailed"
	StyleConversational Style = "conversational"
)

// Options controls language and formatting directives.
type Options struct {
	Language     string
	MaxWords     int
	Markdown     bool
	Emojis       bool
	Style        Style
	ExcerptChars int
}

// DefaultOptions returns the standard answer format.
func DefaultOptions() Options {
	return Options{
		Language:     "en",
		MaxWords:     200,
		Markdown:     true,
		Emojis:       true,
		Style:        StyleConversational,
		ExcerptChars: 200,
	}
}

// #endregion options

// #region compose

// Compose renders the query and advisory context into one instruction string.
// Sections with no data are omitted.
func Compose(query string, ac *fusion.AdvisoryContext, opts Options) string {
	if ac == nil {
		ac = fusion.Fuse(fusion.Inputs{})
	}
	lang := LanguageName(opts.Language)
	personal := ac.Personalized()

	var b strings.Builder
	b.WriteString("You are an expert agricultural advisor specializing in Indian farming practices. ")
	if personal {
		b.WriteString("You have access to the user's specific farm data and should provide personalized recommendations.\n\n")
	} else {
		b.WriteString("You should provide general agricultural advice based on best practices.\n\n")
	}

	b.WriteString("IMPORTANT INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "- Answer ONLY in %s\n", lang)
	if personal {
		b.WriteString("- Use the user's specific farm data to provide personalized advice\n")
		b.WriteString("- Mention their soil type, pH, and farm conditions specifically\n")
	} else {
		b.WriteString("- Provide general agricultural advice based on best practices\n")
		b.WriteString("- Include relevant information about different soil types and conditions\n")
	}
	b.WriteString("- Provide actionable recommendations\n")
	b.WriteString("- Include relevant local practices and examples\n")
	b.WriteString("- If the question is not agriculture-related, politely redirect to agricultural topics\n")
	b.WriteString("- Be specific and practical in your advice\n")
	b.WriteString("- Always consider Indian farming conditions and practices\n")

	sections := []struct {
		title string
		body  string
	}{
		{"User Profile", userSection(ac)},
		{"Farm Information", farmSection(ac)},
		{"Current Weather", weather.Format(ac.Weather)},
		{"Relevant Crops", cropSection(ac)},
		{"Soil Information", soilSection(ac)},
		{"Soil Analysis", analysisSection(ac.Analysis)},
		{"Relevant Knowledge", knowledgeSection(ac.Knowledge, knowledge.CategoryKnowledge, opts.ExcerptChars)},
		{"Frequently Asked Questions", knowledgeSection(ac.Knowledge, knowledge.CategoryFAQ, opts.ExcerptChars)},
		{"Recommended Practices", knowledgeSection(ac.Knowledge, knowledge.CategoryPractice, opts.ExcerptChars)},
	}
	wroteHeader := false
	for _, s := range sections {
		if s.body == "" {
			continue
		}
		if !wroteHeader {
			b.WriteString("\nContext Information:\n")
			wroteHeader = true
		}
		fmt.Fprintf(&b, "\n%s:\n%s", s.title, s.body)
	}

	fmt.Fprintf(&b, "\nUser Question: %s\n\n", strings.TrimSpace(query))
	mode := "general"
	if personal {
		mode = "personalized"
	}
	fmt.Fprintf(&b, "Provide a %s response in %s:", mode, lang)
	b.WriteString(Guidelines(opts))
	return b.String()
}

// Guidelines renders the trailing formatting directives.
func Guidelines(opts Options) string {
	var b strings.Builder
	b.WriteString("\n\nRESPONSE GUIDELINES:\n")
	fmt.Fprintf(&b, "- Keep response under %d words\n", opts.MaxWords)
	if opts.Markdown {
		b.WriteString("- Use markdown formatting\n")
	} else {
		b.WriteString("- Use plain text\n")
	}
	if opts.Emojis {
		b.WriteString("- Include relevant emojis\n")
	} else {
		b.WriteString("- No emojis\n")
	}
	style := opts.Style
	if style == "" {
		style = StyleConversational
	}
	fmt.Fprintf(&b, "- Style: %s\n", style)
	fmt.Fprintf(&b, "- Language: %s", LanguageName(opts.Language))
	if opts.Markdown {
		b.WriteString("\n- Use **bold** for important terms")
		b.WriteString("\n- Use *italics* for emphasis")
		b.WriteString("\n- Use ### for section headers")
		b.WriteString("\n- Use - for bullet points")
		b.WriteString("\n- Use `code` for technical terms")
	}
	if opts.Emojis {
		b.WriteString("\n- Use 🌱 for crops, 🌍 for soil, 💧 for water")
		b.WriteString("\n- Use 💡 for tips, ⚠️ for warnings")
	}
	return b.String()
}

// #endregion compose

// #region sections

func userSection(ac *fusion.AdvisoryContext) string {
	u := ac.User
	if u == nil {
		return ""
	}
	var b strings.Builder
	if u.Name != "" {
		fmt.Fprintf(&b, "- Name: %s\n", u.Name)
	}
	if u.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", u.Location)
	}
	if u.FarmSize != nil {
		fmt.Fprintf(&b, "- Farm Size: %g acres\n", *u.FarmSize)
	}
	if u.PreferredLanguage != "" {
		fmt.Fprintf(&b, "- Preferred Language: %s\n", LanguageName(u.PreferredLanguage))
	}
	return b.String()
}

func farmSection(ac *fusion.AdvisoryContext) string {
	var b strings.Builder
	for i, f := range ac.Farms {
		name := f.Name
		if name == "" {
			name = "Unnamed"
		}
		fmt.Fprintf(&b, "- Farm %d: %s\n", i+1, name)
		if f.SoilType != nil {
			fmt.Fprintf(&b, "  Soil Type: %s\n", *f.SoilType)
		}
		if f.PH != nil {
			fmt.Fprintf(&b, "  pH Level: %g\n", *f.PH)
		}
		if f.OrganicCarbon != nil {
			fmt.Fprintf(&b, "  Organic Carbon: %g%%\n", *f.OrganicCarbon)
		}
		if f.Area != nil {
			fmt.Fprintf(&b, "  Farm Area: %g acres\n", *f.Area)
		}
		if f.IrrigationAvailable {
			b.WriteString("  Irrigation: Available\n")
		} else {
			b.WriteString("  Irrigation: Not available\n")
		}
		if f.IrrigationType != nil {
			fmt.Fprintf(&b, "  Irrigation Type: %s\n", *f.IrrigationType)
		}
	}
	return b.String()
}

func cropSection(ac *fusion.AdvisoryContext) string {
	var b strings.Builder
	for i, c := range ac.Crops {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "%d. %s", i+1, c.Name)
		if c.LocalName != "" {
			fmt.Fprintf(&b, " (%s)", c.LocalName)
		}
		b.WriteString("\n")
		if c.Season != "" {
			fmt.Fprintf(&b, "   - Season: %s\n", c.Season)
		}
		if c.SoilType != "" {
			fmt.Fprintf(&b, "   - Soil Type: %s\n", c.SoilType)
		}
		if c.PHMin != nil && c.PHMax != nil {
			fmt.Fprintf(&b, "   - pH Range: %g-%g\n", *c.PHMin, *c.PHMax)
		}
		if c.TempMin != nil && c.TempMax != nil {
			fmt.Fprintf(&b, "   - Temperature: %g-%g°C\n", *c.TempMin, *c.TempMax)
		}
		if c.YieldPerHectare != nil {
			fmt.Fprintf(&b, "   - Expected Yield: %g kg/hectare\n", *c.YieldPerHectare)
		}
	}
	return b.String()
}

func soilSection(ac *fusion.AdvisoryContext) string {
	var b strings.Builder
	for i, s := range ac.Soils {
		fmt.Fprintf(&b, "%d. %s", i+1, s.Name)
		if s.LocalName != "" {
			fmt.Fprintf(&b, " (%s)", s.LocalName)
		}
		b.WriteString("\n")
		if s.Texture != "" {
			fmt.Fprintf(&b, "   - Texture: %s\n", s.Texture)
		}
		if s.Fertility != "" {
			fmt.Fprintf(&b, "   - Fertility: %s\n", s.Fertility)
		}
		if s.WaterRetention != "" {
			fmt.Fprintf(&b, "   - Water Retention: %s\n", s.WaterRetention)
		}
		if len(s.SuitableCrops) > 0 {
			fmt.Fprintf(&b, "   - Suitable Crops: %s\n", strings.Join(s.SuitableCrops, ", "))
		}
	}
	return b.String()
}

func analysisSection(a *insights.Analysis) string {
	if a == nil {
		return ""
	}
	in := a.Insights
	var b strings.Builder
	fmt.Fprintf(&b, "- Soil Health Score: %d/100\n", in.SoilHealth.Score)
	if len(in.SoilHealth.Issues) > 0 {
		fmt.Fprintf(&b, "- Issues: %s\n", strings.Join(in.SoilHealth.Issues, "; "))
	}
	irr := in.Irrigation
	if irr.Method != "" {
		fmt.Fprintf(&b, "- Irrigation: %dmm, %d times per week, %s, %s\n", irr.AmountMM, irr.FrequencyPerWeek, irr.Timing, irr.Method)
	}
	if len(in.CropSuitability.Suitable) > 0 {
		fmt.Fprintf(&b, "- Suitable Crops: %s\n", strings.Join(in.CropSuitability.Suitable, ", "))
	}
	if f := in.Fertilization; f.Nitrogen > 0 {
		fmt.Fprintf(&b, "- Fertilizer: N %d, P %d, K %d kg/ha (%s)\n", f.Nitrogen, f.Phosphorus, f.Potassium, f.Timing)
	}
	if p := in.PestRisk; p.Level != "" {
		fmt.Fprintf(&b, "- Pest Risk: %s", p.Level)
		if len(p.Pests) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(p.Pests, ", "))
		}
		b.WriteString("\n")
	}
	if y := in.YieldOptimization; y.ExpectedYield > 0 {
		fmt.Fprintf(&b, "- Expected Yield: %d kg/ha\n", y.ExpectedYield)
	}
	if len(a.PriorityActions) > 0 {
		fmt.Fprintf(&b, "- Priority Actions: %s\n", strings.Join(a.PriorityActions, "; "))
	}
	return b.String()
}

func knowledgeSection(records []knowledge.ScoredRecord, cat knowledge.Category, excerptChars int) string {
	var b strings.Builder
	n := 0
	for _, r := range records {
		if r.Category != cat {
			continue
		}
		n++
		body := r.Summary
		if body == "" {
			body = r.Body
		}
		if cat == knowledge.CategoryFAQ {
			fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", n, r.Title, knowledge.Excerpt(r.Body, excerptChars))
			continue
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", n, r.Title, knowledge.Excerpt(body, excerptChars))
	}
	return b.String()
}

// #endregion sections
