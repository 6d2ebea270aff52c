package fusion

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/agri-advisor/internal/insights"
	"github.com/danielpatrickdp/agri-advisor/internal/knowledge"
	"github.com/danielpatrickdp/agri-advisor/internal/profile"
	"github.com/danielpatrickdp/agri-advisor/internal/weather"
)

// #region types

// Inputs are the per-source results fused into one context. Any field may be nil.
type Inputs struct {
	Profile   *profile.Result
	Knowledge *knowledge.Result
	Analysis  *insights.Analysis
	Weather   *weather.Snapshot
	SessionID string
}

// ContextUsed counts what each source contributed.
type ContextUsed struct {
	User                bool `json:"user"`
	Farms               int  `json:"farms"`
	Crops               int  `json:"crops"`
	SoilInfo            int  `json:"soil_info"`
	Insights            bool `json:"insights"`
	Weather             bool `json:"weather"`
	Knowledge           int  `json:"knowledge"`
	FAQs                int  `json:"faqs"`
	Practices           int  `json:"practices"`
	HasPersonalizedData bool `json:"has_personalized_data"`
}

// String renders the counts as a one-line trace.
func (c ContextUsed) String() string {
	return fmt.Sprintf("user=%t farms=%d crops=%d soil=%d insights=%t weather=%t knowledge=%d faqs=%d practices=%d personalized=%t",
		c.User, c.Farms, c.Crops, c.SoilInfo, c.Insights, c.Weather, c.Knowledge, c.FAQs, c.Practices, c.HasPersonalizedData)
}

// AdvisoryContext is everything the prompt composer may draw on.
type AdvisoryContext struct {
	User        *profile.User
	Farms       []profile.Farm
	Crops       []profile.Crop
	Soils       []profile.SoilProperty
	Analysis    *insights.Analysis
	Knowledge   []knowledge.ScoredRecord
	Weather     *weather.Snapshot
	SessionID   string
	Confidence  float64
	ContextUsed ContextUsed
}

// Personalized reports whether a user profile is present.
func (a *AdvisoryContext) Personalized() bool {
	return a.User != nil
}

// #endregion types

// #region confidence-weights
const (
	baseConfidence      = 0.3
	knowledgeConfidence = 0.5
	userBonus           = 0.2
	farmBonus           = 0.2
	farmSoilBonus       = 0.3
	cropBonus           = 0.1
	soilBonus           = 0.1
)

// #endregion confidence-weights

// #region fuse

// Fuse merges the inputs. It never fails; absent inputs become empty fields.
func Fuse(in Inputs) *AdvisoryContext {
	ac := &AdvisoryContext{
		Farms:     []profile.Farm{},
		Crops:     []profile.Crop{},
		Soils:     []profile.SoilProperty{},
		Knowledge: []knowledge.ScoredRecord{},
		SessionID: in.SessionID,
		Analysis:  in.Analysis,
		Weather:   in.Weather,
	}
	if p := in.Profile; p != nil {
		ac.User = p.User
		ac.Farms = append(ac.Farms, p.Farms...)
		ac.Crops = append(ac.Crops, p.Crops...)
		ac.Soils = append(ac.Soils, p.Soils...)
	}
	if k := in.Knowledge; k != nil {
		ac.Knowledge = append(ac.Knowledge, k.Records...)
	}

	ac.ContextUsed = contextUsed(ac)
	ac.Confidence = Confidence(ac)
	return ac
}

// Confidence scores how much grounded context is available, in [0.3, 1].
func Confidence(ac *AdvisoryContext) float64 {
	c := baseConfidence
	if len(ac.Knowledge) > 0 {
		c = knowledgeConfidence
	}
	if ac.User != nil {
		c += userBonus
	}
	if len(ac.Farms) > 0 {
		if hasSoilFacts(ac.Farms) {
			c += farmSoilBonus
		} else {
			c += farmBonus
		}
	}
	if len(ac.Crops) > 0 {
		c += cropBonus
	}
	if len(ac.Soils) > 0 || ac.Analysis != nil {
		c += soilBonus
	}
	return math.Min(c, 1.0)
}

func hasSoilFacts(farms []profile.Farm) bool {
	for _, f := range farms {
		if f.HasSoilFacts() {
			return true
		}
	}
	return false
}

func contextUsed(ac *AdvisoryContext) ContextUsed {
	cu := ContextUsed{
		User:     ac.User != nil,
		Farms:    len(ac.Farms),
		Crops:    len(ac.Crops),
		SoilInfo: len(ac.Soils),
		Insights: ac.Analysis != nil,
		Weather:  ac.Weather != nil,
	}
	for _, r := range ac.Knowledge {
		switch r.Category {
		case knowledge.CategoryFAQ:
			cu.FAQs++
		case knowledge.CategoryPractice:
			cu.Practices++
		default:
			cu.Knowledge++
		}
	}
	cu.HasPersonalizedData = cu.User || cu.Farms > 0
	return cu
}

// #endregion fuse
