package insights

import (
	"math"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
)

// #region helpers
func uniform(v float64) DepthSeries {
	return DepthSeries{"0to5cm": v, "5to15cm": v, "15to30cm": v}
}

func profile(bd, cec, clay float64) SoilMeasurement {
	return SoilMeasurement{BulkDensity: uniform(bd), CationExchange: uniform(cec), ClayContent: uniform(clay)}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// #endregion helpers

// #region depth-series-tests
func TestDepthSeries_AverageOverPresentKeys(t *testing.T) {
	d := DepthSeries{"0to5cm": 1.0, "30to60cm": 2.0}
	if got := d.Average(); got != 1.5 {
		t.Fatalf("expected 1.5, got %f", got)
	}
}

func TestDepthSeries_Validate(t *testing.T) {
	if err := (DepthSeries{}).Validate("clay"); err == nil {
		t.Fatal("expected error for empty series")
	}
	if err := (DepthSeries{"0to5cm": math.NaN()}).Validate("clay"); err == nil {
		t.Fatal("expected error for NaN reading")
	}
	if err := uniform(20).Validate("clay"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMeasurementConditions(t *testing.T) {
	m := SoilMeasurement{Moisture: DepthSeries{"0to5cm": 0.2, "5to15cm": 0.4}, SkinTemperature: DepthSeries{"0cm": 31}}
	c := m.Conditions()
	if math.Abs(c.Moisture-0.3) > 1e-9 || c.Temperature != 31 {
		t.Fatalf("unexpected conditions %+v", c)
	}
}

func TestMeasurementConditions_MissingBands(t *testing.T) {
	c := SoilMeasurement{BulkDensity: uniform(1.3)}.Conditions()
	if !math.IsNaN(c.Moisture) || !math.IsNaN(c.Temperature) {
		t.Fatalf("expected NaN for missing bands, got %+v", c)
	}

	a := Infer(SoilMeasurement{BulkDensity: uniform(1.3), CationExchange: uniform(18), ClayContent: uniform(25)}, c)
	if a.Insights.Irrigation.AmountMM != 0 {
		t.Fatalf("irrigation invented from absent moisture: %+v", a.Insights.Irrigation)
	}
	for _, action := range a.PriorityActions {
		if strings.Contains(action, "drought") {
			t.Fatalf("drought action from absent moisture: %q", action)
		}
	}
	if len(a.Failed) == 0 {
		t.Fatal("expected moisture-dependent slices to be reported failed")
	}
}

// #endregion depth-series-tests

// #region soil-health-tests
func TestSoilHealth_BaselineWithinBounds(t *testing.T) {
	gofakeit.Seed(11)
	for i := 0; i < 500; i++ {
		soil := profile(
			gofakeit.Float64Range(1.2, 1.6),
			gofakeit.Float64Range(10, 25),
			gofakeit.Float64Range(10, 40),
		)
		cond := Conditions{Moisture: gofakeit.Float64Range(0.15, 0.4), Temperature: 25}
		h, err := AnalyzeSoilHealth(soil, cond)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.Score != 70 || len(h.Issues) != 0 {
			t.Fatalf("expected baseline 70 with no issues, got %+v", h)
		}
	}
}

func TestSoilHealth_ClampedAndPaired(t *testing.T) {
	gofakeit.Seed(12)
	for i := 0; i < 500; i++ {
		soil := profile(
			gofakeit.Float64Range(0.5, 2.5),
			gofakeit.Float64Range(0, 60),
			gofakeit.Float64Range(0, 80),
		)
		cond := Conditions{Moisture: gofakeit.Float64Range(0, 0.8)}
		h, err := AnalyzeSoilHealth(soil, cond)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.Score < 0 || h.Score > 100 {
			t.Fatalf("score out of range: %d", h.Score)
		}
		if len(h.Issues) != len(h.Recommendations) {
			t.Fatalf("issues/recommendations mismatch: %d vs %d", len(h.Issues), len(h.Recommendations))
		}
	}
}

func TestSoilHealth_WorstCase(t *testing.T) {
	h, err := AnalyzeSoilHealth(profile(1.8, 5, 5), Conditions{Moisture: 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 70 - 15 - 20 - 15 - 15
	if h.Score != 5 {
		t.Fatalf("expected 5, got %d", h.Score)
	}
	if !contains(h.Issues, "High bulk density indicates soil compaction") {
		t.Errorf("missing compaction issue: %v", h.Issues)
	}
}

func TestSoilHealth_HighCEC(t *testing.T) {
	h, _ := AnalyzeSoilHealth(profile(1.4, 30, 20), Conditions{Moisture: 0.3})
	if h.Score != 60 {
		t.Fatalf("expected 60, got %d", h.Score)
	}
}

// #endregion soil-health-tests

// #region irrigation-tests
func TestIrrigation_Bands(t *testing.T) {
	tests := []struct {
		name string
		cond Conditions
		want IrrigationAdvice
	}{
		{"dry", Conditions{Moisture: 0.1, Temperature: 30}, IrrigationAdvice{25, 2, "Early morning (6-8 AM)", "Drip irrigation recommended"}},
		{"medium", Conditions{Moisture: 0.2, Temperature: 30}, IrrigationAdvice{15, 1, "Early morning", "Drip or sprinkler irrigation"}},
		{"wet", Conditions{Moisture: 0.45, Temperature: 30}, IrrigationAdvice{0, 0, "Stop irrigation", "Improve drainage first"}},
		{"light", Conditions{Moisture: 0.3, Temperature: 30}, IrrigationAdvice{10, 1, "Early morning", "Light irrigation only"}},
		{"dry-hot", Conditions{Moisture: 0.1, Temperature: 38}, IrrigationAdvice{30, 3, "Early morning (6-8 AM)", "Drip irrigation recommended"}},
		{"light-hot", Conditions{Moisture: 0.3, Temperature: 38}, IrrigationAdvice{12, 2, "Early morning", "Light irrigation only"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdviseIrrigation(tt.cond)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("advice mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIrrigation_FrequencyCapped(t *testing.T) {
	gofakeit.Seed(13)
	for i := 0; i < 200; i++ {
		a, _ := AdviseIrrigation(Conditions{Moisture: gofakeit.Float64Range(0, 0.6), Temperature: gofakeit.Float64Range(20, 50)})
		if a.FrequencyPerWeek > 3 {
			t.Fatalf("frequency above cap: %d", a.FrequencyPerWeek)
		}
	}
}

// #endregion irrigation-tests

// #region crop-tests
func TestCropSuitability_Partition(t *testing.T) {
	gofakeit.Seed(14)
	for i := 0; i < 500; i++ {
		soil := profile(1.4, gofakeit.Float64Range(0, 40), gofakeit.Float64Range(0, 60))
		c, err := AssessCropSuitability(soil, Conditions{Moisture: gofakeit.Float64Range(0, 0.6)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(c.Suitable)+len(c.Unsuitable) != len(cropChecks) {
			t.Fatalf("expected %d crops placed, got %+v", len(cropChecks), c)
		}
		for _, check := range cropChecks {
			in, out := contains(c.Suitable, check.name), contains(c.Unsuitable, check.name)
			if in == out {
				t.Fatalf("crop %s suitable=%v unsuitable=%v", check.name, in, out)
			}
		}
		if len(c.Reasons) != len(cropChecks) {
			t.Fatalf("expected one reason per crop, got %d", len(c.Reasons))
		}
	}
}

func TestCropSuitability_WetClay(t *testing.T) {
	c, _ := AssessCropSuitability(profile(1.4, 18, 30), Conditions{Moisture: 0.35})
	if !contains(c.Suitable, "Rice (Paddy)") || !contains(c.Suitable, "Sugarcane") {
		t.Fatalf("expected rice and sugarcane suitable, got %v", c.Suitable)
	}
	if !contains(c.Unsuitable, "Cotton") {
		t.Fatalf("expected cotton unsuitable, got %v", c.Unsuitable)
	}
}

// #endregion crop-tests

// #region fertilization-tests
func TestFertilization_Bands(t *testing.T) {
	tests := []struct {
		name      string
		cec, clay float64
		n, p, k   int
	}{
		{"neutral", 15, 20, 120, 60, 80},
		{"low-cec-sandy", 5, 10, 86, 34, 48},
		{"high-cec-clay", 25, 35, 158, 79, 104},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanFertilization(profile(1.4, tt.cec, tt.clay))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if plan.Nitrogen != tt.n || plan.Phosphorus != tt.p || plan.Potassium != tt.k {
				t.Fatalf("expected %d/%d/%d, got %d/%d/%d", tt.n, tt.p, tt.k, plan.Nitrogen, plan.Phosphorus, plan.Potassium)
			}
			if len(plan.Micronutrients) != 3 || !strings.HasPrefix(plan.Timing, "Split application") {
				t.Fatalf("unexpected fixed fields: %+v", plan)
			}
		})
	}
}

// #endregion fertilization-tests

// #region pest-tests
func TestPestRisk_OnlyEscalates(t *testing.T) {
	base, _ := AssessPestRisk(Conditions{Moisture: 0.2, Temperature: 25})
	if base.Level != RiskLow {
		t.Fatalf("expected low baseline, got %s", base.Level)
	}
	heat, _ := AssessPestRisk(Conditions{Moisture: 0.2, Temperature: 38})
	if heat.Level != RiskMedium {
		t.Fatalf("expected medium with heat, got %s", heat.Level)
	}
	wet, _ := AssessPestRisk(Conditions{Moisture: 0.4, Temperature: 25})
	wetHot, _ := AssessPestRisk(Conditions{Moisture: 0.4, Temperature: 38})
	if wet.Level != RiskHigh || wetHot.Level != RiskHigh {
		t.Fatalf("heat must not downgrade high: wet=%s wetHot=%s", wet.Level, wetHot.Level)
	}
	if len(wetHot.Pests) != 6 {
		t.Fatalf("expected fungal and insect pests, got %v", wetHot.Pests)
	}
}

func TestRiskLevel_Escalate(t *testing.T) {
	levels := []RiskLevel{RiskLow, RiskMedium, RiskHigh}
	for _, from := range levels {
		for _, to := range levels {
			got := from.Escalate(to)
			if got.rank() < from.rank() {
				t.Fatalf("%s escalated to %s gave %s", from, to, got)
			}
		}
	}
}

// #endregion pest-tests

// #region yield-sustainability-tests
func TestOptimizeYield(t *testing.T) {
	y := OptimizeYield(SoilHealth{Score: 85}, IrrigationAdvice{AmountMM: 15, FrequencyPerWeek: 1})
	want := YieldOptimization{
		ExpectedYield: 3600,
		Factors:       []string{"Excellent soil health", "Optimal irrigation scheduling"},
		Actions:       []string{"Apply 15mm irrigation 1 times per week"},
	}
	if diff := cmp.Diff(want, y); diff != "" {
		t.Fatalf("yield mismatch (-want +got):\n%s", diff)
	}

	poor := OptimizeYield(SoilHealth{Score: 40}, IrrigationAdvice{})
	if poor.ExpectedYield != 2400 || !contains(poor.Actions, "Stop irrigation and improve drainage") {
		t.Fatalf("unexpected poor yield: %+v", poor)
	}
}

func TestAssessSustainability(t *testing.T) {
	s, _ := AssessSustainability(SoilHealth{Score: 55}, Conditions{Moisture: 0.1})
	if len(s.SoilConservation) != 3 || !contains(s.WaterConservation, "Implement mulching") {
		t.Fatalf("unexpected sustainability: %+v", s)
	}
	s, _ = AssessSustainability(SoilHealth{Score: 70}, Conditions{Moisture: 0.3})
	if len(s.SoilConservation) != 0 || len(s.WaterConservation) != 0 || len(s.EnvironmentalImpact) != 3 {
		t.Fatalf("unexpected sustainability: %+v", s)
	}
}

// #endregion yield-sustainability-tests

// #region infer-tests
func TestInfer_WaterloggedExample(t *testing.T) {
	a := Infer(profile(1.3, 18, 25), Conditions{Moisture: 0.45, Temperature: 28})

	irr := a.Insights.Irrigation
	if irr.AmountMM != 0 || irr.FrequencyPerWeek != 0 || !strings.Contains(irr.Method, "drainage") {
		t.Fatalf("unexpected irrigation: %+v", irr)
	}
	if a.Insights.PestRisk.Level != RiskHigh {
		t.Fatalf("expected high pest risk, got %s", a.Insights.PestRisk.Level)
	}
	if !contains(a.Recommendations, "Urgent: Stop irrigation and improve drainage immediately") {
		t.Errorf("missing urgent drainage recommendation: %v", a.Recommendations)
	}
	if !contains(a.PriorityActions, "URGENT: Improve drainage to prevent waterlogging") {
		t.Errorf("missing priority action: %v", a.PriorityActions)
	}
	if diff := cmp.Diff(MissingDataChecklist(), a.MissingData); diff != "" {
		t.Errorf("missing data should be the checklist (-want +got):\n%s", diff)
	}
}

func TestInfer_PartialFailureKeepsOtherSlices(t *testing.T) {
	soil := SoilMeasurement{CationExchange: uniform(18), ClayContent: uniform(25)}
	a := Infer(soil, Conditions{Moisture: 0.3, Temperature: 30})

	if len(a.Failed) == 0 || a.Failed[0] != "Soil health" {
		t.Fatalf("expected soil health failure, got %v", a.Failed)
	}
	if a.Insights.Irrigation.AmountMM != 10 {
		t.Errorf("irrigation should still be computed: %+v", a.Insights.Irrigation)
	}
	if len(a.Insights.CropSuitability.Suitable)+len(a.Insights.CropSuitability.Unsuitable) != 5 {
		t.Errorf("crop suitability should still be computed: %+v", a.Insights.CropSuitability)
	}
	if a.Insights.Fertilization.Nitrogen == 0 {
		t.Errorf("fertilization should still be computed")
	}
	if len(a.MissingData) != len(MissingDataChecklist())+len(a.Failed) {
		t.Errorf("expected one gap per failed slice: %v", a.MissingData)
	}
}

func TestInfer_Deterministic(t *testing.T) {
	soil := profile(1.7, 8, 45)
	cond := Conditions{Moisture: 0.12, Temperature: 36}
	if diff := cmp.Diff(Infer(soil, cond), Infer(soil, cond)); diff != "" {
		t.Fatalf("infer not deterministic:\n%s", diff)
	}
}

// #endregion infer-tests
