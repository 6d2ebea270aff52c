package insights

import (
	"fmt"
	"math"
)

// #region soil-health
// AnalyzeSoilHealth scores the soil from a base of 70, deducting per threshold breach.
func AnalyzeSoilHealth(soil SoilMeasurement, cond Conditions) (SoilHealth, error) {
	if err := firstErr(
		soil.BulkDensity.Validate("bulk density"),
		soil.CationExchange.Validate("cation exchange"),
		soil.ClayContent.Validate("clay content"),
		cond.validMoisture(),
	); err != nil {
		return SoilHealth{}, err
	}

	h := SoilHealth{Score: 70, Issues: []string{}, Recommendations: []string{}}
	breach := func(penalty int, issue, rec string) {
		h.Score -= penalty
		h.Issues = append(h.Issues, issue)
		h.Recommendations = append(h.Recommendations, rec)
	}

	switch bd := soil.BulkDensity.Average(); {
	case bd > 1.6:
		breach(15, "High bulk density indicates soil compaction", "Implement deep tillage or subsoiling")
	case bd < 1.2:
		breach(10, "Low bulk density may indicate poor soil structure", "Add organic matter to improve soil structure")
	}

	switch cec := soil.CationExchange.Average(); {
	case cec < 10:
		breach(20, "Low cation exchange capacity limits nutrient retention", "Add clay or organic matter to improve CEC")
	case cec > 25:
		breach(10, "Very high CEC may indicate excessive clay content", "Monitor drainage and aeration")
	}

	switch clay := soil.ClayContent.Average(); {
	case clay > 40:
		breach(10, "High clay content may cause drainage issues", "Improve drainage and avoid over-irrigation")
	case clay < 10:
		breach(15, "Low clay content reduces water and nutrient retention", "Add clay or organic matter")
	}

	switch {
	case cond.Moisture > 0.4:
		breach(10, "High soil moisture may cause waterlogging", "Improve drainage and reduce irrigation")
	case cond.Moisture < 0.15:
		breach(15, "Low soil moisture indicates drought stress", "Increase irrigation frequency")
	}

	h.Score = clamp(h.Score, 0, 100)
	return h, nil
}

// #endregion soil-health

// #region irrigation
// AdviseIrrigation picks a dose by moisture band, raising it in heat above 35°C.
func AdviseIrrigation(cond Conditions) (IrrigationAdvice, error) {
	if err := firstErr(cond.validMoisture(), cond.validTemperature()); err != nil {
		return IrrigationAdvice{}, err
	}

	var amount float64
	var a IrrigationAdvice
	switch m := cond.Moisture; {
	case m < 0.15:
		amount, a.FrequencyPerWeek = 25, 2
		a.Timing, a.Method = "Early morning (6-8 AM)", "Drip irrigation recommended"
	case m < 0.25:
		amount, a.FrequencyPerWeek = 15, 1
		a.Timing, a.Method = "Early morning", "Drip or sprinkler irrigation"
	case m > 0.4:
		amount, a.FrequencyPerWeek = 0, 0
		a.Timing, a.Method = "Stop irrigation", "Improve drainage first"
	default:
		amount, a.FrequencyPerWeek = 10, 1
		a.Timing, a.Method = "Early morning", "Light irrigation only"
	}

	if cond.Temperature > 35 {
		amount *= 1.2
		a.FrequencyPerWeek = min(3, a.FrequencyPerWeek+1)
	}
	a.AmountMM = int(math.Round(amount))
	return a, nil
}

// #endregion irrigation

// #region crop-suitability
type cropCheck struct {
	name       string
	fits       func(clay, cec, moisture float64) bool
	goodReason string
	badReason  string
}

var cropChecks = []cropCheck{
	{
		name:       "Rice (Paddy)",
		fits:       func(clay, _, m float64) bool { return clay > 20 && m > 0.3 },
		goodReason: "High clay content and moisture suitable for rice cultivation",
		badReason:  "Insufficient clay content or moisture for rice",
	},
	{
		name:       "Wheat",
		fits:       func(clay, _, m float64) bool { return clay > 15 && clay < 35 && m < 0.4 },
		goodReason: "Moderate clay content and good drainage for wheat",
		badReason:  "Soil conditions not optimal for wheat",
	},
	{
		name:       "Cotton",
		fits:       func(clay, _, m float64) bool { return clay < 30 && m < 0.35 },
		goodReason: "Well-drained soil suitable for cotton",
		badReason:  "Soil too heavy or wet for cotton",
	},
	{
		name:       "Sugarcane",
		fits:       func(_, cec, m float64) bool { return cec > 15 && m > 0.25 },
		goodReason: "Good nutrient retention and moisture for sugarcane",
		badReason:  "Insufficient nutrient retention or moisture",
	},
	{
		name:       "Maize",
		fits:       func(clay, _, m float64) bool { return clay < 25 && m < 0.4 },
		goodReason: "Well-drained soil suitable for maize",
		badReason:  "Soil conditions not optimal for maize",
	},
}

// AssessCropSuitability places every checked crop in exactly one list.
func AssessCropSuitability(soil SoilMeasurement, cond Conditions) (CropSuitability, error) {
	if err := firstErr(
		soil.ClayContent.Validate("clay content"),
		soil.CationExchange.Validate("cation exchange"),
		cond.validMoisture(),
	); err != nil {
		return CropSuitability{}, err
	}

	clay, cec := soil.ClayContent.Average(), soil.CationExchange.Average()
	c := CropSuitability{Suitable: []string{}, Unsuitable: []string{}, Reasons: []string{}}
	for _, check := range cropChecks {
		if check.fits(clay, cec, cond.Moisture) {
			c.Suitable = append(c.Suitable, check.name)
			c.Reasons = append(c.Reasons, check.goodReason)
		} else {
			c.Unsuitable = append(c.Unsuitable, check.name)
			c.Reasons = append(c.Reasons, check.badReason)
		}
	}
	return c, nil
}

// #endregion crop-suitability

// #region fertilization
// PlanFertilization scales base NPK of 120/60/80 kg/ha by CEC and clay band.
func PlanFertilization(soil SoilMeasurement) (FertilizationPlan, error) {
	if err := firstErr(
		soil.CationExchange.Validate("cation exchange"),
		soil.ClayContent.Validate("clay content"),
	); err != nil {
		return FertilizationPlan{}, err
	}

	n, p, k := 120.0, 60.0, 80.0
	switch cec := soil.CationExchange.Average(); {
	case cec < 10:
		n, p, k = n*0.8, p*0.7, k*0.6
	case cec > 20:
		n, p, k = n*1.2, p*1.1, k*1.3
	}
	switch clay := soil.ClayContent.Average(); {
	case clay > 30:
		n, p = n*1.1, p*1.2
	case clay < 15:
		n, p = n*0.9, p*0.8
	}

	return FertilizationPlan{
		Nitrogen:       int(math.Round(n)),
		Phosphorus:     int(math.Round(p)),
		Potassium:      int(math.Round(k)),
		Micronutrients: []string{"Zinc", "Iron", "Manganese"},
		Timing:         "Split application: 50% at planting, 25% at tillering, 25% at flowering",
	}, nil
}

// #endregion fertilization

// #region pest-risk
// AssessPestRisk grades pest pressure from moisture and heat. The level only escalates.
func AssessPestRisk(cond Conditions) (PestRisk, error) {
	if err := firstErr(cond.validMoisture(), cond.validTemperature()); err != nil {
		return PestRisk{}, err
	}

	r := PestRisk{Level: RiskLow, Pests: []string{}, Prevention: []string{}}
	switch {
	case cond.Moisture > 0.35:
		r.Level = r.Level.Escalate(RiskHigh)
		r.Pests = append(r.Pests, "Root rot", "Fungal diseases", "Bacterial wilt")
		r.Prevention = append(r.Prevention, "Improve drainage", "Avoid over-irrigation", "Apply fungicides")
	case cond.Moisture > 0.25:
		r.Level = r.Level.Escalate(RiskMedium)
		r.Pests = append(r.Pests, "Fungal diseases")
		r.Prevention = append(r.Prevention, "Monitor soil moisture", "Apply preventive fungicides")
	}

	if cond.Temperature > 35 {
		r.Level = r.Level.Escalate(RiskMedium)
		r.Pests = append(r.Pests, "Aphids", "Whiteflies", "Thrips")
		r.Prevention = append(r.Prevention, "Use reflective mulches", "Apply insecticides", "Increase irrigation")
	}
	return r, nil
}

// #endregion pest-risk

// #region yield
// OptimizeYield estimates yield from a 3000 kg/ha base using soil health and irrigation advice.
func OptimizeYield(health SoilHealth, irrigation IrrigationAdvice) YieldOptimization {
	y := YieldOptimization{Factors: []string{}, Actions: []string{}}
	expected := 3000.0
	switch {
	case health.Score > 80:
		expected *= 1.2
		y.Factors = append(y.Factors, "Excellent soil health")
	case health.Score > 60:
		y.Factors = append(y.Factors, "Good soil health")
	default:
		expected *= 0.8
		y.Factors = append(y.Factors, "Soil health needs improvement")
		y.Actions = append(y.Actions, "Improve soil health before planting")
	}

	if irrigation.AmountMM > 0 {
		y.Factors = append(y.Factors, "Optimal irrigation scheduling")
		y.Actions = append(y.Actions, fmt.Sprintf("Apply %dmm irrigation %d times per week",
			irrigation.AmountMM, irrigation.FrequencyPerWeek))
	} else {
		y.Actions = append(y.Actions, "Stop irrigation and improve drainage")
	}
	y.ExpectedYield = int(math.Round(expected))
	return y
}

// #endregion yield

// #region sustainability
// AssessSustainability lists conservation practices for the soil score and moisture band.
func AssessSustainability(health SoilHealth, cond Conditions) (Sustainability, error) {
	if err := cond.validMoisture(); err != nil {
		return Sustainability{}, err
	}

	s := Sustainability{SoilConservation: []string{}, WaterConservation: []string{}}
	if health.Score < 70 {
		s.SoilConservation = append(s.SoilConservation,
			"Implement cover cropping", "Practice crop rotation", "Add organic matter")
	}
	switch {
	case cond.Moisture < 0.2:
		s.WaterConservation = append(s.WaterConservation,
			"Implement mulching", "Use drip irrigation", "Improve water storage")
	case cond.Moisture > 0.4:
		s.WaterConservation = append(s.WaterConservation,
			"Improve drainage systems", "Avoid over-irrigation")
	}
	s.EnvironmentalImpact = []string{
		"Monitor soil carbon levels",
		"Reduce chemical inputs",
		"Implement integrated pest management",
	}
	return s, nil
}

// #endregion sustainability

// #region helpers
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion helpers
