package insights

import "fmt"

// #region checklist
var missingDataChecklist = []string{
	"Soil pH levels (critical for crop selection)",
	"Organic carbon content (affects soil fertility)",
	"Available NPK levels (essential for fertilization)",
	"Daily rainfall data (affects irrigation planning)",
	"Current crop information (for specific recommendations)",
	"Irrigation schedule (for optimization)",
	"Recent fertilizer applications (for nutrient balance)",
	"Micronutrient levels (Zn, Fe, Mn, Cu, B)",
	"Weather data (humidity, wind, solar radiation)",
	"Pest and disease history",
	"Yield history for comparison",
}

// MissingDataChecklist returns the standing list of inputs the engine does not consume.
func MissingDataChecklist() []string {
	out := make([]string, len(missingDataChecklist))
	copy(out, missingDataChecklist)
	return out
}

// #endregion checklist

// #region infer
// Infer runs every analysis once and assembles the bundle. A slice that cannot
// be computed falls back to its zero value and is recorded in MissingData.
func Infer(soil SoilMeasurement, cond Conditions) Analysis {
	a := Analysis{MissingData: MissingDataChecklist()}
	gap := func(slice string, err error) {
		a.Failed = append(a.Failed, slice)
		a.MissingData = append(a.MissingData, fmt.Sprintf("%s unavailable: %v", slice, err))
	}

	health, healthErr := AnalyzeSoilHealth(soil, cond)
	if healthErr != nil {
		gap("Soil health", healthErr)
	}
	a.Insights.SoilHealth = health

	irrigation, irrigationErr := AdviseIrrigation(cond)
	if irrigationErr != nil {
		gap("Irrigation advice", irrigationErr)
	}
	a.Insights.Irrigation = irrigation

	if crops, err := AssessCropSuitability(soil, cond); err != nil {
		gap("Crop suitability", err)
	} else {
		a.Insights.CropSuitability = crops
	}

	if plan, err := PlanFertilization(soil); err != nil {
		gap("Fertilization plan", err)
	} else {
		a.Insights.Fertilization = plan
	}

	if pests, err := AssessPestRisk(cond); err != nil {
		gap("Pest risk", err)
	} else {
		a.Insights.PestRisk = pests
	}

	switch {
	case healthErr != nil:
		gap("Yield optimization", healthErr)
	case irrigationErr != nil:
		gap("Yield optimization", irrigationErr)
	default:
		a.Insights.YieldOptimization = OptimizeYield(health, irrigation)
	}

	if healthErr != nil {
		gap("Sustainability", healthErr)
	} else if sus, err := AssessSustainability(health, cond); err != nil {
		gap("Sustainability", err)
	} else {
		a.Insights.Sustainability = sus
	}

	a.Recommendations = recommendations(health, healthErr == nil, irrigation, irrigationErr == nil)
	a.PriorityActions = priorityActions(soil, cond)
	return a
}

// #endregion infer

// #region extras
func recommendations(health SoilHealth, healthOK bool, irrigation IrrigationAdvice, irrigationOK bool) []string {
	var recs []string
	if healthOK && health.Score < 70 {
		recs = append(recs, "Priority: Improve soil health before next planting season")
	}
	if irrigationOK && irrigation.AmountMM == 0 {
		recs = append(recs, "Urgent: Stop irrigation and improve drainage immediately")
	}
	return append(recs,
		"Collect soil samples for comprehensive analysis",
		"Set up weather monitoring station",
		"Document current crop and management practices",
		"Establish baseline yield measurements",
	)
}

func priorityActions(soil SoilMeasurement, cond Conditions) []string {
	actions := []string{}
	if cond.validMoisture() == nil {
		switch {
		case cond.Moisture > 0.4:
			actions = append(actions, "URGENT: Improve drainage to prevent waterlogging")
		case cond.Moisture < 0.15:
			actions = append(actions, "URGENT: Increase irrigation to prevent drought stress")
		}
	}
	if cond.validTemperature() == nil && cond.Temperature > 35 {
		actions = append(actions, "Monitor crops for heat stress", "Increase irrigation frequency during hot periods")
	}
	if soil.BulkDensity.Validate("bulk density") == nil && soil.BulkDensity.Average() > 1.6 {
		actions = append(actions, "Plan deep tillage or subsoiling for next season")
	}
	return actions
}

// #endregion extras
