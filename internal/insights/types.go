package insights

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// #region depth-series
// DepthSeries holds one reading per depth interval, keyed like "0to5cm".
type DepthSeries map[string]float64

// Average is the arithmetic mean over the intervals present.
func (d DepthSeries) Average() float64 {
	if len(d) == 0 {
		return 0
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sum float64
	for _, k := range keys {
		sum += d[k]
	}
	return sum / float64(len(d))
}

// Validate rejects empty series and non-finite readings.
func (d DepthSeries) Validate(name string) error {
	if len(d) == 0 {
		return fmt.Errorf("%s: %w", name, ErrNoReadings)
	}
	for k, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s %s: %w", name, k, ErrBadReading)
		}
	}
	return nil
}

var (
	ErrNoReadings = errors.New("no readings")
	ErrBadReading = errors.New("non-finite reading")
)

// #endregion depth-series

// #region measurement
// SoilMeasurement is a per-depth soil profile for one farm. Units: bulk density
// g/cm³, CEC meq/100g, clay percent, moisture volumetric fraction, temperature °C.
type SoilMeasurement struct {
	BulkDensity     DepthSeries `json:"bulk_density" yaml:"bulk_density"`
	CationExchange  DepthSeries `json:"cation_exchange" yaml:"cation_exchange"`
	ClayContent     DepthSeries `json:"clay_content" yaml:"clay_content"`
	Moisture        DepthSeries `json:"moisture,omitempty" yaml:"moisture"`
	SkinTemperature DepthSeries `json:"skin_temperature,omitempty" yaml:"skin_temperature"`
}

// Conditions derives moisture and temperature from the measurement's own bands.
// A missing band yields NaN so the slices that need it are reported missing.
func (m SoilMeasurement) Conditions() Conditions {
	return Conditions{Moisture: bandAverage(m.Moisture), Temperature: bandAverage(m.SkinTemperature)}
}

func bandAverage(d DepthSeries) float64 {
	if len(d) == 0 {
		return math.NaN()
	}
	return d.Average()
}

// Conditions are the current moisture (volumetric fraction) and temperature (°C).
type Conditions struct {
	Moisture    float64 `json:"moisture"`
	Temperature float64 `json:"temperature"`
}

func (c Conditions) validMoisture() error {
	if math.IsNaN(c.Moisture) || math.IsInf(c.Moisture, 0) {
		return fmt.Errorf("moisture: %w", ErrBadReading)
	}
	return nil
}

func (c Conditions) validTemperature() error {
	if math.IsNaN(c.Temperature) || math.IsInf(c.Temperature, 0) {
		return fmt.Errorf("temperature: %w", ErrBadReading)
	}
	return nil
}

// #endregion measurement

// #region risk-level
// RiskLevel is an ordered pest-risk grade.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) rank() int {
	switch r {
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	default:
		return 0
	}
}

// Escalate returns the higher of r and to. It never downgrades.
func (r RiskLevel) Escalate(to RiskLevel) RiskLevel {
	if to.rank() > r.rank() {
		return to
	}
	if r == "" {
		return RiskLow
	}
	return r
}

// #endregion risk-level

// #region slices
// SoilHealth is a 0-100 score with one issue and one recommendation per breach.
type SoilHealth struct {
	Score           int      `json:"score"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// IrrigationAdvice is a weekly irrigation schedule.
type IrrigationAdvice struct {
	AmountMM         int    `json:"recommended_amount_mm"`
	FrequencyPerWeek int    `json:"frequency_per_week"`
	Timing           string `json:"timing"`
	Method           string `json:"method"`
}

// CropSuitability partitions the checked crops into suitable and unsuitable.
type CropSuitability struct {
	Suitable   []string `json:"suitable"`
	Unsuitable []string `json:"unsuitable"`
	Reasons    []string `json:"reasons"`
}

// FertilizationPlan gives NPK doses in kg/ha.
type FertilizationPlan struct {
	Nitrogen       int      `json:"nitrogen"`
	Phosphorus     int      `json:"phosphorus"`
	Potassium      int      `json:"potassium"`
	Micronutrients []string `json:"micronutrients"`
	Timing         string   `json:"timing"`
}

// PestRisk is the pest and disease outlook.
type PestRisk struct {
	Level      RiskLevel `json:"risk_level"`
	Pests      []string  `json:"potential_pests"`
	Prevention []string  `json:"prevention_measures"`
}

// YieldOptimization is an expected yield in kg/ha with the factors behind it.
type YieldOptimization struct {
	ExpectedYield int      `json:"expected_yield"`
	Factors       []string `json:"optimization_factors"`
	Actions       []string `json:"action_items"`
}

// Sustainability lists conservation practices.
type Sustainability struct {
	SoilConservation    []string `json:"soil_conservation"`
	WaterConservation   []string `json:"water_conservation"`
	EnvironmentalImpact []string `json:"environmental_impact"`
}

// Bundle groups the seven analyses.
type Bundle struct {
	SoilHealth        SoilHealth        `json:"soil_health"`
	Irrigation        IrrigationAdvice  `json:"irrigation_advice"`
	CropSuitability   CropSuitability   `json:"crop_suitability"`
	Fertilization     FertilizationPlan `json:"fertilization_plan"`
	PestRisk          PestRisk          `json:"pest_risk"`
	YieldOptimization YieldOptimization `json:"yield_optimization"`
	Sustainability    Sustainability    `json:"sustainability"`
}

// Analysis is the engine output for one measurement.
type Analysis struct {
	Insights        Bundle   `json:"insights"`
	MissingData     []string `json:"missing_data"`
	Recommendations []string `json:"recommendations"`
	PriorityActions []string `json:"priority_actions"`
	Failed          []string `json:"failed,omitempty"` // slices that fell back to neutral
}

// #endregion slices
