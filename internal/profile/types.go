package profile

import (
	"context"
	"errors"

	"github.com/danielpatrickdp/agri-advisor/internal/insights"
)

// #region entities
// User is a registered farmer.
type User struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Location          string   `json:"location"`
	FarmSize          *float64 `json:"farm_size,omitempty"`
	PreferredLanguage string   `json:"preferred_language,omitempty"`
}

// Farm is one plot owned by a user. Unknown facts are nil.
type Farm struct {
	ID                  int64    `json:"id"`
	UserID              int64    `json:"user_id"`
	Name                string   `json:"name"`
	SoilType            *string  `json:"soil_type,omitempty"`
	PH                  *float64 `json:"ph,omitempty"`
	OrganicCarbon       *float64 `json:"organic_carbon,omitempty"`
	IrrigationAvailable bool     `json:"irrigation_available"`
	IrrigationType      *string  `json:"irrigation_type,omitempty"`
	Area                *float64 `json:"area,omitempty"`
	Latitude            *float64 `json:"latitude,omitempty"`
	Longitude           *float64 `json:"longitude,omitempty"`
}

// HasSoilFacts reports whether the farm records a soil type or pH.
func (f Farm) HasSoilFacts() bool {
	return (f.SoilType != nil && *f.SoilType != "") || f.PH != nil
}

// HasCoordinates reports whether both latitude and longitude are known.
func (f Farm) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// Crop is reference data for one crop.
type Crop struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	LocalName       string   `json:"local_name,omitempty"`
	Season          string   `json:"season,omitempty"`
	SoilType        string   `json:"soil_type,omitempty"`
	PHMin           *float64 `json:"ph_min,omitempty"`
	PHMax           *float64 `json:"ph_max,omitempty"`
	TempMin         *float64 `json:"temp_min,omitempty"`
	TempMax         *float64 `json:"temp_max,omitempty"`
	YieldPerHectare *float64 `json:"yield_per_hectare,omitempty"`
}

// SoilProperty is reference data for one soil type.
type SoilProperty struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	LocalName      string   `json:"local_name,omitempty"`
	Texture        string   `json:"texture,omitempty"`
	Fertility      string   `json:"fertility,omitempty"`
	WaterRetention string   `json:"water_retention,omitempty"`
	SuitableCrops  []string `json:"suitable_crops,omitempty"`
}

// #endregion entities

// #region store-port
var (
	ErrNotFound = errors.New("not found")
	ErrNoResult = errors.New("no result")
)

// ClimateQuery selects crops whose ranges admit a soil, pH and climate.
type ClimateQuery struct {
	SoilType string
	PH       float64
	Rainfall float64
	TempMin  float64
	TempMax  float64
	Limit    int
}

// Store is the read side of the relational store used for profile lookups.
// Point lookups return ErrNotFound when no row matches.
type Store interface {
	UserByID(ctx context.Context, id int64) (*User, error)
	FirstUser(ctx context.Context) (*User, error)
	FarmsByUser(ctx context.Context, userID int64) ([]Farm, error)
	CropsForClimate(ctx context.Context, q ClimateQuery) ([]Crop, error)
	CropsBySoilType(ctx context.Context, soilType string, limit int) ([]Crop, error)
	Crops(ctx context.Context, limit int) ([]Crop, error)
	SoilProperties(ctx context.Context, nameLike string, limit int) ([]SoilProperty, error)
	LatestMeasurement(ctx context.Context, farmID int64) (*insights.SoilMeasurement, error)
}

// #endregion store-port

// #region policy
// Policy decides what happens when the referenced profile cannot be resolved.
type Policy string

const (
	// PolicyRequireProfile resolves only the referenced user.
	PolicyRequireProfile Policy = "require"
	// PolicyAnyProfile falls back to the first available user.
	PolicyAnyProfile Policy = "any"
)

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == PolicyRequireProfile || p == PolicyAnyProfile
}

// #endregion policy

// #region result
// Result is everything known about the asker. Gaps lists lookups that failed.
type Result struct {
	User        *User
	Farms       []Farm
	Crops       []Crop
	Soils       []SoilProperty
	Measurement *insights.SoilMeasurement
	UserSource  string // strategy that resolved the user
	CropSource  string // strategy that produced farm crops
	Gaps        []string
}

// PrimaryFarm returns the first farm, or nil.
func (r Result) PrimaryFarm() *Farm {
	if len(r.Farms) == 0 {
		return nil
	}
	return &r.Farms[0]
}

// #endregion result
