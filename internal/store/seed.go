package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/agri-advisor/internal/insights"
)

// #region fixture
// Fixture is reference and profile data loaded from YAML.
type Fixture struct {
	Users     []FixtureUser   `yaml:"users"`
	Crops     []FixtureCrop   `yaml:"crops"`
	Soils     []FixtureSoil   `yaml:"soils"`
	Knowledge []FixtureRecord `yaml:"knowledge"`
	FAQs      []FixtureRecord `yaml:"faqs"`
	Practices []FixtureRecord `yaml:"practices"`
}

type FixtureUser struct {
	ID                int64         `yaml:"id"`
	Name              string        `yaml:"name"`
	Location          string        `yaml:"location"`
	FarmSize          *float64      `yaml:"farm_size"`
	PreferredLanguage string        `yaml:"preferred_language"`
	Farms             []FixtureFarm `yaml:"farms"`
}

type FixtureFarm struct {
	ID                  int64                `yaml:"id"`
	Name                string               `yaml:"name"`
	SoilType            *string              `yaml:"soil_type"`
	PH                  *float64             `yaml:"ph"`
	OrganicCarbon       *float64             `yaml:"organic_carbon"`
	IrrigationAvailable bool                 `yaml:"irrigation_available"`
	IrrigationType      *string              `yaml:"irrigation_type"`
	Area                *float64             `yaml:"area"`
	Latitude            *float64             `yaml:"latitude"`
	Longitude           *float64             `yaml:"longitude"`
	Measurements        []FixtureMeasurement `yaml:"measurements"`
}

type FixtureMeasurement struct {
	MeasuredAt               time.Time `yaml:"measured_at"`
	insights.SoilMeasurement `yaml:",inline"`
}

type FixtureCrop struct {
	ID              int64    `yaml:"id"`
	Name            string   `yaml:"name"`
	LocalName       string   `yaml:"local_name"`
	Season          string   `yaml:"season"`
	SoilType        string   `yaml:"soil_type"`
	PHMin           *float64 `yaml:"ph_min"`
	PHMax           *float64 `yaml:"ph_max"`
	TempMin         *float64 `yaml:"temp_min"`
	TempMax         *float64 `yaml:"temp_max"`
	RainfallMin     *float64 `yaml:"rainfall_min"`
	RainfallMax     *float64 `yaml:"rainfall_max"`
	YieldPerHectare *float64 `yaml:"yield_per_hectare"`
}

type FixtureSoil struct {
	ID             int64    `yaml:"id"`
	Name           string   `yaml:"name"`
	LocalName      string   `yaml:"local_name"`
	Texture        string   `yaml:"texture"`
	Fertility      string   `yaml:"fertility"`
	WaterRetention string   `yaml:"water_retention"`
	SuitableCrops  []string `yaml:"suitable_crops"`
}

// FixtureRecord is one knowledge, FAQ or practice row. For FAQs Title is the
// question and Body the answer.
type FixtureRecord struct {
	ID         string   `yaml:"id"`
	CategoryID string   `yaml:"category_id"`
	Title      string   `yaml:"title"`
	Body       string   `yaml:"body"`
	Summary    string   `yaml:"summary"`
	Tags       []string `yaml:"tags"`
	Keywords   []string `yaml:"keywords"`
	Region     string   `yaml:"region"`
	CropType   string   `yaml:"crop_type"`
	Difficulty string   `yaml:"difficulty"`
	Steps      []string `yaml:"steps"`
	Benefits   []string `yaml:"benefits"`
	Inactive   bool     `yaml:"inactive"`
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return f, nil
}

// #endregion fixture

// #region seed
// Seed writes a fixture in one transaction. Seeding the same fixture twice leaves one copy of every row.
func (s *Store) Seed(ctx context.Context, f Fixture) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, u := range f.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name, location, farm_size, preferred_language) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, location = excluded.location,
			   farm_size = excluded.farm_size, preferred_language = excluded.preferred_language`,
			u.ID, u.Name, u.Location, nullFloat(u.FarmSize), u.PreferredLanguage); err != nil {
			return fmt.Errorf("insert user %d: %w", u.ID, err)
		}
		for _, fm := range u.Farms {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO user_farms
				 (id, user_id, name, soil_type, ph, organic_carbon, irrigation_available, irrigation_type, area, latitude, longitude)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, name = excluded.name,
				   soil_type = excluded.soil_type, ph = excluded.ph, organic_carbon = excluded.organic_carbon,
				   irrigation_available = excluded.irrigation_available, irrigation_type = excluded.irrigation_type,
				   area = excluded.area, latitude = excluded.latitude, longitude = excluded.longitude`,
				fm.ID, u.ID, fm.Name, nullString(fm.SoilType), nullFloat(fm.PH), nullFloat(fm.OrganicCarbon),
				fm.IrrigationAvailable, nullString(fm.IrrigationType), nullFloat(fm.Area),
				nullFloat(fm.Latitude), nullFloat(fm.Longitude)); err != nil {
				return fmt.Errorf("insert farm %d: %w", fm.ID, err)
			}
			for _, m := range fm.Measurements {
				bands, err := json.Marshal(m.SoilMeasurement)
				if err != nil {
					return fmt.Errorf("marshal measurement: %w", err)
				}
				at := m.MeasuredAt
				if at.IsZero() {
					at = time.Now()
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT OR REPLACE INTO soil_measurements (farm_id, measured_at, bands_json) VALUES (?, ?, ?)`,
					fm.ID, at.UTC().Format(time.RFC3339Nano), string(bands)); err != nil {
					return fmt.Errorf("insert measurement for farm %d: %w", fm.ID, err)
				}
			}
		}
	}

	for _, c := range f.Crops {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO crops
			 (id, name, local_name, season, soil_type, ph_min, ph_max, temp_min, temp_max, rainfall_min, rainfall_max, yield_per_hectare)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.LocalName, c.Season, c.SoilType, nullFloat(c.PHMin), nullFloat(c.PHMax),
			nullFloat(c.TempMin), nullFloat(c.TempMax), nullFloat(c.RainfallMin), nullFloat(c.RainfallMax),
			nullFloat(c.YieldPerHectare)); err != nil {
			return fmt.Errorf("insert crop %d: %w", c.ID, err)
		}
	}

	for _, sp := range f.Soils {
		suitable, err := encodeList(sp.SuitableCrops)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO soil_properties (id, name, local_name, texture, fertility, water_retention, suitable_crops)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sp.ID, sp.Name, sp.LocalName, sp.Texture, sp.Fertility, sp.WaterRetention, suitable); err != nil {
			return fmt.Errorf("insert soil %d: %w", sp.ID, err)
		}
	}

	if err := seedRecords(ctx, tx, f); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func seedRecords(ctx context.Context, tx *sql.Tx, f Fixture) error {
	for _, r := range f.Knowledge {
		tags, keys, err := recordTerms(r)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO agricultural_knowledge
			 (id, category_id, title, content, summary, tags, keywords, region, crop_type, difficulty, is_active)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.CategoryID, r.Title, r.Body, r.Summary, tags, keys, r.Region, r.CropType, r.Difficulty, !r.Inactive); err != nil {
			return fmt.Errorf("insert knowledge %s: %w", r.ID, err)
		}
	}
	for _, r := range f.FAQs {
		tags, keys, err := recordTerms(r)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO agricultural_faqs
			 (id, category_id, question, answer, tags, keywords, region, crop_type, is_active)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.CategoryID, r.Title, r.Body, tags, keys, r.Region, r.CropType, !r.Inactive); err != nil {
			return fmt.Errorf("insert faq %s: %w", r.ID, err)
		}
	}
	for _, r := range f.Practices {
		tags, keys, err := recordTerms(r)
		if err != nil {
			return err
		}
		steps, err := encodeList(r.Steps)
		if err != nil {
			return err
		}
		benefits, err := encodeList(r.Benefits)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO agricultural_practices
			 (id, category_id, title, description, summary, steps, benefits, tags, keywords, region, crop_type, difficulty, is_active)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.CategoryID, r.Title, r.Body, r.Summary, steps, benefits, tags, keys,
			r.Region, r.CropType, r.Difficulty, !r.Inactive); err != nil {
			return fmt.Errorf("insert practice %s: %w", r.ID, err)
		}
	}
	return nil
}

func recordTerms(r FixtureRecord) (string, string, error) {
	tags, err := encodeList(r.Tags)
	if err != nil {
		return "", "", err
	}
	keys, err := encodeList(r.Keywords)
	if err != nil {
		return "", "", err
	}
	return tags, keys, nil
}

// #endregion seed
