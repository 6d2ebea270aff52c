package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielpatrickdp/agri-advisor/internal/insights"
	"github.com/danielpatrickdp/agri-advisor/internal/profile"
)

var _ profile.Store = (*Store)(nil)

// #region users
const userColumns = `id, name, location, farm_size, preferred_language`

func scanUser(row interface{ Scan(...any) error }) (*profile.User, error) {
	var (
		u        profile.User
		location sql.NullString
		size     sql.NullFloat64
		lang     sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Name, &location, &size, &lang); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.ErrNotFound
		}
		return nil, err
	}
	u.Location = location.String
	u.FarmSize = floatPtr(size)
	u.PreferredLanguage = lang.String
	return &u, nil
}

// UserByID returns one user or profile.ErrNotFound.
func (s *Store) UserByID(ctx context.Context, id int64) (*profile.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, err
}

// FirstUser returns the user with the lowest id.
func (s *Store) FirstUser(ctx context.Context) (*profile.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT 1`))
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		return nil, fmt.Errorf("get first user: %w", err)
	}
	return u, err
}

// #endregion users

// #region farms
// FarmsByUser returns a user's farms ordered by id.
func (s *Store) FarmsByUser(ctx context.Context, userID int64) ([]profile.Farm, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, soil_type, ph, organic_carbon, irrigation_available, irrigation_type, area, latitude, longitude
		 FROM user_farms WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query farms: %w", err)
	}
	defer rows.Close()

	var farms []profile.Farm
	for rows.Next() {
		var (
			f                        profile.Farm
			soilType, irrigationType sql.NullString
			ph, carbon, area         sql.NullFloat64
			lat, lng                 sql.NullFloat64
		)
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &soilType, &ph, &carbon,
			&f.IrrigationAvailable, &irrigationType, &area, &lat, &lng); err != nil {
			return nil, fmt.Errorf("scan farm: %w", err)
		}
		f.SoilType = stringPtr(soilType)
		f.PH = floatPtr(ph)
		f.OrganicCarbon = floatPtr(carbon)
		f.IrrigationType = stringPtr(irrigationType)
		f.Area = floatPtr(area)
		f.Latitude = floatPtr(lat)
		f.Longitude = floatPtr(lng)
		farms = append(farms, f)
	}
	return farms, rows.Err()
}

// LatestMeasurement returns the most recent soil measurement for a farm.
func (s *Store) LatestMeasurement(ctx context.Context, farmID int64) (*insights.SoilMeasurement, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT bands_json FROM soil_measurements WHERE farm_id = ? ORDER BY measured_at DESC, id DESC LIMIT 1`,
		farmID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get measurement: %w", err)
	}
	var m insights.SoilMeasurement
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("unmarshal measurement: %w", err)
	}
	return &m, nil
}

// #endregion farms

// #region crops
const cropColumns = `id, name, local_name, season, soil_type, ph_min, ph_max, temp_min, temp_max, yield_per_hectare`

func (s *Store) queryCrops(ctx context.Context, query string, args ...any) ([]profile.Crop, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query crops: %w", err)
	}
	defer rows.Close()

	var crops []profile.Crop
	for rows.Next() {
		var (
			c                            profile.Crop
			local, season, soil          sql.NullString
			phMin, phMax, tMin, tMax, yl sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.Name, &local, &season, &soil, &phMin, &phMax, &tMin, &tMax, &yl); err != nil {
			return nil, fmt.Errorf("scan crop: %w", err)
		}
		c.LocalName = local.String
		c.Season = season.String
		c.SoilType = soil.String
		c.PHMin, c.PHMax = floatPtr(phMin), floatPtr(phMax)
		c.TempMin, c.TempMax = floatPtr(tMin), floatPtr(tMax)
		c.YieldPerHectare = floatPtr(yl)
		crops = append(crops, c)
	}
	return crops, rows.Err()
}

// CropsForClimate returns crops whose soil, pH, temperature and rainfall ranges
// admit the query. Missing range bounds never exclude a crop.
func (s *Store) CropsForClimate(ctx context.Context, q profile.ClimateQuery) ([]profile.Crop, error) {
	return s.queryCrops(ctx,
		`SELECT `+cropColumns+` FROM crops
		 WHERE soil_type LIKE ? ESCAPE '\'
		   AND (ph_min IS NULL OR ph_min <= ?) AND (ph_max IS NULL OR ph_max >= ?)
		   AND (temp_min IS NULL OR temp_min <= ?) AND (temp_max IS NULL OR temp_max >= ?)
		   AND (rainfall_min IS NULL OR rainfall_min <= ?) AND (rainfall_max IS NULL OR rainfall_max >= ?)
		 ORDER BY id LIMIT ?`,
		likePattern(q.SoilType), q.PH, q.PH, q.TempMax, q.TempMin, q.Rainfall, q.Rainfall, limitOrAll(q.Limit))
}

// CropsBySoilType returns crops whose soil type mentions soilType.
func (s *Store) CropsBySoilType(ctx context.Context, soilType string, limit int) ([]profile.Crop, error) {
	return s.queryCrops(ctx,
		`SELECT `+cropColumns+` FROM crops WHERE soil_type LIKE ? ESCAPE '\' ORDER BY id LIMIT ?`,
		likePattern(soilType), limitOrAll(limit))
}

// Crops returns up to limit crops ordered by id.
func (s *Store) Crops(ctx context.Context, limit int) ([]profile.Crop, error) {
	return s.queryCrops(ctx, `SELECT `+cropColumns+` FROM crops ORDER BY id LIMIT ?`, limitOrAll(limit))
}

// #endregion crops

// #region soils
// SoilProperties returns soil reference rows whose name mentions nameLike.
// An empty nameLike matches every row.
func (s *Store) SoilProperties(ctx context.Context, nameLike string, limit int) ([]profile.SoilProperty, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, local_name, texture, fertility, water_retention, suitable_crops
		 FROM soil_properties WHERE name LIKE ? ESCAPE '\' ORDER BY id LIMIT ?`,
		likePattern(nameLike), limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("query soil properties: %w", err)
	}
	defer rows.Close()

	var soils []profile.SoilProperty
	for rows.Next() {
		var (
			sp                                        profile.SoilProperty
			local, texture, fertility, water, suitable sql.NullString
		)
		if err := rows.Scan(&sp.ID, &sp.Name, &local, &texture, &fertility, &water, &suitable); err != nil {
			return nil, fmt.Errorf("scan soil property: %w", err)
		}
		sp.LocalName = local.String
		sp.Texture = texture.String
		sp.Fertility = fertility.String
		sp.WaterRetention = water.String
		sp.SuitableCrops = decodeList(suitable)
		soils = append(soils, sp)
	}
	return soils, rows.Err()
}

func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// #endregion soils
