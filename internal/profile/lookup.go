package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// #region keywords
var (
	cropMentions = []string{"crop", "बीज", "फसल", "பயிர்"}
	soilMentions = []string{"soil", "मिट्टी", "மண்"}
)

func mentions(query string, words []string) bool {
	q := strings.ToLower(query)
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

// #endregion keywords

// #region lookup
// Limits caps each reference-data scan.
type Limits struct {
	FarmCrops  int
	QueryCrops int
	QuerySoils int
	FarmSoils  int
}

// DefaultLimits returns the standard row caps.
func DefaultLimits() Limits {
	return Limits{FarmCrops: 5, QueryCrops: 5, QuerySoils: 3, FarmSoils: 2}
}

// Lookup resolves the asker's profile, farms and reference data.
type Lookup struct {
	store  Store
	policy Policy
	limits Limits
	log    *zap.Logger
}

// NewLookup creates a Lookup with an explicit fallback policy.
func NewLookup(store Store, policy Policy, limits Limits, log *zap.Logger) *Lookup {
	if log == nil {
		log = zap.NewNop()
	}
	if !policy.Valid() {
		policy = PolicyRequireProfile
	}
	return &Lookup{store: store, policy: policy, limits: limits, log: log}
}

// Resolve never fails. Store errors degrade to absent data and are listed in Result.Gaps.
func (l *Lookup) Resolve(ctx context.Context, ref *int64, query string) Result {
	var res Result

	userOut := RunChain(ctx, UserChain(l.store, l.policy, ref))
	if userOut.OK() {
		res.User = userOut.Value
		res.UserSource = userOut.Strategy
	}
	l.note(&res, "user", userOut.Errors, !userOut.OK())

	if res.User != nil {
		farms, err := l.store.FarmsByUser(ctx, res.User.ID)
		if err != nil {
			l.gap(&res, "farms", err)
		} else {
			res.Farms = farms
		}
	}

	farm := res.PrimaryFarm()
	if farm != nil {
		cropOut := RunChain(ctx, CropChain(l.store, *farm, l.limits.FarmCrops))
		if cropOut.OK() {
			res.Crops = cropOut.Value
			res.CropSource = cropOut.Strategy
		}
		l.note(&res, "farm crops", cropOut.Errors, false)
	}

	if mentions(query, cropMentions) {
		crops, err := l.store.Crops(ctx, l.limits.QueryCrops)
		if err != nil {
			l.gap(&res, "crops", err)
		} else {
			res.Crops = mergeCrops(res.Crops, crops)
		}
	}

	if mentions(query, soilMentions) {
		soils, err := l.store.SoilProperties(ctx, "", l.limits.QuerySoils)
		if err != nil {
			l.gap(&res, "soil properties", err)
		} else {
			res.Soils = mergeSoils(res.Soils, soils)
		}
	}

	if farm != nil && farm.SoilType != nil && *farm.SoilType != "" {
		soils, err := l.store.SoilProperties(ctx, *farm.SoilType, l.limits.FarmSoils)
		if err != nil {
			l.gap(&res, "farm soil properties", err)
		} else {
			res.Soils = mergeSoils(res.Soils, soils)
		}
	}

	if farm != nil {
		m, err := l.store.LatestMeasurement(ctx, farm.ID)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			l.gap(&res, "soil measurement", err)
		default:
			res.Measurement = m
		}
	}

	l.log.Debug("[PROFILE] resolved",
		zap.Bool("user", res.User != nil),
		zap.String("user_source", res.UserSource),
		zap.Int("farms", len(res.Farms)),
		zap.Int("crops", len(res.Crops)),
		zap.Int("soils", len(res.Soils)),
		zap.Bool("measurement", res.Measurement != nil),
		zap.Int("gaps", len(res.Gaps)))
	return res
}

// #endregion lookup

// #region helpers
func (l *Lookup) gap(res *Result, what string, err error) {
	l.log.Warn("[PROFILE] lookup failed", zap.String("what", what), zap.Error(err))
	res.Gaps = append(res.Gaps, fmt.Sprintf("%s: %v", what, err))
}

// note records chain errors as a gap unless they are all expected misses.
func (l *Lookup) note(res *Result, what string, errs []error, missing bool) {
	if len(errs) == 0 {
		return
	}
	if onlyMisses(errs) {
		if missing {
			res.Gaps = append(res.Gaps, what+": not available")
		}
		return
	}
	l.gap(res, what, errors.Join(errs...))
}

func mergeCrops(a, b []Crop) []Crop {
	seen := make(map[int64]bool, len(a))
	for _, c := range a {
		seen[c.ID] = true
	}
	for _, c := range b {
		if !seen[c.ID] {
			seen[c.ID] = true
			a = append(a, c)
		}
	}
	return a
}

func mergeSoils(a, b []SoilProperty) []SoilProperty {
	seen := make(map[int64]bool, len(a))
	for _, s := range a {
		seen[s.ID] = true
	}
	for _, s := range b {
		if !seen[s.ID] {
			seen[s.ID] = true
			a = append(a, s)
		}
	}
	return a
}

// #endregion helpers
