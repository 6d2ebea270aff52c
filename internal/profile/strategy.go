package profile

import (
	"context"
	"errors"
	"fmt"
)

// #region chain
// Strategy is one step of an ordered fallback chain.
type Strategy[T any] interface {
	Name() string
	Run(ctx context.Context) (T, error)
}

type funcStrategy[T any] struct {
	name string
	run  func(ctx context.Context) (T, error)
}

func (s funcStrategy[T]) Name() string                       { return s.name }
func (s funcStrategy[T]) Run(ctx context.Context) (T, error) { return s.run(ctx) }

// NewStrategy wraps a function as a named Strategy.
func NewStrategy[T any](name string, run func(ctx context.Context) (T, error)) Strategy[T] {
	return funcStrategy[T]{name: name, run: run}
}

// Outcome is the value of the first strategy that succeeded, if any.
type Outcome[T any] struct {
	Value    T
	Strategy string
	Errors   []error
}

// OK reports whether some strategy succeeded.
func (o Outcome[T]) OK() bool { return o.Strategy != "" }

// RunChain tries each strategy in order and stops at the first that returns no error.
func RunChain[T any](ctx context.Context, chain []Strategy[T]) Outcome[T] {
	var out Outcome[T]
	for _, s := range chain {
		if err := ctx.Err(); err != nil {
			out.Errors = append(out.Errors, err)
			return out
		}
		v, err := s.Run(ctx)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		out.Value = v
		out.Strategy = s.Name()
		return out
	}
	return out
}

// onlyMisses reports whether every error is an expected miss rather than a failure.
func onlyMisses(errs []error) bool {
	for _, err := range errs {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNoResult) {
			return false
		}
	}
	return true
}

// #endregion chain

// #region user-strategies
// ByID resolves the referenced user.
func ByID(store Store, id *int64) Strategy[*User] {
	return NewStrategy("by-id", func(ctx context.Context) (*User, error) {
		if id == nil {
			return nil, ErrNoResult
		}
		u, err := store.UserByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, ErrNotFound
		}
		return u, nil
	})
}

// FirstAvailable resolves the user with the lowest id.
func FirstAvailable(store Store) Strategy[*User] {
	return NewStrategy("first-available", func(ctx context.Context) (*User, error) {
		u, err := store.FirstUser(ctx)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, ErrNotFound
		}
		return u, nil
	})
}

// UserChain builds the user resolution chain for a policy.
func UserChain(store Store, policy Policy, id *int64) []Strategy[*User] {
	chain := []Strategy[*User]{ByID(store, id)}
	if policy == PolicyAnyProfile {
		chain = append(chain, FirstAvailable(store))
	}
	return chain
}

// #endregion user-strategies

// #region crop-strategies
// Climate defaults used when matching crops to a farm.
const (
	defaultRainfall = 1000
	defaultTempMin  = 20
	defaultTempMax  = 35
)

// ClimateMatch selects crops whose soil, pH and temperature ranges admit the farm.
// It needs both a soil type and a pH.
func ClimateMatch(store Store, farm Farm, limit int) Strategy[[]Crop] {
	return NewStrategy("climate-match", func(ctx context.Context) ([]Crop, error) {
		if farm.SoilType == nil || *farm.SoilType == "" || farm.PH == nil {
			return nil, ErrNoResult
		}
		crops, err := store.CropsForClimate(ctx, ClimateQuery{
			SoilType: *farm.SoilType,
			PH:       *farm.PH,
			Rainfall: defaultRainfall,
			TempMin:  defaultTempMin,
			TempMax:  defaultTempMax,
			Limit:    limit,
		})
		if err != nil {
			return nil, err
		}
		if len(crops) == 0 {
			return nil, ErrNoResult
		}
		return crops, nil
	})
}

// SoilTypeMatch selects crops whose soil type mentions the farm's soil type.
func SoilTypeMatch(store Store, farm Farm, limit int) Strategy[[]Crop] {
	return NewStrategy("soil-type-match", func(ctx context.Context) ([]Crop, error) {
		if farm.SoilType == nil || *farm.SoilType == "" {
			return nil, ErrNoResult
		}
		crops, err := store.CropsBySoilType(ctx, *farm.SoilType, limit)
		if err != nil {
			return nil, err
		}
		if len(crops) == 0 {
			return nil, ErrNoResult
		}
		return crops, nil
	})
}

// CropChain builds the farm crop chain. When every strategy misses no crops are added.
func CropChain(store Store, farm Farm, limit int) []Strategy[[]Crop] {
	return []Strategy[[]Crop]{
		ClimateMatch(store, farm, limit),
		SoilTypeMatch(store, farm, limit),
	}
}

// #endregion crop-strategies
