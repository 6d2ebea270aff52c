package weather

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// #region types

// Snapshot is the current weather at a farm.
type Snapshot struct {
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // percent
	Rainfall    float64 `json:"rainfall"`    // mm
	WindSpeed   float64 `json:"wind_speed"`  // km/h
	Conditions  string  `json:"conditions"`
}

// Provider returns the weather near a coordinate.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (*Snapshot, error)
}

// #endregion types

// #region static

// Static returns a fixed snapshot regardless of location.
type Static struct {
	Snapshot Snapshot
}

// NewStatic returns the default mocked snapshot.
func NewStatic() *Static {
	return &Static{Snapshot: Snapshot{
		Temperature: 28,
		Humidity:    65,
		Rainfall:    0,
		WindSpeed:   12,
		Conditions:  "Partly cloudy",
	}}
}

// Current implements Provider.
func (s *Static) Current(ctx context.Context, _, _ float64) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.Snapshot
	return &snap, nil
}

// #endregion static

// #region cache

type entry struct {
	snap    Snapshot
	expires time.Time
}

// Cache keeps snapshots per rounded coordinate for a fixed TTL.
type Cache struct {
	next Provider
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// NewCache wraps a provider with a TTL cache. A non-positive ttl defaults to one hour.
func NewCache(next Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{next: next, ttl: ttl, now: time.Now, entries: map[string]entry{}}
}

// Current implements Provider.
func (c *Cache) Current(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	key := cacheKey(lat, lon)
	now := c.now()

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && now.Before(e.expires) {
		c.mu.Unlock()
		snap := e.snap
		return &snap, nil
	}
	c.mu.Unlock()

	snap, err := c.next.Current(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("weather %s: %w", key, err)
	}

	c.mu.Lock()
	c.entries[key] = entry{snap: *snap, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return snap, nil
}

func cacheKey(lat, lon float64) string {
	round := func(v float64) float64 { return math.Round(v*100) / 100 }
	return fmt.Sprintf("%.2f,%.2f", round(lat), round(lon))
}

// #endregion cache

// #region format

// Format renders a snapshot as prompt lines.
func Format(s *Snapshot) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "- Temperature: %g°C\n", s.Temperature)
	fmt.Fprintf(&b, "- Humidity: %g%%\n", s.Humidity)
	fmt.Fprintf(&b, "- Rainfall: %gmm\n", s.Rainfall)
	fmt.Fprintf(&b, "- Wind Speed: %g km/h\n", s.WindSpeed)
	if s.Conditions != "" {
		fmt.Fprintf(&b, "- Conditions: %s\n", s.Conditions)
	}
	return b.String()
}

// #endregion format
