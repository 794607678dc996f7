package analytics

import "github.com/craftwatch/craftwatch/internal/model"

// Config holds the product-tuning constants of the engine. The z-score tiers
// and the trend epsilon are deliberately configuration, not code.
type Config struct {
	// TrendEpsilon bounds the "stable" band of the trend classifier. A slope
	// (units/hour) is stable when |slope| <= TrendEpsilon * max(|mean|, 1),
	// so the band scales with the metric's own magnitude and small noisy
	// metrics are not misread as trending.
	TrendEpsilon float64

	// Z-score severity tiers, low <= medium <= high.
	ZLow    float64
	ZMedium float64
	ZHigh   float64

	// HorizonHours is the default prediction horizon.
	HorizonHours int

	// PerformanceMetrics are the tracked performance-category metrics.
	PerformanceMetrics []string

	// PredictionMetrics receive a forward extrapolation in the full report.
	PredictionMetrics []string
}

// DefaultConfig mirrors the tuning the dashboards were built against.
func DefaultConfig() Config {
	return Config{
		TrendEpsilon:       0.01,
		ZLow:               1.5,
		ZMedium:            2.0,
		ZHigh:              3.0,
		HorizonHours:       model.DefaultHorizonHours,
		PerformanceMetrics: []string{"tps", "cpu", "memory"},
		PredictionMetrics:  []string{"tps", "memory"},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TrendEpsilon <= 0 {
		c.TrendEpsilon = d.TrendEpsilon
	}
	if c.ZLow <= 0 {
		c.ZLow = d.ZLow
	}
	if c.ZMedium <= 0 {
		c.ZMedium = d.ZMedium
	}
	if c.ZHigh <= 0 {
		c.ZHigh = d.ZHigh
	}
	if c.HorizonHours <= 0 {
		c.HorizonHours = d.HorizonHours
	}
	if len(c.PerformanceMetrics) == 0 {
		c.PerformanceMetrics = d.PerformanceMetrics
	}
	if len(c.PredictionMetrics) == 0 {
		c.PredictionMetrics = d.PredictionMetrics
	}
	return c
}
