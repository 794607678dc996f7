package model

import "time"

// TrendDirection classifies the slope of a fitted metric series.
type TrendDirection string

const (
	TrendIncreasing       TrendDirection = "increasing"
	TrendDecreasing       TrendDirection = "decreasing"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// Severity is the anomaly classification tier derived from z-score magnitude.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// HealthStatus summarizes the overall report outcome.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusWarning  HealthStatus = "warning"
	StatusCritical HealthStatus = "critical"
)

// Trend is the fitted linear trend of one metric over the reporting window.
// Slope is expressed in metric units per hour.
type Trend struct {
	Metric      string         `json:"metric"`
	Direction   TrendDirection `json:"direction"`
	Slope       float64        `json:"slope"`
	SampleCount int            `json:"sample_count"`
}

// Anomaly is one sample flagged as statistically outlying against the
// whole-window baseline.
type Anomaly struct {
	Metric         string   `json:"metric"`
	Timestamp      int64    `json:"timestamp"`
	Datetime       string   `json:"datetime,omitempty"`
	Value          float64  `json:"value"`
	ZScore         float64  `json:"z_score"`
	Severity       Severity `json:"severity"`
	BaselineMean   float64  `json:"baseline_mean"`
	BaselineStddev float64  `json:"baseline_stddev"`
}

// Prediction extrapolates one metric forward by a horizon. Confidence is in
// [0,1]; zero means the predicted value is just the last observation.
type Prediction struct {
	Metric         string  `json:"metric"`
	HorizonHours   int     `json:"horizon_hours"`
	PredictedValue float64 `json:"predicted_value"`
	Confidence     float64 `json:"confidence"`
}

// PlayerBehavior aggregates presence samples into activity patterns.
// UniquePlayers is nil when the samples expose only counts, not identities.
// PeakHour is -1 when the window holds no presence data.
type PlayerBehavior struct {
	Available          bool        `json:"available"`
	UniquePlayers      *int        `json:"unique_players"`
	HourlyDistribution map[int]int `json:"hourly_distribution"`
	PeakHour           int         `json:"peak_hour"`
}

// MetricReport bundles the per-metric analysis for one tracked metric.
type MetricReport struct {
	Trend      Trend      `json:"trend"`
	Anomalies  []Anomaly  `json:"anomalies"`
	Current    float64    `json:"current"`
	Average    float64    `json:"average"`
	Prediction *Prediction `json:"prediction,omitempty"`
}

// Summary is the synthesized report verdict.
type Summary struct {
	Status          HealthStatus `json:"status"`
	Warnings        []string     `json:"warnings"`
	Recommendations []string     `json:"recommendations"`
}

// Report is the full output of one analytics processing run. It is a pure
// function of the sample streams, the window, and the generation time; the
// latest successful report replaces the previous one wholesale.
type Report struct {
	GeneratedAt time.Time               `json:"generated_at"`
	PeriodHours int                     `json:"period_hours"`
	Summary     Summary                 `json:"summary"`
	Performance map[string]MetricReport `json:"performance,omitempty"`
	Players     *PlayerBehavior         `json:"players,omitempty"`
	Predictions map[string]Prediction   `json:"predictions,omitempty"`
	Skipped     int                     `json:"skipped_records,omitempty"`
}
