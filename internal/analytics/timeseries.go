package analytics

import (
	"math"

	"github.com/craftwatch/craftwatch/internal/model"
)

// point is one (timestamp, value) observation extracted from a sample series.
type point struct {
	ts    int64
	value float64
}

// extract pulls the named metric out of a sample series, dropping samples
// that lack it.
func extract(samples []model.MetricSample, metric string) []point {
	var points []point
	for i := range samples {
		if v, ok := samples[i].Metric(metric); ok {
			points = append(points, point{ts: samples[i].Timestamp, value: v})
		}
	}
	return points
}

// extractPlayerCounts derives a concurrency series from players-category
// samples, accepting both identifier lists and bare counts.
func extractPlayerCounts(samples []model.MetricSample) []point {
	var points []point
	for i := range samples {
		if n, ok := samples[i].PlayerCount(); ok {
			points = append(points, point{ts: samples[i].Timestamp, value: float64(n)})
		}
	}
	return points
}

// linearFit holds an ordinary least-squares line fitted over a point series,
// with x measured in seconds since the first observation.
type linearFit struct {
	slope     float64 // units per second
	intercept float64
	n         int
	mean      float64
	rmse      float64
	valueMin  float64
	valueMax  float64
	firstTS   int64
	lastTS    int64
	lastValue float64
}

// slopePerHour converts the fitted slope to metric units per hour.
func (f linearFit) slopePerHour() float64 {
	return f.slope * 3600
}

// fitLine computes an OLS fit over points. The second return is false when
// fewer than 2 points are available or the series is degenerate in time
// (all observations share one timestamp).
func fitLine(points []point) (linearFit, bool) {
	fit := linearFit{n: len(points)}
	if len(points) > 0 {
		last := points[len(points)-1]
		fit.firstTS = points[0].ts
		fit.lastTS = last.ts
		fit.lastValue = last.value
	}
	if len(points) < 2 {
		return fit, false
	}

	t0 := points[0].ts
	var sumX, sumY float64
	fit.valueMin = points[0].value
	fit.valueMax = points[0].value
	for _, p := range points {
		sumX += float64(p.ts - t0)
		sumY += p.value
		fit.valueMin = math.Min(fit.valueMin, p.value)
		fit.valueMax = math.Max(fit.valueMax, p.value)
	}
	n := float64(len(points))
	meanX := sumX / n
	meanY := sumY / n
	fit.mean = meanY

	var num, den float64
	for _, p := range points {
		dx := float64(p.ts-t0) - meanX
		num += dx * (p.value - meanY)
		den += dx * dx
	}
	if den == 0 {
		return fit, false
	}
	fit.slope = num / den
	fit.intercept = meanY - fit.slope*meanX

	var sumSq float64
	for _, p := range points {
		resid := p.value - (fit.intercept + fit.slope*float64(p.ts-t0))
		sumSq += resid * resid
	}
	fit.rmse = math.Sqrt(sumSq / n)

	return fit, true
}

// meanStddev returns the mean and sample (n-1) standard deviation of the
// series. Stddev is 0 for fewer than 2 points.
func meanStddev(points []point) (float64, float64) {
	if len(points) == 0 {
		return 0, 0
	}
	var sum float64
	for _, p := range points {
		sum += p.value
	}
	mean := sum / float64(len(points))
	if len(points) < 2 {
		return mean, 0
	}
	var variance float64
	for _, p := range points {
		diff := p.value - mean
		variance += diff * diff
	}
	return mean, math.Sqrt(variance / float64(len(points)-1))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// round2 keeps report payloads readable without losing analytical meaning.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
