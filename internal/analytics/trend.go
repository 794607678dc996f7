package analytics

import (
	"math"

	"github.com/craftwatch/craftwatch/internal/model"
)

// trendOf fits a linear trend to the named metric across the series and
// classifies its direction. Fewer than 2 usable points degrade to
// insufficient_data with a zero slope; degeneracies are never errors.
func trendOf(points []point, metric string, epsilon float64) model.Trend {
	trend := model.Trend{
		Metric:      metric,
		Direction:   model.TrendInsufficientData,
		SampleCount: len(points),
	}

	fit, ok := fitLine(points)
	if !ok {
		return trend
	}

	slope := fit.slopePerHour()
	trend.Slope = round2(slope)

	// The stable band scales with the metric's own mean so a 20-TPS series
	// and a 2000-MB series use comparable relative thresholds.
	band := epsilon * math.Max(math.Abs(fit.mean), 1)
	switch {
	case slope > band:
		trend.Direction = model.TrendIncreasing
	case slope < -band:
		trend.Direction = model.TrendDecreasing
	default:
		trend.Direction = model.TrendStable
	}
	return trend
}
