package analytics

import (
	"math"
	"sort"

	"github.com/craftwatch/craftwatch/internal/model"
)

// detectAnomalies scores every sample of the series against the whole-window
// baseline and returns the outliers ordered by timestamp ascending. A series
// with fewer than 2 points or zero variance yields no anomalies.
func detectAnomalies(samples []model.MetricSample, points []point, metric string, cfg Config) []model.Anomaly {
	mean, stddev := meanStddev(points)
	if len(points) < 2 || stddev == 0 {
		return nil
	}

	datetimes := make(map[int64]string, len(samples))
	for i := range samples {
		if samples[i].Datetime != "" {
			datetimes[samples[i].Timestamp] = samples[i].Datetime
		}
	}

	var anomalies []model.Anomaly
	for _, p := range points {
		z := (p.value - mean) / stddev
		severity, ok := classify(math.Abs(z), cfg)
		if !ok {
			continue
		}
		anomalies = append(anomalies, model.Anomaly{
			Metric:         metric,
			Timestamp:      p.ts,
			Datetime:       datetimes[p.ts],
			Value:          p.value,
			ZScore:         round2(z),
			Severity:       severity,
			BaselineMean:   round2(mean),
			BaselineStddev: round2(stddev),
		})
	}
	return anomalies
}

func classify(absZ float64, cfg Config) (model.Severity, bool) {
	switch {
	case absZ >= cfg.ZHigh:
		return model.SeverityHigh, true
	case absZ >= cfg.ZMedium:
		return model.SeverityMedium, true
	case absZ >= cfg.ZLow:
		return model.SeverityLow, true
	default:
		return "", false
	}
}

var severityRank = map[model.Severity]int{
	model.SeverityLow:    1,
	model.SeverityMedium: 2,
	model.SeverityHigh:   3,
}

// mostSevere picks the single worst anomaly: highest severity first, then
// larger |z|, then earliest timestamp. Returns nil for an empty list.
func mostSevere(anomalies []model.Anomaly) *model.Anomaly {
	if len(anomalies) == 0 {
		return nil
	}
	sorted := make([]model.Anomaly, len(anomalies))
	copy(sorted, anomalies)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := severityRank[sorted[i].Severity], severityRank[sorted[j].Severity]
		if ri != rj {
			return ri > rj
		}
		zi, zj := math.Abs(sorted[i].ZScore), math.Abs(sorted[j].ZScore)
		if zi != zj {
			return zi > zj
		}
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return &sorted[0]
}
