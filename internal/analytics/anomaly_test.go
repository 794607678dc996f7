package analytics

import (
	"testing"

	"github.com/craftwatch/craftwatch/internal/model"
)

func TestAnomaliesZeroVariance(t *testing.T) {
	points := hourlyPoints(1_700_000_000, 20, 20, 20, 20, 20)
	anomalies := detectAnomalies(nil, points, "tps", DefaultConfig())
	if len(anomalies) != 0 {
		t.Fatalf("constant series produced %d anomalies, want 0", len(anomalies))
	}
}

func TestAnomaliesTooFewPoints(t *testing.T) {
	anomalies := detectAnomalies(nil, hourlyPoints(0, 20), "tps", DefaultConfig())
	if len(anomalies) != 0 {
		t.Fatalf("single point produced %d anomalies, want 0", len(anomalies))
	}
}

func TestAnomaliesTickRateCollapse(t *testing.T) {
	// A steady 20 TPS series with one collapsed sample at the end. The
	// collapse dominates the window baseline and is the only outlier.
	values := make([]float64, 0, 21)
	for i := 0; i < 20; i++ {
		values = append(values, 20)
	}
	values = append(values, 5)
	points := hourlyPoints(1_700_000_000, values...)

	anomalies := detectAnomalies(nil, points, "tps", DefaultConfig())
	if len(anomalies) != 1 {
		t.Fatalf("got %d anomalies, want exactly 1", len(anomalies))
	}
	a := anomalies[0]
	if a.Value != 5 {
		t.Errorf("anomalous value = %v, want 5", a.Value)
	}
	if a.Severity != model.SeverityHigh {
		t.Errorf("severity = %q, want high", a.Severity)
	}
	if a.ZScore >= 0 {
		t.Errorf("z-score = %v, want negative", a.ZScore)
	}
	if a.BaselineMean < 19 || a.BaselineMean > 20 {
		t.Errorf("baseline mean = %v, want ≈19.3", a.BaselineMean)
	}
}

func TestAnomaliesOrderedByTimestamp(t *testing.T) {
	// Two symmetric outliers in a long steady series.
	values := []float64{50, 50, 50, 50, 50, 50, 50, 50, 120, 50, 50, 50, 50, 50, 50, 0, 50, 50, 50, 50}
	points := hourlyPoints(1_700_000_000, values...)

	anomalies := detectAnomalies(nil, points, "cpu", DefaultConfig())
	if len(anomalies) < 2 {
		t.Fatalf("got %d anomalies, want at least 2", len(anomalies))
	}
	for i := 1; i < len(anomalies); i++ {
		if anomalies[i].Timestamp < anomalies[i-1].Timestamp {
			t.Fatalf("anomalies out of order: %d before %d", anomalies[i-1].Timestamp, anomalies[i].Timestamp)
		}
	}
}

func TestAnomalySeverityTiers(t *testing.T) {
	cfg := DefaultConfig()
	for _, tc := range []struct {
		absZ float64
		want model.Severity
		ok   bool
	}{
		{3.5, model.SeverityHigh, true},
		{3.0, model.SeverityHigh, true},
		{2.2, model.SeverityMedium, true},
		{1.7, model.SeverityLow, true},
		{1.2, "", false},
	} {
		got, ok := classify(tc.absZ, cfg)
		if ok != tc.ok || got != tc.want {
			t.Errorf("classify(%v) = (%q, %v), want (%q, %v)", tc.absZ, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMostSevereBreaksTiesByZScore(t *testing.T) {
	anomalies := []model.Anomaly{
		{Metric: "tps", Timestamp: 100, ZScore: -2.1, Severity: model.SeverityMedium},
		{Metric: "tps", Timestamp: 200, ZScore: 2.8, Severity: model.SeverityMedium},
		{Metric: "tps", Timestamp: 300, ZScore: 1.6, Severity: model.SeverityLow},
	}
	worst := mostSevere(anomalies)
	if worst == nil {
		t.Fatal("mostSevere returned nil")
	}
	if worst.Timestamp != 200 {
		t.Errorf("worst anomaly timestamp = %d, want 200 (|z| tie-break)", worst.Timestamp)
	}
	if mostSevere(nil) != nil {
		t.Error("mostSevere(nil) != nil")
	}
}

func TestAnomaliesCarryDatetime(t *testing.T) {
	samples := []model.MetricSample{
		{Timestamp: 1_700_000_000, Datetime: "2026-08-25 10:00:00", Data: []byte(`{"tps":20}`)},
	}
	values := make([]float64, 0, 21)
	for i := 0; i < 20; i++ {
		values = append(values, 20)
	}
	values = append(values, 5)
	points := hourlyPoints(1_700_000_000, values...)
	// Only the first sample carries a datetime; the anomaly is elsewhere so
	// its datetime stays empty rather than being fabricated.
	anomalies := detectAnomalies(samples, points, "tps", DefaultConfig())
	if len(anomalies) != 1 {
		t.Fatalf("got %d anomalies, want 1", len(anomalies))
	}
	if anomalies[0].Datetime != "" {
		t.Errorf("datetime = %q, want empty", anomalies[0].Datetime)
	}
}
