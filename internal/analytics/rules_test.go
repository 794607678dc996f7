package analytics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/craftwatch/craftwatch/internal/model"
)

func TestDefaultRulesLowTPS(t *testing.T) {
	warnings, _, status := evaluateRules(DefaultRules(), RuleInput{
		Trends:    map[string]model.Trend{},
		Anomalies: map[string][]model.Anomaly{},
		Current:   map[string]float64{"tps": 15.2},
	})
	if status != model.StatusWarning {
		t.Errorf("status = %q, want warning", status)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
}

func TestDefaultRulesDecreasingTickRate(t *testing.T) {
	_, recommendations, status := evaluateRules(DefaultRules(), RuleInput{
		Trends: map[string]model.Trend{
			"tps": {Metric: "tps", Direction: model.TrendDecreasing, Slope: -0.5, SampleCount: 6},
		},
		Anomalies: map[string][]model.Anomaly{},
		Current:   map[string]float64{"tps": 19.0},
	})
	if status != model.StatusWarning {
		t.Errorf("status = %q, want warning", status)
	}
	if len(recommendations) == 0 {
		t.Fatal("decreasing tick rate produced no recommendation")
	}
}

func TestDefaultRulesAnomalyBurstEscalatesToCritical(t *testing.T) {
	burst := make([]model.Anomaly, 4)
	for i := range burst {
		burst[i] = model.Anomaly{Metric: "tps", Severity: model.SeverityMedium}
	}
	_, _, status := evaluateRules(DefaultRules(), RuleInput{
		Trends:    map[string]model.Trend{},
		Anomalies: map[string][]model.Anomaly{"tps": burst},
		Current:   map[string]float64{"tps": 19.5},
	})
	if status != model.StatusCritical {
		t.Errorf("status = %q, want critical", status)
	}
}

func TestRulesHealthyWhenNothingMatches(t *testing.T) {
	warnings, recommendations, status := evaluateRules(DefaultRules(), RuleInput{
		Trends: map[string]model.Trend{
			"tps": {Metric: "tps", Direction: model.TrendStable},
		},
		Anomalies: map[string][]model.Anomaly{},
		Current:   map[string]float64{"tps": 20, "memory": 1024},
	})
	if status != model.StatusHealthy {
		t.Errorf("status = %q, want healthy", status)
	}
	if len(warnings) != 0 || len(recommendations) != 0 {
		t.Errorf("unexpected output: warnings=%v recommendations=%v", warnings, recommendations)
	}
}

func TestRulesSkipMetricsWithoutData(t *testing.T) {
	// Thresholded rules must not fire when the metric has no samples at all.
	warnings, _, status := evaluateRules(DefaultRules(), RuleInput{
		Trends:    map[string]model.Trend{},
		Anomalies: map[string][]model.Anomaly{},
		Current:   map[string]float64{},
	})
	if status != model.StatusHealthy || len(warnings) != 0 {
		t.Errorf("absent metrics fired rules: status=%q warnings=%v", status, warnings)
	}
}

func TestLoadRulesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	payload := `rules:
  - name: cpu-high
    when:
      metric: cpu
      above: 90
    warning: CPU saturated
    status: critical
  - name: latency-trending-up
    when:
      metric: latency_ms
      trend: increasing
    recommendation: Check network backbone
`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}

	warnings, _, status := evaluateRules(rules, RuleInput{
		Trends:    map[string]model.Trend{},
		Anomalies: map[string][]model.Anomaly{},
		Current:   map[string]float64{"cpu": 95},
	})
	if status != model.StatusCritical || len(warnings) != 1 {
		t.Errorf("loaded rule did not fire: status=%q warnings=%v", status, warnings)
	}
}

func TestLoadRulesEmptyPathReturnsDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != len(DefaultRules()) {
		t.Errorf("len(rules) = %d, want %d", len(rules), len(DefaultRules()))
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("missing rules file did not fail")
	}
}

func TestWorseStatus(t *testing.T) {
	if got := worseStatus(model.StatusWarning, model.StatusHealthy); got != model.StatusWarning {
		t.Errorf("worseStatus = %q, want warning", got)
	}
	if got := worseStatus(model.StatusWarning, model.StatusCritical); got != model.StatusCritical {
		t.Errorf("worseStatus = %q, want critical", got)
	}
}
