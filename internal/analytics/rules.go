package analytics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/craftwatch/craftwatch/internal/model"
)

// Condition is a declarative predicate over the computed analysis. Every
// non-zero clause must hold for the condition to match, so one rule can
// combine a trend check with a value threshold.
type Condition struct {
	Metric          string               `yaml:"metric"`
	Trend           model.TrendDirection `yaml:"trend,omitempty"`
	AnomalySeverity model.Severity       `yaml:"anomaly_severity,omitempty"`
	MinAnomalies    int                  `yaml:"min_anomalies,omitempty"`
	Below           *float64             `yaml:"below,omitempty"`
	Above           *float64             `yaml:"above,omitempty"`
}

// Rule binds a condition to the texts and status escalation it produces.
// Rules are data: extending the warning set never touches detection logic.
type Rule struct {
	Name           string             `yaml:"name"`
	When           Condition          `yaml:"when"`
	Warning        string             `yaml:"warning,omitempty"`
	Recommendation string             `yaml:"recommendation,omitempty"`
	Status         model.HealthStatus `yaml:"status,omitempty"`
}

// RuleInput is the evaluated analysis a rule set runs against.
type RuleInput struct {
	Trends    map[string]model.Trend
	Anomalies map[string][]model.Anomaly
	Current   map[string]float64
}

// DefaultRules is the built-in rule table, matching the dashboard's
// long-standing warning texts.
func DefaultRules() []Rule {
	below18 := 18.0
	above3GB := 3072.0
	return []Rule{
		{
			Name:    "tps-low",
			When:    Condition{Metric: "tps", Below: &below18},
			Warning: "Low TPS detected - server may be lagging",
			Status:  model.StatusWarning,
		},
		{
			Name:    "memory-high",
			When:    Condition{Metric: "memory", Above: &above3GB},
			Warning: "High memory usage detected",
			Status:  model.StatusWarning,
		},
		{
			Name:    "tps-anomaly-burst",
			When:    Condition{Metric: "tps", MinAnomalies: 4},
			Warning: "Repeated TPS anomalies detected",
			Status:  model.StatusCritical,
		},
		{
			Name:           "tps-trending-down",
			When:           Condition{Metric: "tps", Trend: model.TrendDecreasing},
			Warning:        "Tick rate is trending down",
			Recommendation: "Investigate plugin load; consider reducing view distance or max players",
			Status:         model.StatusWarning,
		},
		{
			Name:           "memory-trending-up",
			When:           Condition{Metric: "memory", Trend: model.TrendIncreasing},
			Recommendation: "Monitor memory usage - heap may need optimization",
		},
	}
}

// LoadRules reads a rule table from a YAML file. An empty path returns the
// built-in defaults.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("analytics: read rules %s: %w", path, err)
	}
	var parsed struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("analytics: parse rules %s: %w", path, err)
	}
	if len(parsed.Rules) == 0 {
		return nil, fmt.Errorf("analytics: rules file %s defines no rules", path)
	}
	return parsed.Rules, nil
}

// matches evaluates the condition against computed analysis for one run.
func (c Condition) matches(in RuleInput) bool {
	if c.Metric == "" {
		return false
	}
	if c.Trend != "" {
		trend, ok := in.Trends[c.Metric]
		if !ok || trend.Direction != c.Trend {
			return false
		}
	}
	anomalies := in.Anomalies[c.Metric]
	if c.AnomalySeverity != "" {
		found := false
		for _, a := range anomalies {
			if a.Severity == c.AnomalySeverity {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.MinAnomalies > 0 && len(anomalies) < c.MinAnomalies {
		return false
	}
	if c.Below != nil || c.Above != nil {
		current, ok := in.Current[c.Metric]
		if !ok {
			return false
		}
		if c.Below != nil && current >= *c.Below {
			return false
		}
		if c.Above != nil && current <= *c.Above {
			return false
		}
	}
	return true
}

// evaluateRules walks the table in order and produces the summary texts and
// the worst status any rule asked for. Iteration order is the table order,
// which keeps report output deterministic.
func evaluateRules(rules []Rule, in RuleInput) (warnings, recommendations []string, status model.HealthStatus) {
	status = model.StatusHealthy
	for _, rule := range rules {
		if !rule.When.matches(in) {
			continue
		}
		if rule.Warning != "" {
			warnings = append(warnings, rule.Warning)
		}
		if rule.Recommendation != "" {
			recommendations = append(recommendations, rule.Recommendation)
		}
		status = worseStatus(status, rule.Status)
	}
	return warnings, recommendations, status
}

var statusRank = map[model.HealthStatus]int{
	model.StatusHealthy:  0,
	model.StatusWarning:  1,
	model.StatusCritical: 2,
}

func worseStatus(a, b model.HealthStatus) model.HealthStatus {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}
