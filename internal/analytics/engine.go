package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/craftwatch/craftwatch/internal/model"
	"github.com/craftwatch/craftwatch/internal/stats"
)

// Report sections a custom report can be restricted to.
const (
	SectionPerformance = "performance"
	SectionPlayers     = "players"
	SectionPredictions = "predictions"
)

// playerCountMetric is the synthetic metric derived from presence samples.
const playerCountMetric = "player_count"

// Engine turns raw sample series into trends, anomalies, predictions, and
// player-behavior summaries, and synthesizes them into one report. Every
// output is a pure function of the store contents, the window, and the
// injected clock; no state carries between runs.
type Engine struct {
	reader model.SampleReader
	cfg    Config
	rules  []Rule
	clock  func() time.Time
}

// NewEngine creates an analytics engine over the given sample reader.
// Zero-valued config fields fall back to defaults; nil rules use the
// built-in rule table.
func NewEngine(reader model.SampleReader, cfg Config, rules []Rule) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{
		reader: reader,
		cfg:    cfg.withDefaults(),
		rules:  rules,
		clock:  time.Now,
	}
}

// SetClock replaces the engine clock. Runs become reproducible when the
// clock is pinned.
func (e *Engine) SetClock(clock func() time.Time) {
	if clock != nil {
		e.clock = clock
	}
}

// Report generates the full analytics report for the trailing window.
func (e *Engine) Report(hours int) (*model.Report, error) {
	return e.CustomReport(hours, nil)
}

// CustomReport generates a report restricted to the requested sections.
// An empty section list means all sections.
func (e *Engine) CustomReport(hours int, sections []string) (*model.Report, error) {
	if hours <= 0 {
		return nil, ErrInvalidWindow
	}
	include, err := sectionSet(sections)
	if err != nil {
		return nil, err
	}

	now := e.clock().UTC()
	report := &model.Report{
		GeneratedAt: now,
		PeriodHours: hours,
	}

	ruleInput := RuleInput{
		Trends:    map[string]model.Trend{},
		Anomalies: map[string][]model.Anomaly{},
		Current:   map[string]float64{},
	}
	anomalyStatus := model.StatusHealthy

	if include[SectionPerformance] || include[SectionPredictions] {
		perfSamples, skipped, err := e.readWindow(model.CategoryPerformance, hours, now.Unix())
		if err != nil {
			return nil, err
		}
		report.Skipped += skipped

		if include[SectionPerformance] {
			report.Performance = make(map[string]model.MetricReport, len(e.cfg.PerformanceMetrics))
			for _, metric := range e.cfg.PerformanceMetrics {
				mr := e.analyzeMetric(perfSamples, metric)
				report.Performance[metric] = mr

				ruleInput.Trends[metric] = mr.Trend
				ruleInput.Anomalies[metric] = mr.Anomalies
				if mr.Trend.SampleCount > 0 {
					ruleInput.Current[metric] = mr.Current
				}
				anomalyStatus = worseStatus(anomalyStatus, statusForAnomalies(mr.Anomalies))
				stats.AnomaliesDetected.WithLabelValues(metric).Add(float64(len(mr.Anomalies)))
			}
		}

		if include[SectionPredictions] {
			report.Predictions = make(map[string]model.Prediction, len(e.cfg.PredictionMetrics))
			for _, metric := range e.cfg.PredictionMetrics {
				points := extract(perfSamples, metric)
				report.Predictions[metric] = predict(points, metric, e.cfg.HorizonHours, e.cfg)
			}
		}
	}

	if include[SectionPlayers] {
		playerSamples, skipped, err := e.readWindow(model.CategoryPlayers, hours, now.Unix())
		if err != nil {
			return nil, err
		}
		report.Skipped += skipped
		report.Players = analyzeBehavior(playerSamples)

		points := extractPlayerCounts(playerSamples)
		ruleInput.Trends[playerCountMetric] = trendOf(points, playerCountMetric, e.cfg.TrendEpsilon)
	}

	warnings, recommendations, ruleStatus := evaluateRules(e.rules, ruleInput)
	report.Summary = model.Summary{
		Status:          worseStatus(anomalyStatus, ruleStatus),
		Warnings:        warnings,
		Recommendations: recommendations,
	}

	stats.ProcessingRuns.Inc()
	return report, nil
}

// Trends computes the trend of every numeric metric present in one
// category's window, ordered by metric name.
func (e *Engine) Trends(hours int, category model.Category) ([]model.Trend, error) {
	if hours <= 0 {
		return nil, ErrInvalidWindow
	}
	if !model.ValidCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	now := e.clock().UTC().Unix()
	samples, _, err := e.readWindow(category, hours, now)
	if err != nil {
		return nil, err
	}

	if category == model.CategoryPlayers {
		points := extractPlayerCounts(samples)
		return []model.Trend{trendOf(points, playerCountMetric, e.cfg.TrendEpsilon)}, nil
	}

	names := metricNames(samples)
	trends := make([]model.Trend, 0, len(names))
	for _, name := range names {
		trends = append(trends, trendOf(extract(samples, name), name, e.cfg.TrendEpsilon))
	}
	return trends, nil
}

// Anomalies returns the statistically outlying samples for one metric,
// ordered by timestamp ascending.
func (e *Engine) Anomalies(hours int, metric string) ([]model.Anomaly, error) {
	if hours <= 0 {
		return nil, ErrInvalidWindow
	}
	category, err := e.categoryOf(metric)
	if err != nil {
		return nil, err
	}

	now := e.clock().UTC().Unix()
	samples, _, err := e.readWindow(category, hours, now)
	if err != nil {
		return nil, err
	}
	return detectAnomalies(samples, e.points(samples, metric), metric, e.cfg), nil
}

// Predict extrapolates one metric hoursAhead into the future from the
// default reporting window.
func (e *Engine) Predict(hoursAhead int, metric string) (*model.Prediction, error) {
	if hoursAhead <= 0 {
		return nil, ErrInvalidHorizon
	}
	category, err := e.categoryOf(metric)
	if err != nil {
		return nil, err
	}

	now := e.clock().UTC().Unix()
	samples, _, err := e.readWindow(category, model.DefaultWindowHours, now)
	if err != nil {
		return nil, err
	}
	prediction := predict(e.points(samples, metric), metric, hoursAhead, e.cfg)
	return &prediction, nil
}

// PlayerBehavior aggregates presence samples over the trailing window.
func (e *Engine) PlayerBehavior(hours int) (*model.PlayerBehavior, error) {
	if hours <= 0 {
		return nil, ErrInvalidWindow
	}
	now := e.clock().UTC().Unix()
	samples, _, err := e.readWindow(model.CategoryPlayers, hours, now)
	if err != nil {
		return nil, err
	}
	return analyzeBehavior(samples), nil
}

func (e *Engine) readWindow(category model.Category, hours int, now int64) ([]model.MetricSample, int, error) {
	samples, skipped, err := e.reader.ReadWindow(category, hours, now)
	if err != nil {
		stats.ProcessingFailures.Inc()
		return nil, 0, fmt.Errorf("analytics: read %s window: %w", category, err)
	}
	if skipped > 0 {
		stats.SkippedSamples.WithLabelValues(string(category)).Add(float64(skipped))
	}
	return samples, skipped, nil
}

// analyzeMetric produces the per-metric report block for one tracked metric.
func (e *Engine) analyzeMetric(samples []model.MetricSample, metric string) model.MetricReport {
	points := extract(samples, metric)
	mr := model.MetricReport{
		Trend:     trendOf(points, metric, e.cfg.TrendEpsilon),
		Anomalies: detectAnomalies(samples, points, metric, e.cfg),
	}
	if len(points) > 0 {
		mr.Current = round2(points[len(points)-1].value)
		mean, _ := meanStddev(points)
		mr.Average = round2(mean)
	}
	for _, predicted := range e.cfg.PredictionMetrics {
		if predicted == metric {
			p := predict(points, metric, e.cfg.HorizonHours, e.cfg)
			mr.Prediction = &p
			break
		}
	}
	return mr
}

// categoryOf resolves a metric name to the category stream that carries it.
func (e *Engine) categoryOf(metric string) (model.Category, error) {
	if metric == playerCountMetric {
		return model.CategoryPlayers, nil
	}
	for _, known := range e.cfg.PerformanceMetrics {
		if metric == known {
			return model.CategoryPerformance, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
}

// points extracts the series for metric, dispatching the synthetic
// player-count metric to presence decoding.
func (e *Engine) points(samples []model.MetricSample, metric string) []point {
	if metric == playerCountMetric {
		return extractPlayerCounts(samples)
	}
	return extract(samples, metric)
}

func statusForAnomalies(anomalies []model.Anomaly) model.HealthStatus {
	worst := mostSevere(anomalies)
	switch {
	case worst == nil:
		return model.StatusHealthy
	case worst.Severity == model.SeverityHigh:
		return model.StatusCritical
	default:
		return model.StatusWarning
	}
}

// metricNames returns the union of numeric metric keys present in a series,
// sorted for deterministic output.
func metricNames(samples []model.MetricSample) []string {
	seen := make(map[string]struct{})
	for i := range samples {
		for name := range samples[i].Metrics() {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sectionSet(sections []string) (map[string]bool, error) {
	include := map[string]bool{}
	if len(sections) == 0 {
		include[SectionPerformance] = true
		include[SectionPlayers] = true
		include[SectionPredictions] = true
		return include, nil
	}
	for _, section := range sections {
		switch section {
		case SectionPerformance, SectionPlayers, SectionPredictions:
			include[section] = true
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
		}
	}
	return include, nil
}
