package model

import "context"

// SampleReader provides window-filtered access to one category's sample
// stream. Implementations must skip malformed records (reporting how many)
// and treat a missing stream as an empty series.
type SampleReader interface {
	ReadWindow(category Category, hours int, now int64) (samples []MetricSample, skipped int, err error)
}

// ReportSink persists the latest report artifact. A failed write must leave
// the previous artifact untouched.
type ReportSink interface {
	Write(report *Report) error
}

// CollectTrigger invokes the external sample collector once.
type CollectTrigger interface {
	Collect(ctx context.Context) error
}

// Analyzer is the read contract the HTTP API serves. Every method is a pure
// function of the sample store contents and the requested window.
type Analyzer interface {
	Report(hours int) (*Report, error)
	CustomReport(hours int, sections []string) (*Report, error)
	Trends(hours int, category Category) ([]Trend, error)
	Anomalies(hours int, metric string) ([]Anomaly, error)
	Predict(hoursAhead int, metric string) (*Prediction, error)
	PlayerBehavior(hours int) (*PlayerBehavior, error)
}
