package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/craftwatch/craftwatch/internal/model"
)

func presenceSample(ts int64, players ...string) model.MetricSample {
	payload := "["
	for i, p := range players {
		if i > 0 {
			payload += ","
		}
		payload += fmt.Sprintf("%q", p)
	}
	payload += "]"
	return model.MetricSample{Timestamp: ts, Data: []byte(payload)}
}

// tsAtHour builds a timestamp whose local hour-of-day is hour.
func tsAtHour(t *testing.T, hour int) int64 {
	t.Helper()
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, 30, 0, 0, time.Local).Unix()
}

func TestBehaviorEmptyWindow(t *testing.T) {
	behavior := analyzeBehavior(nil)
	if behavior.Available {
		t.Error("empty window reported available")
	}
	if behavior.UniquePlayers != nil {
		t.Errorf("unique players = %v, want nil", *behavior.UniquePlayers)
	}
	if len(behavior.HourlyDistribution) != 0 {
		t.Errorf("hourly distribution = %v, want empty", behavior.HourlyDistribution)
	}
	if behavior.PeakHour != -1 {
		t.Errorf("peak hour = %d, want -1", behavior.PeakHour)
	}
}

func TestBehaviorUniquePlayersUnion(t *testing.T) {
	samples := []model.MetricSample{
		presenceSample(tsAtHour(t, 11), "alice", "bob"),
		presenceSample(tsAtHour(t, 12), "alice", "bob", "carol"),
		presenceSample(tsAtHour(t, 13), "alice"),
	}
	behavior := analyzeBehavior(samples)
	if !behavior.Available {
		t.Fatal("behavior unavailable")
	}
	if behavior.UniquePlayers == nil || *behavior.UniquePlayers != 3 {
		t.Errorf("unique players = %v, want 3", behavior.UniquePlayers)
	}
}

func TestBehaviorCountsOnlySamples(t *testing.T) {
	samples := []model.MetricSample{
		{Timestamp: tsAtHour(t, 11), Data: []byte(`{"count":4}`)},
		{Timestamp: tsAtHour(t, 12), Data: []byte(`{"count":7}`)},
	}
	behavior := analyzeBehavior(samples)
	if !behavior.Available {
		t.Fatal("behavior unavailable")
	}
	// Counts give concurrency but never identities.
	if behavior.UniquePlayers != nil {
		t.Errorf("unique players = %v, want nil for count-only samples", *behavior.UniquePlayers)
	}
	if behavior.PeakHour != 12 {
		t.Errorf("peak hour = %d, want 12", behavior.PeakHour)
	}
}

func TestBehaviorHourlyMaxConcurrency(t *testing.T) {
	hour := 14
	samples := []model.MetricSample{
		presenceSample(tsAtHour(t, hour), "a", "b"),
		presenceSample(tsAtHour(t, hour)+600, "a", "b", "c", "d"),
		presenceSample(tsAtHour(t, hour)+1200, "a"),
	}
	behavior := analyzeBehavior(samples)
	if got := behavior.HourlyDistribution[hour]; got != 4 {
		t.Errorf("hour %d concurrency = %d, want max 4", hour, got)
	}
}

func TestBehaviorPeakHourTieBrokenByEarliestHour(t *testing.T) {
	samples := []model.MetricSample{
		presenceSample(tsAtHour(t, 18), "a", "b", "c"),
		presenceSample(tsAtHour(t, 9), "d", "e", "f"),
	}
	behavior := analyzeBehavior(samples)
	if behavior.PeakHour != 9 {
		t.Errorf("peak hour = %d, want 9 (earliest wins ties)", behavior.PeakHour)
	}
}

func TestBehaviorIgnoresUnparseablePayloads(t *testing.T) {
	samples := []model.MetricSample{
		{Timestamp: tsAtHour(t, 10), Data: []byte(`{"tps":20}`)},
		presenceSample(tsAtHour(t, 11), "a", "b"),
	}
	behavior := analyzeBehavior(samples)
	if !behavior.Available {
		t.Fatal("behavior unavailable")
	}
	if behavior.UniquePlayers == nil || *behavior.UniquePlayers != 2 {
		t.Errorf("unique players = %v, want 2", behavior.UniquePlayers)
	}
	if _, ok := behavior.HourlyDistribution[10]; ok {
		t.Error("non-presence payload contributed to the distribution")
	}
}
