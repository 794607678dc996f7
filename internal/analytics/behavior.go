package analytics

import (
	"time"

	"github.com/craftwatch/craftwatch/internal/model"
)

// analyzeBehavior aggregates players-category presence samples into hourly
// activity patterns. UniquePlayers stays nil when the samples expose only
// counts; the engine never guesses identities from concurrency numbers.
func analyzeBehavior(samples []model.MetricSample) *model.PlayerBehavior {
	behavior := &model.PlayerBehavior{
		HourlyDistribution: map[int]int{},
		PeakHour:           -1,
	}

	unique := make(map[string]struct{})
	identitiesSeen := false

	for i := range samples {
		sample := &samples[i]

		if players, ok := sample.PlayerList(); ok {
			identitiesSeen = true
			for _, id := range players {
				unique[id] = struct{}{}
			}
		}

		count, ok := sample.PlayerCount()
		if !ok {
			continue
		}
		behavior.Available = true
		hour := time.Unix(sample.Timestamp, 0).Hour()
		if cur, seen := behavior.HourlyDistribution[hour]; !seen || count > cur {
			behavior.HourlyDistribution[hour] = count
		}
	}

	if identitiesSeen {
		n := len(unique)
		behavior.UniquePlayers = &n
	}

	// Argmax over the distribution, ties broken by earliest hour.
	best := -1
	for hour := 0; hour < 24; hour++ {
		count, ok := behavior.HourlyDistribution[hour]
		if !ok {
			continue
		}
		if count > best {
			best = count
			behavior.PeakHour = hour
		}
	}

	return behavior
}
