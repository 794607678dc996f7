package model

import "encoding/json"

// Category identifies one sample stream collected from the game server.
type Category string

const (
	CategoryPerformance Category = "performance"
	CategoryPlayers     Category = "players"
	CategoryNetwork     Category = "network"
	CategoryWorldStats  Category = "world_stats"
)

// Categories lists every known sample category in stable order.
var Categories = []Category{
	CategoryPerformance,
	CategoryPlayers,
	CategoryNetwork,
	CategoryWorldStats,
}

// ValidCategory reports whether c names a known sample category.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MetricSample is one timestamped observation written by the external collector.
// It is the canonical record for the per-category JSONL sample streams and is
// immutable once written; the engine only reads it.
type MetricSample struct {
	Timestamp int64           `json:"timestamp"`
	Datetime  string          `json:"datetime,omitempty"`
	Category  Category        `json:"category,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// Metrics decodes the sample payload as a name→value mapping. Non-numeric
// entries (nested structures, player lists) are left out.
func (s *MetricSample) Metrics() map[string]float64 {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(s.Data, &raw); err != nil {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for name, field := range raw {
		var v float64
		if err := json.Unmarshal(field, &v); err != nil {
			continue
		}
		out[name] = v
	}
	return out
}

// Metric returns one named numeric value from the sample payload.
func (s *MetricSample) Metric(name string) (float64, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(s.Data, &raw); err != nil {
		return 0, false
	}
	field, ok := raw[name]
	if !ok {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(field, &v); err != nil {
		return 0, false
	}
	return v, true
}

// PlayerList decodes the sample payload as a list of online player
// identifiers. The second return is false when the payload carries only a
// count (or something else entirely) instead of identities.
func (s *MetricSample) PlayerList() ([]string, bool) {
	var players []string
	if err := json.Unmarshal(s.Data, &players); err != nil {
		return nil, false
	}
	return players, true
}

// PlayerCount returns the online player count for a players-category sample,
// from either an identifier list or a {"count": n} / {"online": n} payload.
func (s *MetricSample) PlayerCount() (int, bool) {
	if players, ok := s.PlayerList(); ok {
		return len(players), true
	}
	var counted struct {
		Count  *int `json:"count"`
		Online *int `json:"online"`
	}
	if err := json.Unmarshal(s.Data, &counted); err == nil {
		if counted.Count != nil {
			return *counted.Count, true
		}
		if counted.Online != nil {
			return *counted.Online, true
		}
	}
	return 0, false
}
