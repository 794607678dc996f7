package model

import (
	"reflect"
	"testing"
)

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false", c)
		}
	}
	for _, c := range []Category{"", "plugins", "Performance"} {
		if ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = true", c)
		}
	}
}

func TestMetricsSkipsNonNumericFields(t *testing.T) {
	s := MetricSample{Data: []byte(`{"tps":19.97,"cpu":45,"world":"overworld","flags":[1,2]}`)}
	got := s.Metrics()
	want := map[string]float64{"tps": 19.97, "cpu": 45}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Metrics() = %v, want %v", got, want)
	}
}

func TestMetricsNonObjectPayload(t *testing.T) {
	s := MetricSample{Data: []byte(`["alice","bob"]`)}
	if got := s.Metrics(); got != nil {
		t.Errorf("Metrics() = %v, want nil for a list payload", got)
	}
}

func TestMetricLookup(t *testing.T) {
	s := MetricSample{Data: []byte(`{"memory":2048.5,"name":"srv1"}`)}
	if v, ok := s.Metric("memory"); !ok || v != 2048.5 {
		t.Errorf("Metric(memory) = (%v, %v), want (2048.5, true)", v, ok)
	}
	if _, ok := s.Metric("tps"); ok {
		t.Error("Metric(tps) found in payload without it")
	}
	if _, ok := s.Metric("name"); ok {
		t.Error("Metric(name) decoded a string field as numeric")
	}
}

func TestPlayerList(t *testing.T) {
	s := MetricSample{Data: []byte(`["alice","bob"]`)}
	players, ok := s.PlayerList()
	if !ok || len(players) != 2 {
		t.Fatalf("PlayerList() = (%v, %v), want two identities", players, ok)
	}

	counted := MetricSample{Data: []byte(`{"count":7}`)}
	if _, ok := counted.PlayerList(); ok {
		t.Error("count payload decoded as an identity list")
	}
}

func TestPlayerCount(t *testing.T) {
	for _, tc := range []struct {
		name    string
		payload string
		want    int
		ok      bool
	}{
		{"identity list", `["alice","bob","carol"]`, 3, true},
		{"empty list", `[]`, 0, true},
		{"count field", `{"count":12}`, 12, true},
		{"online field", `{"online":5}`, 5, true},
		{"count wins over online", `{"count":2,"online":9}`, 2, true},
		{"explicit zero count", `{"count":0}`, 0, true},
		{"unrelated payload", `{"tps":20}`, 0, false},
		{"garbage", `"full"`, 0, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := MetricSample{Data: []byte(tc.payload)}
			got, ok := s.PlayerCount()
			if ok != tc.ok || got != tc.want {
				t.Errorf("PlayerCount() = (%d, %v), want (%d, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}
