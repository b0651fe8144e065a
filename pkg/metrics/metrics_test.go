package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.UpdatesTotal == nil {
		t.Error("UpdatesTotal not initialized")
	}
	if r.PhaseDuration == nil {
		t.Error("PhaseDuration not initialized")
	}
	if r.ModifiedPins == nil {
		t.Error("ModifiedPins not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()
	if r1 != r2 {
		t.Error("DefaultRegistry should return the same instance")
	}
}

func gather(t *testing.T, r *Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := r.PrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func TestRecordUpdate(t *testing.T) {
	r := NewRegistry()

	r.RecordUpdate(ObjectiveSetup, ModeIncremental, 5*time.Millisecond)
	r.RecordUpdate(ObjectiveSetup, ModeFull, 20*time.Millisecond)
	r.RecordUpdate(ObjectiveHold, ModeFull, time.Millisecond)

	byName := gather(t, r)

	updates, ok := byName["timing_updates_total"]
	if !ok {
		t.Fatal("timing_updates_total not gathered")
	}
	var total float64
	for _, m := range updates.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	if total != 3 {
		t.Errorf("Expected 3 recorded updates, got %f", total)
	}

	full, ok := byName["timing_full_recomputes_total"]
	if !ok {
		t.Fatal("timing_full_recomputes_total not gathered")
	}
	if v := full.GetMetric()[0].GetCounter().GetValue(); v != 2 {
		t.Errorf("Expected 2 full recomputes, got %f", v)
	}
}

func TestRecordModifiedPins(t *testing.T) {
	r := NewRegistry()
	r.RecordModifiedPins(ObjectiveSetup, "slack", 128)

	byName := gather(t, r)
	mf, ok := byName["timing_modified_pins"]
	if !ok {
		t.Fatal("timing_modified_pins not gathered")
	}
	if c := mf.GetMetric()[0].GetHistogram().GetSampleCount(); c != 1 {
		t.Errorf("Expected 1 observation, got %d", c)
	}
}
