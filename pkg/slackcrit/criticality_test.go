package slackcrit

import (
	"testing"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

var domainAB = timing.DomainPair{Launch: 0, Capture: 1}

func TestRelaxedCriticality_WorstSlackIsMostCritical(t *testing.T) {
	maxReq := map[timing.DomainPair]float64{domainAB: 10.0}
	worstSlack := map[timing.DomainPair]float64{domainAB: 1.0}

	// The tag IS the worst slack for its domain pair.
	crit := relaxedCriticality(maxReq, worstSlack, []timing.Tag{
		{Time: 1.0, Launch: 0, Capture: 1},
	})
	if crit != 1.0 {
		t.Errorf("Expected criticality 1.0 for worst-slack tag, got %f", crit)
	}
}

func TestRelaxedCriticality_FarFromWorstApproachesZero(t *testing.T) {
	maxReq := map[timing.DomainPair]float64{domainAB: 10.0}
	worstSlack := map[timing.DomainPair]float64{domainAB: 1.0}

	crit := relaxedCriticality(maxReq, worstSlack, []timing.Tag{
		{Time: 10.0, Launch: 0, Capture: 1},
	})
	if crit != 0.0 {
		t.Errorf("Expected criticality 0.0 at the max required time, got %f", crit)
	}

	mid := relaxedCriticality(maxReq, worstSlack, []timing.Tag{
		{Time: 5.5, Launch: 0, Capture: 1},
	})
	if mid != 0.5 {
		t.Errorf("Expected criticality 0.5 at the midpoint, got %f", mid)
	}
}

func TestRelaxedCriticality_MaxAcrossDomainPairs(t *testing.T) {
	other := timing.DomainPair{Launch: 2, Capture: 3}
	maxReq := map[timing.DomainPair]float64{domainAB: 10.0, other: 20.0}
	worstSlack := map[timing.DomainPair]float64{domainAB: 1.0, other: -4.0}

	// Near-worst under `other`, far from worst under domainAB; the pin is
	// critical under `other` and must be reported as such.
	crit := relaxedCriticality(maxReq, worstSlack, []timing.Tag{
		{Time: 9.0, Launch: 0, Capture: 1},
		{Time: -4.0, Launch: 2, Capture: 3},
	})
	if crit != 1.0 {
		t.Errorf("Expected max contribution 1.0 across domains, got %f", crit)
	}
}

func TestRelaxedCriticality_NegativeWorstSlack(t *testing.T) {
	maxReq := map[timing.DomainPair]float64{domainAB: 8.0}
	worstSlack := map[timing.DomainPair]float64{domainAB: -2.0}

	crit := relaxedCriticality(maxReq, worstSlack, []timing.Tag{
		{Time: 3.0, Launch: 0, Capture: 1},
	})
	want := 0.5 // 1 - (3 - (-2)) / (8 - (-2))
	if crit != want {
		t.Errorf("Expected %f, got %f", want, crit)
	}
}

func TestRelaxedCriticality_DegeneratePairIsFullyCritical(t *testing.T) {
	maxReq := map[timing.DomainPair]float64{domainAB: 1.0}
	worstSlack := map[timing.DomainPair]float64{domainAB: 1.0}

	crit := relaxedCriticality(maxReq, worstSlack, []timing.Tag{
		{Time: 1.0, Launch: 0, Capture: 1},
	})
	if crit != 1.0 {
		t.Errorf("Expected 1.0 for degenerate domain pair, got %f", crit)
	}
}

func TestRelaxedCriticality_NoTags(t *testing.T) {
	crit := relaxedCriticality(nil, nil, nil)
	if crit != 0.0 {
		t.Errorf("Expected 0.0 for a tagless node, got %f", crit)
	}
}

func TestRelaxedCriticality_ClampsBeyondMaxReq(t *testing.T) {
	maxReq := map[timing.DomainPair]float64{domainAB: 10.0}
	worstSlack := map[timing.DomainPair]float64{domainAB: 1.0}

	// Slack beyond the max required time would be negative; clamped.
	crit := relaxedCriticality(maxReq, worstSlack, []timing.Tag{
		{Time: 50.0, Launch: 0, Capture: 1},
	})
	if crit != 0.0 {
		t.Errorf("Expected clamp to 0.0, got %f", crit)
	}
}

func TestRelaxedCriticality_MissingDomainPairPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for a tag whose domain pair is absent from the aggregates")
		}
	}()

	relaxedCriticality(
		map[timing.DomainPair]float64{},
		map[timing.DomainPair]float64{},
		[]timing.Tag{{Time: 1.0, Launch: 0, Capture: 1}},
	)
}
