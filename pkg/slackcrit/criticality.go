package slackcrit

import (
	"math"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// relaxedCriticality maps a node's setup-slack tags to a criticality in
// [0, 1] using the per-domain-pair normalization
//
//	1 - (slack - worstSlack[d]) / (maxReq[d] - worstSlack[d])
//
// so the domain's worst slack maps to 1 and tags far from the worst
// approach 0. The node's criticality is the maximum contribution over the
// domain pairs reaching it: a pin critical under any clock relationship is
// reported as critical. The transform is monotonic in slack (smaller slack
// never yields smaller criticality).
//
// Every tag's domain pair must be present in both aggregate maps; a missing
// entry means the aggregation pass and the tag set disagree.
func relaxedCriticality(maxReq, worstSlack map[timing.DomainPair]float64, tags []timing.Tag) float64 {
	crit := 0.0
	for _, tag := range tags {
		d := tag.DomainPair()

		req, ok := maxReq[d]
		assertf(ok, "no max required time for domain pair %+v", d)
		worst, ok := worstSlack[d]
		assertf(ok, "no worst slack for domain pair %+v", d)

		slack := tag.Time
		assertf(!math.IsNaN(slack), "slack tag under domain pair %+v is NaN", d)

		denom := req - worst
		var tagCrit float64
		if denom > 0 {
			tagCrit = 1 - (slack-worst)/denom
		} else {
			// Degenerate pair: the worst slack coincides with the
			// maximum required time, so every tag in the domain
			// sits at the worst slack.
			tagCrit = 1
		}

		if tagCrit > crit {
			crit = tagCrit
		}
	}

	return clamp01(crit)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
