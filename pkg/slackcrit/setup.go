package slackcrit

import (
	"maps"
	"math"
	"time"

	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/metrics"
	"github.com/dd0wney/cluso-timing/pkg/parallel"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// SetupSlackCrit maintains the worst-case (max-delay) slack and relaxed
// criticality of every netlist pin. Slack updates are lazily scoped to the
// nodes the analyzer touched; criticality updates reuse that lazy scope
// whenever the per-domain normalization baseline (max required time and
// worst slack per clock-domain pair) is unchanged from the previous pass,
// and otherwise revisit the whole graph.
//
// A single instance must not have UpdateSlacksAndCriticalities invoked
// concurrently with itself; sequential calls, one per analysis pass, are
// the expected usage.
type SetupSlackCrit struct {
	netlist timing.Netlist
	lookup  timing.Lookup
	exec    parallel.Executor
	log     logging.Logger
	metrics *metrics.Registry

	pinSlacks        []float64
	pinCriticalities []float64

	modifiedSlackPins []timing.PinID
	modifiedCritPins  []timing.PinID

	// Aggregates from the previous pass, compared structurally to decide
	// whether criticality can be updated incrementally.
	prevMaxReq     map[timing.DomainPair]float64
	prevWorstSlack map[timing.DomainPair]float64

	passes       uint64
	lastFullScan bool
}

// NewSetupSlackCrit creates an engine sized to the netlist's pin count.
// All per-pin values are undefined (NaN) until the first update pass.
func NewSetupSlackCrit(netlist timing.Netlist, lookup timing.Lookup, opts Options) *SetupSlackCrit {
	opts = opts.normalized()
	n := netlist.PinCount()
	return &SetupSlackCrit{
		netlist:          netlist,
		lookup:           lookup,
		exec:             opts.Executor,
		log:              opts.Logger.With(logging.Objective(metrics.ObjectiveSetup)),
		metrics:          opts.Metrics,
		pinSlacks:        nanSlice(n),
		pinCriticalities: nanSlice(n),
	}
}

// PinSlack returns the worst (least) setup slack of connections through
// pin, +Inf if no timing tag reaches it, or NaN before the first update.
func (s *SetupSlackCrit) PinSlack(pin timing.PinID) float64 {
	return s.pinSlacks[pin]
}

// PinCriticality returns the worst (maximum) criticality of connections
// through pin. Criticality is in [0, 1]: 0 is non-critical, 1 is
// most-critical.
func (s *SetupSlackCrit) PinCriticality(pin timing.PinID) float64 {
	return s.pinCriticalities[pin]
}

// PinsWithModifiedSlack returns the pins whose slack the most recent update
// touched, one entry per modified node (duplicates possible when several
// nodes map to one pin). Valid until the next update.
func (s *SetupSlackCrit) PinsWithModifiedSlack() []timing.PinID {
	return s.modifiedSlackPins
}

// PinsWithModifiedCriticality returns the pins whose criticality the most
// recent update touched. Valid until the next update.
func (s *SetupSlackCrit) PinsWithModifiedCriticality() []timing.PinID {
	return s.modifiedCritPins
}

// Passes returns the number of completed update passes.
func (s *SetupSlackCrit) Passes() uint64 { return s.passes }

// LastPassFullRecompute reports whether the most recent pass had to
// revisit the whole graph because the domain aggregates moved.
func (s *SetupSlackCrit) LastPassFullRecompute() bool { return s.lastFullScan }

// UpdateSlacksAndCriticalities performs one full update cycle against the
// given analysis results. The slack and criticality phases write disjoint
// arrays from read-only inputs, so they run as two independent units of
// work on the configured executor.
func (s *SetupSlackCrit) UpdateSlacksAndCriticalities(graph timing.Graph, analyzer timing.SetupAnalyzer) {
	start := time.Now()
	s.passes++

	s.exec.Go(
		func() { s.updateSlacks(analyzer) },
		func() { s.updateCriticalities(graph, analyzer) },
	)

	mode := metrics.ModeIncremental
	if s.lastFullScan {
		mode = metrics.ModeFull
	}
	if s.metrics != nil {
		s.metrics.RecordUpdate(metrics.ObjectiveSetup, mode, time.Since(start))
		s.metrics.RecordModifiedPins(metrics.ObjectiveSetup, "slack", len(s.modifiedSlackPins))
		s.metrics.RecordModifiedPins(metrics.ObjectiveSetup, "criticality", len(s.modifiedCritPins))
	}
	s.log.Debug("update pass complete",
		logging.Pass(s.passes),
		logging.Mode(mode),
		logging.Pins(len(s.modifiedCritPins)),
		logging.Latency(time.Since(start)))
}

func (s *SetupSlackCrit) updateSlacks(analyzer timing.SetupAnalyzer) {
	start := time.Now()

	nodes := analyzer.ModifiedNodes()
	s.exec.ForEach(len(nodes), func(i int) {
		s.updatePinSlack(nodes[i], analyzer)
	})

	s.modifiedSlackPins = timing.NodesToPins(nodes, s.lookup, s.modifiedSlackPins)

	if s.metrics != nil {
		s.metrics.RecordPhase(metrics.ObjectiveSetup, metrics.PhaseSlack, time.Since(start))
	}
}

func (s *SetupSlackCrit) updatePinSlack(node timing.NodeID, analyzer timing.SetupAnalyzer) {
	pin := s.lookup.PinForNode(node)
	if !pin.Valid() {
		// No associated netlist pin, nothing to record.
		return
	}

	if worst, ok := timing.WorstTag(analyzer.SetupSlackTags(node)); ok {
		s.pinSlacks[pin] = worst.Time
	} else {
		// No tags (e.g. driven by constant generator)
		s.pinSlacks[pin] = math.Inf(1)
	}
}

func (s *SetupSlackCrit) updateCriticalities(graph timing.Graph, analyzer timing.SetupAnalyzer) {
	start := time.Now()

	maxReq, worstSlack := collectDomainAggregates(graph, analyzer)

	// Exact structural equality, no epsilon: any movement of the
	// normalization baseline forces a full recompute.
	incremental := maps.Equal(maxReq, s.prevMaxReq) && maps.Equal(worstSlack, s.prevWorstSlack)

	var nodes []timing.NodeID
	if incremental {
		nodes = analyzer.ModifiedNodes()
	} else {
		nodes = graph.AllNodes()
	}

	s.exec.ForEach(len(nodes), func(i int) {
		pin := s.lookup.PinForNode(nodes[i])
		if !pin.Valid() {
			return
		}
		s.pinCriticalities[pin] = relaxedCriticality(maxReq, worstSlack, analyzer.SetupSlackTags(nodes[i]))
	})

	s.modifiedCritPins = timing.NodesToPins(nodes, s.lookup, s.modifiedCritPins)

	// The cache is replaced unconditionally, every pass.
	s.prevMaxReq = maxReq
	s.prevWorstSlack = worstSlack
	s.lastFullScan = !incremental

	if s.metrics != nil {
		s.metrics.RecordPhase(metrics.ObjectiveSetup, metrics.PhaseCriticality, time.Since(start))
		s.metrics.DomainPairs.Set(float64(len(worstSlack)))
	}
	if !incremental {
		s.log.Debug("domain aggregates moved, recomputing all criticalities",
			logging.Pass(s.passes),
			logging.DomainPairs(len(worstSlack)),
			logging.Nodes(len(nodes)))
	}
}

// collectDomainAggregates scans the logical-output nodes and accumulates,
// per clock-domain pair, the maximum required time and the minimum (worst)
// slack. Both maps are shared accumulators, so this reduction is
// single-threaded. Nodes without tags contribute nothing: absence, not a
// zero entry.
func collectDomainAggregates(graph timing.Graph, analyzer timing.SetupAnalyzer) (maxReq, worstSlack map[timing.DomainPair]float64) {
	maxReq = make(map[timing.DomainPair]float64)
	worstSlack = make(map[timing.DomainPair]float64)

	for _, node := range graph.LogicalOutputNodes() {
		for _, tag := range analyzer.RequiredTimeTags(node) {
			d := tag.DomainPair()
			if cur, ok := maxReq[d]; !ok || cur < tag.Time {
				maxReq[d] = tag.Time
			}
		}

		for _, tag := range analyzer.SetupSlackTags(node) {
			assertf(!math.IsNaN(tag.Time), "slack tag on output node %d is NaN", node)
			assertf(!math.IsInf(tag.Time, 0), "slack tag on output node %d is infinite", node)

			d := tag.DomainPair()
			if cur, ok := worstSlack[d]; !ok || tag.Time < cur {
				worstSlack[d] = tag.Time
			}
		}
	}
	return maxReq, worstSlack
}
