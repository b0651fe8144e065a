package slackcrit

import (
	"math"
	"time"

	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/metrics"
	"github.com/dd0wney/cluso-timing/pkg/parallel"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// HoldSlackCrit maintains the best-case (min-delay) slack and criticality
// of every netlist pin. Unlike the setup engine there is no lazy scoping
// and no domain-pair bookkeeping: every pass recomputes every pin, and
// criticality is a single global linear transform of slack.
//
// The global scale/shift normalization is deliberately simple and the
// numbers it produces are coarser than the setup engine's per-domain
// relaxation. Keep it as-is; consumers depend on the documented behavior.
// TODO: revisit once there is optimizer data showing the global transform
// misranks hold-critical pins.
type HoldSlackCrit struct {
	netlist timing.Netlist
	lookup  timing.Lookup
	exec    parallel.Executor
	log     logging.Logger
	metrics *metrics.Registry

	pinSlacks        []float64
	pinCriticalities []float64

	passes uint64
}

// NewHoldSlackCrit creates an engine sized to the netlist's pin count.
// All per-pin values are undefined (NaN) until the first update pass.
func NewHoldSlackCrit(netlist timing.Netlist, lookup timing.Lookup, opts Options) *HoldSlackCrit {
	opts = opts.normalized()
	n := netlist.PinCount()
	return &HoldSlackCrit{
		netlist:          netlist,
		lookup:           lookup,
		exec:             opts.Executor,
		log:              opts.Logger.With(logging.Objective(metrics.ObjectiveHold)),
		metrics:          opts.Metrics,
		pinSlacks:        nanSlice(n),
		pinCriticalities: nanSlice(n),
	}
}

// PinSlack returns the worst (least) hold slack of connections through
// pin, +Inf if no timing tag reaches it, or NaN before the first update.
func (h *HoldSlackCrit) PinSlack(pin timing.PinID) float64 {
	return h.pinSlacks[pin]
}

// PinCriticality returns the worst (maximum) criticality of connections
// through pin, in [0, 1].
func (h *HoldSlackCrit) PinCriticality(pin timing.PinID) float64 {
	return h.pinCriticalities[pin]
}

// Passes returns the number of completed update passes.
func (h *HoldSlackCrit) Passes() uint64 { return h.passes }

// UpdateSlacksAndCriticalities performs one full update cycle against the
// given analysis results. Slack and criticality write disjoint arrays from
// read-only inputs and run as two independent units of work.
func (h *HoldSlackCrit) UpdateSlacksAndCriticalities(graph timing.Graph, analyzer timing.HoldAnalyzer) {
	start := time.Now()
	h.passes++

	h.exec.Go(
		func() { h.updateSlacks(analyzer) },
		func() { h.updateCriticalities(graph, analyzer) },
	)

	if h.metrics != nil {
		h.metrics.RecordUpdate(metrics.ObjectiveHold, metrics.ModeFull, time.Since(start))
	}
	h.log.Debug("update pass complete",
		logging.Pass(h.passes),
		logging.Pins(h.netlist.PinCount()),
		logging.Latency(time.Since(start)))
}

func (h *HoldSlackCrit) updateSlacks(analyzer timing.HoldAnalyzer) {
	start := time.Now()

	pins := h.netlist.AllPins()
	h.exec.ForEach(len(pins), func(i int) {
		h.updatePinSlack(pins[i], analyzer)
	})

	if h.metrics != nil {
		h.metrics.RecordPhase(metrics.ObjectiveHold, metrics.PhaseSlack, time.Since(start))
	}
}

func (h *HoldSlackCrit) updatePinSlack(pin timing.PinID, analyzer timing.HoldAnalyzer) {
	node := h.lookup.NodeForPin(pin)
	assertf(node.Valid(), "netlist pin %d has no timing node", pin)

	if worst, ok := timing.WorstTag(analyzer.HoldSlackTags(node)); ok {
		h.pinSlacks[pin] = worst.Time
	} else {
		// No tags (e.g. driven by constant generator)
		h.pinSlacks[pin] = math.Inf(1)
	}
}

func (h *HoldSlackCrit) updateCriticalities(graph timing.Graph, analyzer timing.HoldAnalyzer) {
	start := time.Now()

	// Pass one: the global slack range. Shared scalar accumulators, so
	// this reduction is single-threaded and must complete before the
	// per-pin pass starts.
	worstSlack := math.Inf(1)
	bestSlack := math.Inf(-1)
	for _, node := range graph.AllNodes() {
		for _, tag := range analyzer.HoldSlackTags(node) {
			assertf(!math.IsNaN(tag.Time), "hold slack tag on node %d is NaN", node)
			worstSlack = math.Min(worstSlack, tag.Time)
			bestSlack = math.Max(bestSlack, tag.Time)
		}
	}

	// Scale and shift so the worst slack takes criticality 1.0 and the
	// best takes 0.0. A degenerate range (every tag at the same slack,
	// or no tags at all) gets scale 0: every tagged pin is equally the
	// worst and reports 1.0.
	scale := 0.0
	if d := math.Abs(bestSlack - worstSlack); d > 0 && !math.IsInf(d, 0) {
		scale = 1 / d
	}
	shift := -worstSlack

	// Pass two: per-pin transform, independent per pin.
	pins := h.netlist.AllPins()
	h.exec.ForEach(len(pins), func(i int) {
		h.pinCriticalities[pins[i]] = h.calcPinCriticality(pins[i], analyzer, scale, shift)
	})

	if h.metrics != nil {
		h.metrics.RecordPhase(metrics.ObjectiveHold, metrics.PhaseCriticality, time.Since(start))
	}
}

func (h *HoldSlackCrit) calcPinCriticality(pin timing.PinID, analyzer timing.HoldAnalyzer, scale, shift float64) float64 {
	node := h.lookup.NodeForPin(pin)
	assertf(node.Valid(), "netlist pin %d has no timing node", pin)

	crit := 0.0
	for _, tag := range analyzer.HoldSlackTags(node) {
		tagCrit := 1 - scale*(tag.Time+shift)
		if tagCrit > crit {
			crit = tagCrit
		}
	}

	// Out of range here is a defect in the transform, not a value to
	// clamp quietly.
	assertf(crit >= 0, "hold criticality %v below 0 for pin %d", crit, pin)
	assertf(crit <= 1, "hold criticality %v above 1 for pin %d", crit, pin)

	return crit
}
