package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dd0wney/cluso-timing/pkg/config"
	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/metrics"
	"github.com/dd0wney/cluso-timing/pkg/parallel"
	"github.com/dd0wney/cluso-timing/pkg/slackcrit"
	"github.com/dd0wney/cluso-timing/pkg/snapshot"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

type benchStats struct {
	Duration       time.Duration
	FullRecomputes int
	Passes         int
}

func main() {
	numPins := flag.Int("pins", 50000, "Number of netlist pins")
	numDomains := flag.Int("domains", 3, "Number of clock domains")
	passes := flag.Int("passes", 50, "Update passes per run")
	perturbEvery := flag.Int("perturb-every", 10, "Move the domain aggregates every N passes (0 = never)")
	workers := flag.Int("workers", 0, "Worker goroutines for the pooled run (0 = CPU count)")
	seed := flag.Int64("seed", 42, "Random seed")
	configPath := flag.String("config", "", "Optional YAML config file")
	snapshotDir := flag.String("snapshot-dir", "", "Write a final snapshot per objective to this directory")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *workers > 0 {
		cfg.Parallel.Workers = *workers
	}
	if *snapshotDir != "" {
		cfg.Snapshot = config.SnapshotConfig{Enabled: true, Dir: *snapshotDir}
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.Log.Level))
	registry := metrics.NewRegistry()

	fmt.Printf("⏱️  Slack/Criticality Update Benchmark\n")
	fmt.Printf("======================================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Pins:          %d\n", *numPins)
	fmt.Printf("  Clock Domains: %d\n", *numDomains)
	fmt.Printf("  Passes:        %d\n", *passes)
	fmt.Printf("  Perturb Every: %d\n", *perturbEvery)
	fmt.Printf("  CPU Cores:     %d\n\n", runtime.NumCPU())

	fmt.Printf("🐌 Sequential run...\n")
	seqStats := runBench(parallel.Sequential{}, logger, registry, *numPins, *numDomains, *passes, *perturbEvery, *seed)
	report(seqStats)

	pool, err := parallel.NewPool(cfg.Parallel.Workers)
	if err != nil {
		log.Fatalf("Failed to create worker pool: %v", err)
	}
	fmt.Printf("⚡ Pooled run (%d workers)...\n", pool.Workers())
	poolStats := runBench(pool, logger, registry, *numPins, *numDomains, *passes, *perturbEvery, *seed)
	report(poolStats)

	fmt.Printf("Speedup: %.2fx\n\n", seqStats.Duration.Seconds()/poolStats.Duration.Seconds())

	if cfg.Snapshot.Enabled {
		if err := writeSnapshots(cfg.Snapshot.Dir, pool, logger, *numPins, *numDomains, *seed); err != nil {
			log.Fatalf("Failed to write snapshots: %v", err)
		}
		fmt.Printf("📦 Snapshots written to %s\n", cfg.Snapshot.Dir)
	}
}

func report(s benchStats) {
	fmt.Printf("   Passes:          %d\n", s.Passes)
	fmt.Printf("   Full Recomputes: %d\n", s.FullRecomputes)
	fmt.Printf("   Incremental:     %d\n", s.Passes-s.FullRecomputes)
	fmt.Printf("   Duration:        %s\n", s.Duration)
	fmt.Printf("   Per Pass:        %s\n\n", s.Duration/time.Duration(s.Passes))
}

// buildSyntheticGraph creates one timing node per pin, tagged under random
// domain pairs. The first node is a logical output anchoring every domain
// pair with a required-time tag and a worst slack of 0, so every pair seen
// at an internal node has a normalization baseline.
func buildSyntheticGraph(rng *rand.Rand, numPins, numDomains int) *timing.MemGraph {
	g := timing.NewMemGraph()
	nodes := make([]timing.NodeID, 0, numPins)

	rootPin := g.AddPin()
	root := g.AddNode(rootPin)
	nodes = append(nodes, root)
	g.MarkLogicalOutput(root)

	var reqTags, slackTags []timing.Tag
	for launch := 0; launch < numDomains; launch++ {
		for capture := 0; capture < numDomains; capture++ {
			reqTags = append(reqTags, timing.Tag{
				Time: 10 + rng.Float64(), Launch: timing.DomainID(launch), Capture: timing.DomainID(capture),
			})
			slackTags = append(slackTags, timing.Tag{
				Time: 0, Launch: timing.DomainID(launch), Capture: timing.DomainID(capture),
			})
		}
	}
	g.SetRequiredTimes(root, reqTags...)
	g.SetSetupSlacks(root, slackTags...)
	g.SetHoldSlacks(root, timing.Tag{Time: -5})

	for i := 1; i < numPins; i++ {
		pin := g.AddPin()
		node := g.AddNode(pin)
		nodes = append(nodes, node)

		launch := timing.DomainID(rng.Intn(numDomains))
		capture := timing.DomainID(rng.Intn(numDomains))
		slack := rng.Float64() * 10

		g.SetSetupSlacks(node, timing.Tag{Time: slack, Launch: launch, Capture: capture})
		g.SetHoldSlacks(node, timing.Tag{Time: slack - 5})
	}

	g.SetModified(nodes...)
	return g
}

// markRandomSubset marks roughly one pin in a hundred as modified, leaving
// the tags (and therefore the domain aggregates) untouched.
func markRandomSubset(rng *rand.Rand, g *timing.MemGraph) {
	all := g.AllNodes()
	subset := make([]timing.NodeID, 0, len(all)/100+1)
	for _, node := range all {
		if rng.Intn(100) == 0 {
			subset = append(subset, node)
		}
	}
	g.SetModified(subset...)
}

// perturbOutput tightens the anchor output's worst slack under one domain
// pair, moving the worst-slack aggregate and forcing the next pass to
// recompute fully.
func perturbOutput(rng *rand.Rand, g *timing.MemGraph) {
	root := g.LogicalOutputNodes()[0]

	tags := append([]timing.Tag(nil), g.SetupSlackTags(root)...)
	tags[rng.Intn(len(tags))].Time = -rng.Float64()
	g.SetSetupSlacks(root, tags...)
	g.SetModified(root)
}

func runBench(exec parallel.Executor, logger logging.Logger, registry *metrics.Registry,
	numPins, numDomains, passes, perturbEvery int, seed int64) benchStats {

	rng := rand.New(rand.NewSource(seed))
	g := buildSyntheticGraph(rng, numPins, numDomains)

	opts := slackcrit.Options{Executor: exec, Logger: logger, Metrics: registry}
	setup := slackcrit.NewSetupSlackCrit(g, g, opts)
	hold := slackcrit.NewHoldSlackCrit(g, g, opts)

	stats := benchStats{Passes: passes}
	start := time.Now()

	for pass := 0; pass < passes; pass++ {
		if pass > 0 {
			if perturbEvery > 0 && pass%perturbEvery == 0 {
				perturbOutput(rng, g)
			} else {
				markRandomSubset(rng, g)
			}
		}

		setup.UpdateSlacksAndCriticalities(g, g)
		hold.UpdateSlacksAndCriticalities(g, g)

		if setup.LastPassFullRecompute() {
			stats.FullRecomputes++
		}
	}

	stats.Duration = time.Since(start)
	return stats
}

func writeSnapshots(dir string, exec parallel.Executor, logger logging.Logger,
	numPins, numDomains int, seed int64) error {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	g := buildSyntheticGraph(rng, numPins, numDomains)

	opts := slackcrit.Options{Executor: exec, Logger: logger}
	setup := slackcrit.NewSetupSlackCrit(g, g, opts)
	hold := slackcrit.NewHoldSlackCrit(g, g, opts)
	setup.UpdateSlacksAndCriticalities(g, g)
	hold.UpdateSlacksAndCriticalities(g, g)

	pins := g.AllPins()
	setupSlacks := make([]float64, len(pins))
	setupCrits := make([]float64, len(pins))
	holdSlacks := make([]float64, len(pins))
	holdCrits := make([]float64, len(pins))
	for i, pin := range pins {
		setupSlacks[i] = setup.PinSlack(pin)
		setupCrits[i] = setup.PinCriticality(pin)
		holdSlacks[i] = hold.PinSlack(pin)
		holdCrits[i] = hold.PinCriticality(pin)
	}

	setupSnap, err := snapshot.Capture(metrics.ObjectiveSetup, setupSlacks, setupCrits)
	if err != nil {
		return err
	}
	if err := setupSnap.WriteFile(filepath.Join(dir, "setup.snap")); err != nil {
		return err
	}

	holdSnap, err := snapshot.Capture(metrics.ObjectiveHold, holdSlacks, holdCrits)
	if err != nil {
		return err
	}
	return holdSnap.WriteFile(filepath.Join(dir, "hold.snap"))
}
