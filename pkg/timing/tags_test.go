package timing

import "testing"

func TestWorstTag_Empty(t *testing.T) {
	_, ok := WorstTag(nil)
	if ok {
		t.Error("Expected ok=false for empty tag set")
	}
}

func TestWorstTag_PicksMinimum(t *testing.T) {
	tags := []Tag{
		{Time: 3.5, Launch: 0, Capture: 0},
		{Time: -1.25, Launch: 0, Capture: 1},
		{Time: 2.0, Launch: 1, Capture: 1},
	}

	worst, ok := WorstTag(tags)
	if !ok {
		t.Fatal("Expected ok=true")
	}
	if worst.Time != -1.25 {
		t.Errorf("Expected worst time -1.25, got %f", worst.Time)
	}
	if worst.DomainPair() != (DomainPair{Launch: 0, Capture: 1}) {
		t.Errorf("Worst tag carried wrong domain pair: %+v", worst.DomainPair())
	}
}

func TestWorstTag_SingleTag(t *testing.T) {
	worst, ok := WorstTag([]Tag{{Time: 7.0}})
	if !ok || worst.Time != 7.0 {
		t.Errorf("Expected (7.0, true), got (%f, %v)", worst.Time, ok)
	}
}

func TestNodesToPins_PreservesOrderAndDuplicates(t *testing.T) {
	g := NewMemGraph()
	pinA := g.AddPin()
	pinB := g.AddPin()
	nodeA := g.AddNode(pinA)
	nodeB := g.AddNode(pinB)
	nodeC := g.AddNode(InvalidPin)

	// A second node collapsing onto pinA.
	nodeA2 := g.AddNode(InvalidPin)
	g.AssociateNodeOnly(nodeA2, pinA)

	pins := NodesToPins([]NodeID{nodeB, nodeA, nodeA2, nodeC}, g, nil)

	want := []PinID{pinB, pinA, pinA, InvalidPin}
	if len(pins) != len(want) {
		t.Fatalf("Expected %d pins, got %d", len(want), len(pins))
	}
	for i := range want {
		if pins[i] != want[i] {
			t.Errorf("pins[%d]: expected %d, got %d", i, want[i], pins[i])
		}
	}
}

func TestNodesToPins_ReusesDestination(t *testing.T) {
	g := NewMemGraph()
	pin := g.AddPin()
	node := g.AddNode(pin)

	dst := make([]PinID, 0, 8)
	out := NodesToPins([]NodeID{node}, g, dst)
	if len(out) != 1 || out[0] != pin {
		t.Errorf("Expected [%d], got %v", pin, out)
	}
}

func TestMemGraph_Lookup(t *testing.T) {
	g := NewMemGraph()
	pin := g.AddPin()
	node := g.AddNode(pin)

	if got := g.NodeForPin(pin); got != node {
		t.Errorf("NodeForPin: expected %d, got %d", node, got)
	}
	if got := g.PinForNode(node); got != pin {
		t.Errorf("PinForNode: expected %d, got %d", pin, got)
	}
	if g.NodeForPin(PinID(99)).Valid() {
		t.Error("Expected invalid node for unknown pin")
	}
	if g.PinForNode(NodeID(99)).Valid() {
		t.Error("Expected invalid pin for unknown node")
	}
}
