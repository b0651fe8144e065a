package timing

// MemGraph is an in-memory implementation of every collaborator interface
// (Graph, SetupAnalyzer, HoldAnalyzer, Lookup, Netlist). It acts as a
// snapshot container: a driver (or a test) loads the topology, the pin/node
// associations and the current analysis tags into it, then hands it to the
// engines. It is not safe for mutation while an engine update is running.
type MemGraph struct {
	pins           []PinID
	nodes          []NodeID
	logicalOutputs []NodeID
	modified       []NodeID

	pinToNode map[PinID]NodeID
	nodeToPin map[NodeID]PinID

	setupSlacks   map[NodeID][]Tag
	requiredTimes map[NodeID][]Tag
	holdSlacks    map[NodeID][]Tag
}

// NewMemGraph creates an empty in-memory timing snapshot.
func NewMemGraph() *MemGraph {
	return &MemGraph{
		pinToNode:     make(map[PinID]NodeID),
		nodeToPin:     make(map[NodeID]PinID),
		setupSlacks:   make(map[NodeID][]Tag),
		requiredTimes: make(map[NodeID][]Tag),
		holdSlacks:    make(map[NodeID][]Tag),
	}
}

// AddPin creates a new netlist pin and returns its id.
func (g *MemGraph) AddPin() PinID {
	pin := PinID(len(g.pins))
	g.pins = append(g.pins, pin)
	return pin
}

// AddNode creates a new timing-graph node associated with pin. Pass
// InvalidPin for nodes with no netlist association (constant generators).
func (g *MemGraph) AddNode(pin PinID) NodeID {
	node := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node)
	if pin.Valid() {
		g.pinToNode[pin] = node
		g.nodeToPin[node] = pin
	}
	return node
}

// Associate overrides the pin/node mapping, allowing many-to-one
// associations (several nodes sharing one pin).
func (g *MemGraph) Associate(pin PinID, node NodeID) {
	g.pinToNode[pin] = node
	g.nodeToPin[node] = pin
}

// AssociateNodeOnly maps node to pin without changing the pin-to-node
// direction, for modelling several nodes collapsing onto a single pin.
func (g *MemGraph) AssociateNodeOnly(node NodeID, pin PinID) {
	g.nodeToPin[node] = pin
}

// MarkLogicalOutput registers node as a terminal node where required-time
// tags are rooted.
func (g *MemGraph) MarkLogicalOutput(node NodeID) {
	g.logicalOutputs = append(g.logicalOutputs, node)
}

// SetModified replaces the set of nodes touched by the most recent
// analysis pass.
func (g *MemGraph) SetModified(nodes ...NodeID) {
	g.modified = append(g.modified[:0], nodes...)
}

// SetSetupSlacks replaces the setup-slack tags on node.
func (g *MemGraph) SetSetupSlacks(node NodeID, tags ...Tag) {
	g.setupSlacks[node] = tags
}

// SetRequiredTimes replaces the required-time tags on node.
func (g *MemGraph) SetRequiredTimes(node NodeID, tags ...Tag) {
	g.requiredTimes[node] = tags
}

// SetHoldSlacks replaces the hold-slack tags on node.
func (g *MemGraph) SetHoldSlacks(node NodeID, tags ...Tag) {
	g.holdSlacks[node] = tags
}

// Graph interface.

func (g *MemGraph) AllNodes() []NodeID           { return g.nodes }
func (g *MemGraph) LogicalOutputNodes() []NodeID { return g.logicalOutputs }

// SetupAnalyzer / HoldAnalyzer interfaces.

func (g *MemGraph) ModifiedNodes() []NodeID            { return g.modified }
func (g *MemGraph) SetupSlackTags(node NodeID) []Tag   { return g.setupSlacks[node] }
func (g *MemGraph) RequiredTimeTags(node NodeID) []Tag { return g.requiredTimes[node] }
func (g *MemGraph) HoldSlackTags(node NodeID) []Tag    { return g.holdSlacks[node] }

// Lookup interface.

func (g *MemGraph) NodeForPin(pin PinID) NodeID {
	if node, ok := g.pinToNode[pin]; ok {
		return node
	}
	return InvalidNode
}

func (g *MemGraph) PinForNode(node NodeID) PinID {
	if pin, ok := g.nodeToPin[node]; ok {
		return pin
	}
	return InvalidPin
}

// Netlist interface.

func (g *MemGraph) AllPins() []PinID { return g.pins }
func (g *MemGraph) PinCount() int    { return len(g.pins) }
