// Package timing defines the identifier types, tag records and collaborator
// contracts shared by the slack/criticality engines. The timing graph, the
// analyzers that produce tags, and the netlist all live outside this module;
// the engines only consume them through the interfaces declared here.
package timing

// Graph exposes the timing-graph topology the engines need: the full node
// set and the logical-output (terminal) nodes where required-time tags are
// rooted.
type Graph interface {
	AllNodes() []NodeID
	LogicalOutputNodes() []NodeID
}

// SetupAnalyzer exposes the results of the most recent setup (max-delay)
// timing analysis.
type SetupAnalyzer interface {
	// ModifiedNodes returns the nodes whose tags changed in the most
	// recent analysis pass, enabling lazy incremental updates.
	ModifiedNodes() []NodeID
	SetupSlackTags(node NodeID) []Tag
	RequiredTimeTags(node NodeID) []Tag
}

// HoldAnalyzer exposes the results of the most recent hold (min-delay)
// timing analysis. The hold engine never scopes to modified nodes, so only
// the tag accessor is required.
type HoldAnalyzer interface {
	HoldSlackTags(node NodeID) []Tag
}

// Lookup is the bidirectional pin/node association maintained by the
// external netlist. Either direction may return an invalid handle when no
// association exists.
type Lookup interface {
	NodeForPin(pin PinID) NodeID
	PinForNode(node NodeID) PinID
}

// Netlist exposes the circuit pin set. PinCount sizes the engines' per-pin
// arrays at construction time.
type Netlist interface {
	AllPins() []PinID
	PinCount() int
}
