package timing

// PinID identifies a netlist connection point. Pins are owned by the
// external netlist; this package only uses them as array indices and
// lookup keys.
type PinID int

// NodeID identifies a vertex in the external timing graph.
type NodeID int

// DomainID identifies a clock domain.
type DomainID int

// Invalid handles represent a missing association (e.g. a constant
// generator node with no netlist pin).
const (
	InvalidPin    PinID    = -1
	InvalidNode   NodeID   = -1
	InvalidDomain DomainID = -1
)

// Valid reports whether the pin refers to a real netlist pin.
func (p PinID) Valid() bool { return p >= 0 }

// Valid reports whether the node refers to a real timing-graph node.
func (n NodeID) Valid() bool { return n >= 0 }

// Valid reports whether the domain id refers to a real clock domain.
func (d DomainID) Valid() bool { return d >= 0 }
