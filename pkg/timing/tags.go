package timing

// DomainPair identifies the (launch clock, capture clock) relationship a
// setup timing tag was evaluated under. It is comparable and used as a map
// key; equality of whole DomainPair-keyed maps drives the incremental
// criticality reuse decision.
type DomainPair struct {
	Launch  DomainID
	Capture DomainID
}

// Tag is an analyzer-produced timing value at a graph node. For setup
// analysis the launch/capture domains identify the clock relationship; hold
// analysis ignores them.
type Tag struct {
	Time    float64
	Launch  DomainID
	Capture DomainID
}

// DomainPair returns the clock relationship this tag belongs to.
func (t Tag) DomainPair() DomainPair {
	return DomainPair{Launch: t.Launch, Capture: t.Capture}
}

// WorstTag returns the tag with the minimum (least margin) time value.
// ok is false when tags is empty, e.g. a node driven by a constant
// generator that no timing relationship reaches.
func WorstTag(tags []Tag) (worst Tag, ok bool) {
	for i, tag := range tags {
		if i == 0 || tag.Time < worst.Time {
			worst = tag
		}
	}
	return worst, len(tags) > 0
}

// NodesToPins translates a node sequence to the corresponding pin sequence,
// reusing dst's backing array. Order is preserved and pins are not
// deduplicated: if several nodes map to one pin the pin repeats, and a node
// with no associated pin contributes InvalidPin, so the result always has
// one entry per node.
func NodesToPins(nodes []NodeID, lookup Lookup, dst []PinID) []PinID {
	dst = dst[:0]
	for _, node := range nodes {
		dst = append(dst, lookup.PinForNode(node))
	}
	return dst
}
