package circuit

import (
	"fmt"

	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/netlist"
)

// WirePolicy decides which member pairs of a virtual-node group are joined.
type WirePolicy int

const (
	// WireChain joins consecutive members: m0-m1, m1-m2, ... Groups with
	// more than two members may get redundant segments when members coincide.
	WireChain WirePolicy = iota
	// WireStar joins every member to the first one.
	WireStar
)

// String returns the policy name used in configuration.
func (p WirePolicy) String() string {
	switch p {
	case WireChain:
		return "chain"
	case WireStar:
		return "star"
	}
	return fmt.Sprintf("WirePolicy(%d)", int(p))
}

// ParseWirePolicy maps a configuration value to a policy. The empty string
// selects WireChain.
func ParseWirePolicy(s string) (WirePolicy, error) {
	switch s {
	case "", "chain":
		return WireChain, nil
	case "star":
		return WireStar, nil
	}
	return WireChain, errors.New(errors.ErrCodeInvalidConfig, "unknown wire policy %q (must be 'chain' or 'star')", s)
}

// Wires synthesizes the wire pseudo-components of every virtual-node group,
// in group order. A group of g members yields g-1 wires; singletons yield
// none. Wires are not registered in the store.
func (s *Store) Wires(policy WirePolicy) []netlist.Component {
	var wires []netlist.Component
	for _, g := range s.Groups() {
		for i := 1; i < len(g.members); i++ {
			from := g.members[i-1]
			if policy == WireStar {
				from = g.members[0]
			}
			wires = append(wires, newWire(from, g.members[i]))
		}
	}
	return wires
}

func newWire(n1, n2 string) netlist.Component {
	return netlist.Component{
		Name:  netlist.WireKind,
		Kind:  netlist.WireKind,
		Nodes: [2]string{n1, n2},
		Hints: netlist.DefaultHints(),
	}
}
