package netlist

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/schematic/pkg/errors"
)

const (
	// TransformerPrefix is the reserved two-character kind of transformers.
	TransformerPrefix = "TF"

	// PortKind marks components that represent external terminals.
	PortKind = "P"

	// WireKind is the kind of synthesized wire components.
	WireKind = "W"

	// NodeSeparator separates a root node name from its virtual suffix.
	NodeSeparator = "_"

	// GroupSeparator is the netlist spelling of NodeSeparator.
	GroupSeparator = "."
)

// Direction is the drawing direction of a component, from its positive to its
// negative terminal.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Valid reports whether d is one of the four layout directions.
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Hints is the layout metadata attached to a component. Dir and Size drive
// the layout solve; Extra holds decorative annotations with no geometric
// effect (current labels and the like).
type Hints struct {
	Dir   Direction
	Size  float64
	Extra map[string]string // nil when no annotations are present
}

// DefaultHints returns the hints of a line without a hint clause.
func DefaultHints() Hints {
	return Hints{Dir: Up, Size: 1}
}

// Get returns the annotation stored under key.
func (h Hints) Get(key string) (string, bool) {
	v, ok := h.Extra[key]
	return v, ok
}

// Set stores a free-form annotation.
func (h *Hints) Set(key, value string) {
	if h.Extra == nil {
		h.Extra = make(map[string]string)
	}
	h.Extra[key] = value
}

// String renders the non-default hints in netlist syntax, without the
// leading ";". Annotations are sorted by key.
func (h Hints) String() string {
	var parts []string
	if h.Dir != Up && h.Dir != "" {
		if h.Dir.Valid() {
			parts = append(parts, string(h.Dir))
		} else {
			parts = append(parts, "dir="+string(h.Dir))
		}
	}
	if h.Size != 1 {
		parts = append(parts, "size="+strconv.FormatFloat(h.Size, 'g', -1, 64))
	}
	for _, k := range slices.Sorted(maps.Keys(h.Extra)) {
		if v := h.Extra[k]; v != "" {
			parts = append(parts, k+"="+v)
		} else {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, ", ")
}

// Component is one netlist element connecting exactly two nodes.
//
// Nodes[0] is the positive terminal and Nodes[1] the negative one; a positive
// current flows from Nodes[0] to Nodes[1].
type Component struct {
	Name   string
	Kind   string    // R, L, C, P, TF, ...
	ID     string    // remainder of Name after Kind
	Symbol string    // explicit display symbol; empty means auto-generated
	Nodes  [2]string // normalized node names
	Hints  Hints
}

// NewComponent builds a validated component. Node names are normalized with
// [NormalizeNode] and the kind is derived from the name.
func NewComponent(name, pos, neg, symbol string, hints Hints) (Component, error) {
	if err := errors.ValidateName("component", name); err != nil {
		return Component{}, err
	}
	if err := errors.ValidateSymbol(symbol); err != nil {
		return Component{}, err
	}
	nodes := [2]string{NormalizeNode(pos), NormalizeNode(neg)}
	for _, n := range nodes {
		if err := errors.ValidateName("node", n); err != nil {
			return Component{}, err
		}
	}
	if hints.Dir == "" {
		hints.Dir = Up
	}
	kind, id := SplitName(name)
	return Component{
		Name:   name,
		Kind:   kind,
		ID:     id,
		Symbol: symbol,
		Nodes:  nodes,
		Hints:  hints,
	}, nil
}

// SplitName decomposes a component name into its kind and id.
func SplitName(name string) (kind, id string) {
	if len(name) > len(TransformerPrefix) && strings.HasPrefix(name, TransformerPrefix) {
		return TransformerPrefix, name[len(TransformerPrefix):]
	}
	_, size := utf8.DecodeRuneInString(name)
	return name[:size], name[size:]
}

// NormalizeNode maps the netlist node spelling to the internal one.
func NormalizeNode(node string) string {
	return strings.ReplaceAll(node, GroupSeparator, NodeSeparator)
}

// IsPort reports whether the component is an external terminal.
func (c Component) IsPort() bool {
	return c.Kind == PortKind
}

// DisplaySymbol returns the explicit symbol, or kind_{id} when none was given.
func (c Component) DisplaySymbol() string {
	if c.Symbol != "" {
		return c.Symbol
	}
	return c.Kind + "_{" + c.ID + "}"
}

// String serializes the component back to a netlist line.
func (c Component) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(c.Nodes[0])
	b.WriteByte(' ')
	b.WriteString(c.Nodes[1])
	if c.Symbol != "" {
		b.WriteByte(' ')
		b.WriteString(c.Symbol)
	}
	if hints := c.Hints.String(); hints != "" {
		b.WriteString("; ")
		b.WriteString(hints)
	}
	return b.String()
}
