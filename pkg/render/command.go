package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/schematic/pkg/layout"
)

// Op identifies the kind of a drawing command.
type Op string

const (
	OpBegin      Op = "begin"
	OpCoordinate Op = "coordinate"
	OpPort       Op = "port"
	OpComponent  Op = "component"
	OpWire       Op = "wire"
	OpLabel      Op = "label"
	OpEnd        Op = "end"
)

// Drawing-type tags for edges that are not named after their component kind.
const (
	TagOpen  = "open"
	TagShort = "short"
)

// Annotation is a text overlay on an edge, such as a current label.
type Annotation struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Command is one drawing instruction.
//
// Edges run From the negative terminal To the positive terminal of their
// component. Terminals, when set, is the node decoration in drawing order,
// e.g. "o-*".
type Command struct {
	Op        Op            `json:"op"`
	Component string        `json:"component,omitempty"`
	From      string        `json:"from,omitempty"`
	To        string        `json:"to,omitempty"`
	Node      string        `json:"node,omitempty"`
	At        *layout.Point `json:"at,omitempty"`
	Tag       string        `json:"tag,omitempty"`
	Symbol    string        `json:"symbol,omitempty"`
	ArrowUp   bool          `json:"arrow_up,omitempty"`
	Currents  []Annotation  `json:"currents,omitempty"`
	Terminals string        `json:"terminals,omitempty"`
	Args      string        `json:"args,omitempty"`
}

// String returns a compact human-readable form used in logs.
func (c Command) String() string {
	switch c.Op {
	case OpBegin, OpEnd:
		return string(c.Op)
	case OpCoordinate:
		return fmt.Sprintf("coordinate %s at (%.1f, %.1f)", c.Node, c.At.X, c.At.Y)
	case OpLabel:
		return fmt.Sprintf("label %s", c.Node)
	}
	return fmt.Sprintf("%s %s %s->%s", c.Op, c.Tag, c.From, c.To)
}

// WriteJSON encodes the command list as an indented JSON array.
func WriteJSON(w io.Writer, cmds []Command) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cmds); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
