package render

import (
	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/layout"
	"github.com/matzehuels/schematic/pkg/netlist"
)

// currentKeys are the hint annotations rendered on component edges.
var currentKeys = []string{"i", "i_"}

// Options controls the decoration of the emitted drawing.
type Options struct {
	DrawNodes  bool               // append terminal markers to component and wire edges
	LabelNodes bool               // emit a text label at every primary node
	Args       string             // style arguments for the begin marker
	Wires      circuit.WirePolicy // how virtual-node groups are joined
}

// Tag returns the drawing-type tag of a component kind.
func Tag(kind string) string {
	if kind == netlist.WireKind {
		return TagShort
	}
	return kind
}

// Emit produces the drawing commands for s positioned by l.
//
// The output depends only on the insertion order of components and the
// registration order of nodes, so equal inputs give identical drawings.
func Emit(s *circuit.Store, l *layout.Layout, opts Options) ([]Command, error) {
	cmds := []Command{{Op: OpBegin, Args: opts.Args}}

	for _, name := range s.NodeNames() {
		p, ok := l.Position(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "layout is missing node %s", name)
		}
		cmds = append(cmds, Command{Op: OpCoordinate, Node: name, At: &p})
	}

	for _, c := range s.Components() {
		cmd, err := componentCommand(s, l, c, opts)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}

	for _, w := range s.Wires(opts.Wires) {
		cmd := Command{
			Op:   OpWire,
			From: w.Nodes[1],
			To:   w.Nodes[0],
			Tag:  TagShort,
		}
		if opts.DrawNodes {
			cmd.Terminals = terminals(s, cmd.From, cmd.To)
		}
		cmds = append(cmds, cmd)
	}

	if opts.LabelNodes {
		for _, n := range s.Nodes() {
			if n.Primary {
				cmds = append(cmds, Command{Op: OpLabel, Node: n.Name})
			}
		}
	}

	return append(cmds, Command{Op: OpEnd}), nil
}

func componentCommand(s *circuit.Store, l *layout.Layout, c netlist.Component, opts Options) (Command, error) {
	cmd := Command{
		Component: c.Name,
		From:      c.Nodes[1],
		To:        c.Nodes[0],
	}

	if c.IsPort() {
		pos1, _, err := l.Terminals(c)
		if err != nil {
			return Command{}, err
		}
		cmd.Op = OpPort
		cmd.Tag = TagOpen
		cmd.Symbol = c.Symbol
		cmd.ArrowUp = pos1.X > l.CenterX
		return cmd, nil
	}

	cmd.Op = OpComponent
	cmd.Tag = Tag(c.Kind)
	cmd.Symbol = c.DisplaySymbol()
	for _, key := range currentKeys {
		if v, ok := c.Hints.Get(key); ok {
			cmd.Currents = append(cmd.Currents, Annotation{Key: key, Value: v})
		}
	}
	if opts.DrawNodes {
		cmd.Terminals = terminals(s, cmd.From, cmd.To)
	}
	return cmd, nil
}

func terminals(s *circuit.Store, from, to string) string {
	return symbolOf(s, from) + "-" + symbolOf(s, to)
}

func symbolOf(s *circuit.Store, name string) string {
	if n, ok := s.Node(name); ok {
		return n.Symbol()
	}
	return circuit.SymbolNode
}
