// Package netlist parses and serializes the line-oriented circuit description
// consumed by the schematic engine.
//
// # Line Grammar
//
// Each component is described by one line:
//
//	Name Node1 Node2 [Symbol] [; hint, hint, key=value, ...]
//
// The text before the first ";" holds whitespace-separated core fields: the
// component name, the positive and negative terminal nodes, and an optional
// explicit display symbol. Everything after the ";" is a comma-separated hint
// clause controlling layout:
//
//   - up, down, left, right: the direction the component is drawn in (default up)
//   - size=N: a length multiplier (default 1)
//   - key=value or bare key: free-form annotations, e.g. i=I_1 for a current label
//
// Keys and values may contain spaces; only the surrounding whitespace is
// trimmed. Sizes must be finite numbers.
//
// Dots in node names are rewritten to underscores: "3.a" and "3_a" name the
// same node, a virtual sub-node of the root node "3".
//
// # Component Kinds
//
// The kind of a component is the first character of its name (R, L, C, P, W,
// ...), except for transformers whose names start with the reserved
// two-character prefix "TF". Components of kind P are ports.
//
// # Usage
//
//	c, err := netlist.Parse("R1 3 1; right, size=1.5")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(c.Kind, c.Nodes, c.Hints.Dir) // R [3 1] right
//	fmt.Println(c)                           // R1 3 1; right, size=1.5
//
// Both grammars are built with participle; a malformed line fails with an
// INVALID_LINE error from pkg/errors.
package netlist
