// Package render turns a laid-out schematic into drawing commands and
// encodes them into output formats.
//
// # Overview
//
// [Emit] walks the components of a store in insertion order and produces a
// flat, deterministic list of [Command] values:
//
//  1. one begin marker carrying the picture style arguments
//  2. one coordinate declaration per node
//  3. one edge per component (ports as open terminals)
//  4. one plain edge per synthesized wire
//  5. optionally, one text label per primary node
//  6. one end marker
//
// Commands are backend-neutral. The [tikz] subpackage writes them as
// circuitikz markup, [WriteJSON] dumps them as JSON, and the [nodelink]
// subpackage turns them into a Graphviz graph with pinned node positions.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output using the external rsvg-convert
// tool (from librsvg).
package render
