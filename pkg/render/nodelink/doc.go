// Package nodelink renders schematic drawing commands as Graphviz diagrams.
//
// # Overview
//
// Where the tikz backend produces LaTeX source, this package produces a
// standalone image. Every coordinate command becomes a node pinned at its
// solved position, and every edge command becomes an undirected edge
// labelled with the component symbol. Graphviz only draws; the layout is
// never recomputed.
//
// # Usage
//
//	dot := nodelink.ToDOT(cmds)
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Styling
//
//   - Port terminals are open circles, other nodes filled points
//   - Port edges are dashed, with an arrow following the port's drawing side
//   - Wires are bold and unlabelled
//   - Labelled nodes carry their name as an external label
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] with the neato engine
// for in-process SVG rendering. PDF and PNG conversion requires librsvg
// (rsvg-convert).
package nodelink
