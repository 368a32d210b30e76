// Package pkg provides the core libraries for Schematic circuit drawing.
//
// # Overview
//
// Schematic turns an electrical netlist into a circuit diagram. Each
// component names two nodes and may carry a direction hint; the layout
// solver places every node so that each component points the way its hint
// says, in the least-squares sense. The pkg directory is organized as:
//
//  1. [netlist] - Netlist line grammar and canonical formatting
//  2. [circuit] - Component store, node registry and wire synthesis
//  3. [layout] - Least-squares node placement via a pseudo-inverse
//  4. [render] - Drawing commands and their TikZ, JSON and Graphviz encodings
//  5. [schematic] - The facade tying the stages together
//  6. [pipeline] - Cached load → layout → render runs for the CLI and server
//
// # Architecture
//
// The typical data flow:
//
//	netlist text
//	     ↓
//	[netlist] package (parse lines into components)
//	     ↓
//	[circuit] package (register nodes, split ports into virtual nodes)
//	     ↓
//	[layout] package (solve coordinates)
//	     ↓
//	[render] package (emit commands, encode TikZ/JSON/DOT/SVG)
//
// # Quick Start
//
//	s := schematic.New()
//	_ = s.Add("P1 1 0.1")
//	_ = s.Add("R1 3 1; right")
//	_ = s.Add("C1 3 0; down")
//	err := s.Draw(ctx, os.Stdout, schematic.DrawOptions{})
//
// # Supporting Packages
//
// [cache] - Layout and drawing cache with file, Redis and null backends.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hooks for load, layout, render, cache and server events.
//
// [buildinfo] - Version information injected at build time.
//
// [netlist]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/netlist
// [circuit]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/circuit
// [layout]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/render
// [schematic]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/schematic
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/buildinfo
package pkg
