// Package schematic ties the netlist parser, graph store, layout solver and
// drawing emitter together behind a single [Schematic] value.
//
// A Schematic is built line by line and drawn once the netlist is complete:
//
//	s := schematic.New()
//	for _, line := range lines {
//		if err := s.Add(line); err != nil {
//			return err
//		}
//	}
//	err := s.Draw(ctx, os.Stdout, schematic.DrawOptions{
//		Options: render.Options{DrawNodes: true, LabelNodes: true},
//	})
//
// The layout is solved on the first call that needs it and kept until
// [Schematic.Invalidate] is called. Adding components after that point does
// not move any node; the stale layout is logged but still used. A Schematic
// is not safe for concurrent use.
package schematic
