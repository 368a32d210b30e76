// Package tikz writes drawing commands as a circuitikz picture.
//
// Each command becomes one line:
//
//	\begin{tikzpicture}[scale=0.8]
//	    \coordinate (1) at (0.0, 2.0);
//	    \draw (0_1) to [open, v^=$V_1$] (1);
//	    \draw (1) to [R=$R_{1}$, i=$I$, *-*] (3);
//	    \draw (0) to [short, *-o] (0_1);
//	    \draw {[anchor=south east] (1) node {1}};
//	\end{tikzpicture}
package tikz

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/render"
)

const indent = "    "

// Write encodes cmds to w. Output is buffered and flushed once; when any
// command fails to encode, nothing after it is written, including the end
// marker.
func Write(w io.Writer, cmds []render.Command) error {
	bw := bufio.NewWriter(w)
	for _, c := range cmds {
		line, err := Line(c)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Line renders a single command.
func Line(c render.Command) (string, error) {
	switch c.Op {
	case render.OpBegin:
		return fmt.Sprintf(`\begin{tikzpicture}[%s]`, c.Args), nil
	case render.OpEnd:
		return `\end{tikzpicture}`, nil
	case render.OpCoordinate:
		if c.At == nil {
			return "", errors.New(errors.ErrCodeInternal, "coordinate %s has no position", c.Node)
		}
		return fmt.Sprintf(`%s\coordinate (%s) at (%.1f, %.1f);`, indent, c.Node, c.At.X, c.At.Y), nil
	case render.OpLabel:
		return fmt.Sprintf(`%s\draw {[anchor=south east] (%s) node {%s}};`, indent, c.Node, c.Node), nil
	case render.OpPort, render.OpComponent, render.OpWire:
		return edge(c), nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown drawing command %q", c.Op)
}

func edge(c render.Command) string {
	opts := []string{c.Tag}

	switch c.Op {
	case render.OpPort:
		if c.Symbol != "" {
			arrow := ""
			if c.ArrowUp {
				arrow = "^"
			}
			opts = []string{c.Tag, fmt.Sprintf("v%s=$%s$", arrow, c.Symbol)}
		}
	case render.OpComponent:
		opts = []string{fmt.Sprintf("%s=$%s$", c.Tag, c.Symbol)}
		for _, a := range c.Currents {
			opts = append(opts, fmt.Sprintf("%s=$%s$", a.Key, a.Value))
		}
	}
	if c.Terminals != "" {
		opts = append(opts, c.Terminals)
	}

	return fmt.Sprintf(`%s\draw (%s) to [%s] (%s);`, indent, c.From, strings.Join(opts, ", "), c.To)
}
