package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/schematic/pkg/render"
)

// ToDOT converts drawing commands to Graphviz DOT source with pinned node
// positions. Layout units map to inches.
func ToDOT(cmds []render.Command) string {
	open := make(map[string]bool)
	labelled := make(map[string]bool)
	for _, c := range cmds {
		switch c.Op {
		case render.OpPort:
			open[c.From], open[c.To] = true, true
		case render.OpLabel:
			labelled[c.Node] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.08, fontsize=12];\n")
	buf.WriteString("  edge [fontsize=14];\n")
	buf.WriteString("\n")

	for _, c := range cmds {
		if c.Op != render.OpCoordinate {
			continue
		}
		attrs := []string{fmt.Sprintf("pos=\"%g,%g!\"", c.At.X, c.At.Y)}
		if open[c.Node] {
			attrs = append(attrs, "shape=circle", "width=0.12", "fixedsize=true", "label=\"\"")
		}
		if labelled[c.Node] {
			attrs = append(attrs, fmt.Sprintf("xlabel=%q", c.Node))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", c.Node, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range cmds {
		attrs := edgeAttrs(c)
		if attrs == nil {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q", c.From, c.To)
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// edgeAttrs returns nil for commands that are not edges.
func edgeAttrs(c render.Command) []string {
	switch c.Op {
	case render.OpWire:
		return []string{"style=bold"}
	case render.OpPort:
		attrs := []string{"style=dashed", "dir=forward"}
		if !c.ArrowUp {
			attrs[1] = "dir=back"
		}
		if c.Symbol != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", c.Symbol))
		}
		return attrs
	case render.OpComponent:
		label := c.Symbol
		for _, a := range c.Currents {
			label += "\n" + a.Key + "=" + a.Value
		}
		return []string{fmt.Sprintf("label=%q", label)}
	}
	return nil
}

// RenderSVG renders a DOT graph to SVG using the Graphviz neato engine, which
// honours the pinned node positions of [ToDOT].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
