// Package pipeline runs the load → layout → render sequence shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: parse netlist text into a [schematic.Schematic]
//  2. Layout: solve node positions, or restore them from the cache
//  3. Render: encode the drawing in every requested format
//
// Cache keys are derived from the canonical netlist (the output of
// [schematic.Schematic.Netlist]), so comments, blank lines and spacing do
// not defeat the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Netlist: text,
//	    Formats: []string{"tikz", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	tex := result.Artifacts["tikz"]
package pipeline

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schematic/pkg/cache"
	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/layout"
	"github.com/matzehuels/schematic/pkg/render"
	"github.com/matzehuels/schematic/pkg/schematic"
)

// LayoutVersion identifies the solver revision in layout cache keys. Bump it
// whenever the solver output changes for an unchanged netlist.
const LayoutVersion = 1

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// Format names accepted in Options.Formats.
const (
	FormatTikZ = "tikz"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatTikZ, FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Netlist string `json:"netlist"`
	Source  string `json:"source,omitempty"` // file name used in logs and errors

	// Render options
	Formats    []string `json:"formats,omitempty"`
	DrawNodes  bool     `json:"draw_nodes,omitempty"`
	LabelNodes bool     `json:"label_nodes,omitempty"`
	Args       string   `json:"args,omitempty"`
	Wires      string   `json:"wires,omitempty"` // "chain" or "star"
	Scale      float64  `json:"scale,omitempty"`

	// Refresh ignores cached entries and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Logger replaces the runner's logger for this run, e.g. to tag every
	// line with a request id. Nil selects Runner.Logger.
	Logger *log.Logger `json:"-"`

	wires     circuit.WirePolicy
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Schematic   *schematic.Schematic
	NetlistHash string
	Layout      *layout.Layout
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components int
	Nodes      int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from the cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: tikz, json, dot, svg, pdf, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Netlist == "" {
		return errors.New(errors.ErrCodeInvalidInput, "netlist is required")
	}
	if o.Source == "" {
		o.Source = "-"
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatTikZ}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	policy, err := circuit.ParseWirePolicy(o.Wires)
	if err != nil {
		return err
	}
	o.wires = policy
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.validated = true
	return nil
}

// RenderOptions returns the emitter options selected by o.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		DrawNodes:  o.DrawNodes,
		LabelNodes: o.LabelNodes,
		Args:       o.Args,
		Wires:      o.wires,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Version: LayoutVersion}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		DrawNodes:  o.DrawNodes,
		LabelNodes: o.LabelNodes,
		Args:       o.Args,
		Wires:      o.wires.String(),
	}
	if format == FormatPNG {
		opts.Format = fmt.Sprintf("%s@%g", format, o.Scale)
	}
	return opts
}
