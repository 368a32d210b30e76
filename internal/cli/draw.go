package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schematic/pkg/pipeline"
)

// drawOpts holds the command-line flags for the draw command. Unset flags
// fall back to the [draw] section of the config file.
type drawOpts struct {
	output  string  // output file (single format) or base path (several)
	formats string  // comma-separated output formats
	nodes   bool    // decorate terminals with node markers
	labels  bool    // label primary nodes
	args    string  // tikzpicture options
	wires   string  // virtual-node wiring: chain or star
	scale   float64 // PNG scale factor
	noCache bool
	refresh bool
}

func (c *CLI) drawCommand() *cobra.Command {
	var opts drawOpts

	cmd := &cobra.Command{
		Use:   "draw [file]",
		Short: "Draw a netlist as TikZ, SVG, or another format",
		Long: `Draw lays out the netlist in file ("-" for stdin) and writes the drawing.

With a single format and no --output the drawing is written to stdout.
With several formats, one file per format is written next to --output
(or the input file) with the format's extension.`,
		Example: `  schematic draw filter.net > filter.tex
  schematic draw filter.net -f tikz,svg -o build/filter
  schematic draw filter.net -f png --scale 3 -o filter.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyDrawConfig(cmd, &opts)
			return c.runDraw(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): tikz, json, dot, svg, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.nodes, "nodes", true, "draw node markers at component terminals")
	cmd.Flags().BoolVar(&opts.labels, "labels", true, "label primary nodes")
	cmd.Flags().StringVar(&opts.args, "args", "", "tikzpicture options, e.g. scale=0.8")
	cmd.Flags().StringVar(&opts.wires, "wires", "", "virtual node wiring: chain (default), star")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached entries")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.ValidFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("wires", cobra.FixedCompletions([]string{"chain", "star"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) applyDrawConfig(cmd *cobra.Command, opts *drawOpts) {
	cfg := c.Config.Draw
	flags := cmd.Flags()
	if !flags.Changed("format") {
		opts.formats = strings.Join(cfg.Formats, ",")
	}
	if !flags.Changed("nodes") {
		opts.nodes = cfg.Nodes
	}
	if !flags.Changed("labels") {
		opts.labels = cfg.Labels
	}
	if !flags.Changed("args") {
		opts.args = cfg.Args
	}
	if !flags.Changed("wires") {
		opts.wires = cfg.Wires
	}
}

func (c *CLI) runDraw(ctx context.Context, stdout io.Writer, input string, opts drawOpts) error {
	prog := newProgress(c.Logger)

	text, err := readNetlist(input)
	if err != nil {
		return fmt.Errorf("read netlist: %w", err)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	formats := parseFormats(opts.formats)
	result, err := runner.Execute(ctx, pipeline.Options{
		Netlist:    text,
		Source:     input,
		Formats:    formats,
		DrawNodes:  opts.nodes,
		LabelNodes: opts.labels,
		Args:       opts.args,
		Wires:      opts.wires,
		Scale:      opts.scale,
		Refresh:    opts.refresh,
		Logger:     c.Logger,
	})
	if err != nil {
		return err
	}

	if len(formats) == 0 {
		formats = []string{pipeline.FormatTikZ}
	}
	if len(formats) == 1 && opts.output == "" {
		_, err := stdout.Write(result.Artifacts[formats[0]])
		return err
	}

	paths := outputPaths(input, opts.output, formats)
	for _, f := range formats {
		if err := writeFile(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
	}

	prog.done("drew " + input)
	c.ui.success("Drew %s", input)
	for _, f := range formats {
		c.ui.file(paths[f])
	}
	c.ui.stats(result.Stats.Components, result.Stats.Nodes, result.CacheInfo.LayoutHit)
	return nil
}

// outputPaths maps each format to its output file. A single format writes
// exactly to output when given; otherwise the extension is derived per
// format from output (or input) with its extension stripped.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = input
		if base == "-" {
			base = appName
		}
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + formatExt(f)
	}
	return paths
}

func formatExt(format string) string {
	if format == pipeline.FormatTikZ {
		return ".tex"
	}
	return "." + format
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
