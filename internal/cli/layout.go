package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schematic/pkg/cache"
	"github.com/matzehuels/schematic/pkg/pipeline"
)

func (c *CLI) layoutCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Print the solved node coordinates of a netlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, err := readNetlist(args[0])
			if err != nil {
				return fmt.Errorf("read netlist: %w", err)
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{Netlist: text, Source: args[0], Logger: c.Logger}
			s, err := runner.Load(ctx, opts)
			if err != nil {
				return err
			}
			l, hit, err := runner.LayoutWithCacheInfo(ctx, s, cache.Hash([]byte(s.Netlist())), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(l)
			}
			fmt.Fprintln(out, coordinateTable(l.Nodes, l.X, l.Y))
			c.ui.detail("centre (%.2f, %.2f), size %.2f × %.2f", l.CenterX, l.CenterY, l.Width(), l.Height())
			c.ui.stats(s.Len(), len(l.Nodes), hit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
