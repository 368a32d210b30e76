package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schematic/pkg/schematic"
)

func (c *CLI) netlistCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "netlist [file]",
		Short: "Print the canonical form of a netlist",
		Long: `Netlist parses file ("-" for stdin) and prints it back in canonical form:
comments and blank lines dropped, dots in node names replaced by underscores,
default hints omitted, and later duplicates replacing earlier definitions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := schematic.New(schematic.WithLogger(c.Logger))
			var err error
			if args[0] == "-" {
				err = s.Load(os.Stdin)
			} else {
				err = s.LoadFile(args[0])
			}
			if err != nil {
				return err
			}
			if s.Len() == 0 {
				c.ui.warning("%s contains no components", args[0])
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.Netlist())
			return err
		},
	}
}
