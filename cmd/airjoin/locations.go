package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rickgao/airq-etl/internal/location"
)

func newLocationsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "Print the sensor pairs selected by the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			sel := cfg.Pipeline.Selector()
			set, err := location.Default().Resolve(sel)
			if err != nil {
				return err
			}
			return printLocations(cmd.OutOrStdout(), sel, set)
		},
	}
}

func printLocations(w io.Writer, sel location.Selector, set *location.InterestSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "# selector: %s\n", sel)
	fmt.Fprintln(tw, "LOCATION\tPURPLEAIR\tSTATION")
	for _, loc := range set.Locations() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", loc.Name, loc.SourceA, loc.SourceB)
	}
	return tw.Flush()
}
