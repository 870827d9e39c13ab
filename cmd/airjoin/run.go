package main

import (
	"github.com/spf13/cobra"

	"github.com/rickgao/airq-etl/internal/version"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the reconciliation once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.logger
			logger.Info("starting airjoin run",
				"version", version.Version,
				"commit", version.Commit,
				"config", opts.configPath,
			)

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.job.Run(cmd.Context())
			return err
		},
	}
}
