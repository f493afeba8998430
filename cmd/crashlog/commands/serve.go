package commands

import (
	"github.com/spf13/cobra"

	"github.com/leshachaplin/crashlog/app"
	"github.com/leshachaplin/crashlog/internal/config"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the report server",
		Long: `Run the HTTP report server. Submitted reports are queued through
Redpanda (or an in-memory queue) and stored in ClickHouse.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd,
				config.WithFlag("addr", cmd.Flags().Lookup("addr")),
				config.WithFlag("queue", cmd.Flags().Lookup("queue")),
			)
			if err != nil {
				return err
			}
			if err = cfg.ValidateServer(); err != nil {
				return err
			}

			app.New(func() (config.Config, error) {
				return cfg, nil
			}).Start()
			return nil
		},
	}

	cmd.Flags().String("addr", ":8080", "Address the public server listens on")
	cmd.Flags().String("queue", config.QueueRedpanda, "Report queue (redpanda, memory)")

	return cmd
}
