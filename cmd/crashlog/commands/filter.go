package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leshachaplin/crashlog/internal/report"
)

func newFilterCommand(opts *rootOptions) *cobra.Command {
	var (
		input string
		dedup bool
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Strip the memory dump from a native crash report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			logger := opts.logger(cmd, cfg)

			b, err := readInput(cmd, input)
			if err != nil {
				return err
			}

			filter := report.NativeCrashFilter{
				Dedup: dedup || cfg.Report.DedupNativeLines,
			}
			raw := string(b)
			if !report.IsNativeCrash(raw) {
				logger.Debug().Msg("input is not a native crash, printing as is")
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), filter.Filter(raw))
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "file", "f", stdinPath, "Crash report file, - for stdin")
	cmd.Flags().BoolVar(&dedup, "dedup", false, "Print signal and abort lines only once")

	return cmd
}
