package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leshachaplin/crashlog/internal/domain"
	"github.com/leshachaplin/crashlog/internal/report"
)

func newComposeCommand(opts *rootOptions) *cobra.Command {
	var (
		input     string
		clipboard bool
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a report from an event JSON document",
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

			var req domain.EventRequest
			if err = json.Unmarshal(b, &req); err != nil {
				return fmt.Errorf("decode event: %w", err)
			}
			if req.BuildFingerprint == "" {
				req.BuildFingerprint = cfg.Report.BuildFingerprint
			}

			event, err := domain.DecodeEvent(req)
			if err != nil {
				return err
			}
			logger.Debug().
				Str("package", event.PackageName).
				Str("type", report.TypeTag(event)).
				Msg("composing report")

			composer := report.NewComposer(report.InfoDumper{})
			composer.Filter.Dedup = cfg.Report.DedupNativeLines

			text := composer.Compose(event)
			if clipboard {
				text = report.Clipboard(text)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "file", "f", stdinPath, "Event JSON file, - for stdin")
	cmd.Flags().BoolVar(&clipboard, "clipboard", false, "Wrap the report in a fenced block")

	return cmd
}
