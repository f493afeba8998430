package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leshachaplin/crashlog/internal/config"
	"github.com/leshachaplin/crashlog/internal/domain"
)

func newFooterCommand(opts *rootOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "footer",
		Short: "Render the app metadata footer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd,
				config.WithFlag("footer::locale", cmd.Flags().Lookup("locale")),
				config.WithFlag("footer::time_zone", cmd.Flags().Lookup("time-zone")),
				config.WithFlag("footer::rtl_context", cmd.Flags().Lookup("rtl")),
			)
			if err != nil {
				return err
			}

			b, err := readInput(cmd, input)
			if err != nil {
				return err
			}

			var meta domain.AppMetadata
			if err = json.Unmarshal(b, &meta); err != nil {
				return fmt.Errorf("decode app metadata: %w", err)
			}

			footer, err := cfg.Footer.NewFooter()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), footer.Render(meta))
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "file", "f", stdinPath, "App metadata JSON file, - for stdin")
	cmd.Flags().String("locale", "", "BCP 47 locale used for dates")
	cmd.Flags().String("time-zone", "", "IANA time zone used for dates")
	cmd.Flags().Bool("rtl", false, "Render for a right-to-left context")

	return cmd
}
