package commands

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leshachaplin/crashlog/internal/report"
)

// newGzipCommand converts between plain text and the base64 gzip form that
// custom reports carry in their message field.
func newGzipCommand(_ *rootOptions) *cobra.Command {
	var (
		input  string
		decode bool
	)

	cmd := &cobra.Command{
		Use:   "gzip",
		Short: "Encode a custom report message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := readInput(cmd, input)
			if err != nil {
				return err
			}

			if decode {
				raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(b)))
				if err != nil {
					return fmt.Errorf("decode base64: %w", err)
				}
				msg, err := report.DecodeMessage(raw)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), msg)
				return err
			}

			encoded, err := report.EncodeMessage(string(b))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(encoded))
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "file", "f", stdinPath, "Input file, - for stdin")
	cmd.Flags().BoolVarP(&decode, "decode", "d", false, "Decode instead of encode")

	return cmd
}
