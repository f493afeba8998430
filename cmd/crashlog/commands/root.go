package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/leshachaplin/crashlog/app"
	"github.com/leshachaplin/crashlog/internal/config"
)

const stdinPath = "-"

type rootOptions struct {
	configFile string
	logLevel   string
}

// NewRootCommand builds the crashlog command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "crashlog",
		Short: "Compose and collect Android error reports",
		Long: `crashlog turns crash, ANR, battery and running service events into
plain text error reports. It runs as a report server or composes reports
locally from JSON files.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "INFO", "Logging level (TRACE, DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newComposeCommand(opts),
		newFilterCommand(opts),
		newFooterCommand(opts),
		newGzipCommand(opts),
	)

	return rootCmd
}

func (o *rootOptions) load(cmd *cobra.Command, opts ...config.Option) (config.Config, error) {
	opts = append(opts, config.WithFlag("log_level", cmd.Flags().Lookup("log-level")))
	cfg, err := config.Load(o.configFile, opts...)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) logger(cmd *cobra.Command, cfg config.Config) zerolog.Logger {
	return app.NewConsoleLogger(cmd.ErrOrStderr(), app.Level(cfg.LogLevel))
}

// readInput reads the file at path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != stdinPath {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}
