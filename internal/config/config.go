package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/leshachaplin/crashlog/internal/installer"
	"github.com/leshachaplin/crashlog/internal/report"
	"github.com/leshachaplin/crashlog/internal/service"
	"github.com/leshachaplin/crashlog/internal/storage/report/clickhouse"
	"github.com/leshachaplin/crashlog/internal/worker"
	"github.com/leshachaplin/crashlog/internal/worker/redpanda/consumer"
	"github.com/leshachaplin/crashlog/internal/worker/redpanda/producer"
)

const (
	QueueRedpanda = "redpanda"
	QueueMemory   = "memory"

	envPrefix = "CRASHLOG"
	// package names are dotted and are used as map keys
	keyDelimiter = "::"
)

// Config is the main config for the application
type Config struct {
	LogLevel       string            `mapstructure:"log_level"`
	Addr           string            `mapstructure:"addr"`
	Queue          string            `mapstructure:"queue"`
	Report         service.Config    `mapstructure:"report"`
	Footer         Footer            `mapstructure:"footer"`
	Installer      installer.Config  `mapstructure:"installer"`
	Clickhouse     clickhouse.Config `mapstructure:"clickhouse"`
	ReportWorker   worker.Config     `mapstructure:"report_worker"`
	ReportProducer producer.Config   `mapstructure:"report_producer"`
	ReportConsumer consumer.Config   `mapstructure:"report_consumer"`
	ErrorProducer  producer.Config   `mapstructure:"error_producer"`
}

type Footer struct {
	Locale     string        `mapstructure:"locale"`
	TimeZone   string        `mapstructure:"time_zone"`
	RTLContext bool          `mapstructure:"rtl_context"`
	Labels     report.Labels `mapstructure:"labels"`
}

// NewFooter builds the footer renderer described by f.
func (f Footer) NewFooter() (*report.Footer, error) {
	dates, err := report.ParseLocaleFormatter(f.Locale, f.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("footer dates: %w", err)
	}
	return report.NewFooter(dates, report.BidiWrapper{RTLContext: f.RTLContext}, f.Labels), nil
}

func setDefaults(v *viper.Viper) {
	labels := report.DefaultLabels()

	v.SetDefault("log_level", "INFO")
	v.SetDefault("addr", ":8080")
	v.SetDefault("queue", QueueRedpanda)

	v.SetDefault("report::build_fingerprint", "")
	v.SetDefault("report::title_format", "%s error report")
	v.SetDefault("report::issue_tracker_url", "https://github.com/GrapheneOS/os-issue-tracker/issues")
	v.SetDefault("report::dedup_native_lines", false)

	v.SetDefault("footer::locale", report.DefaultLocale.String())
	v.SetDefault("footer::time_zone", "UTC")
	v.SetDefault("footer::rtl_context", false)
	v.SetDefault("footer::labels::version", labels.Version)
	v.SetDefault("footer::labels::install_time", labels.InstallTime)
	v.SetDefault("footer::labels::update_time", labels.UpdateTime)

	v.SetDefault("installer::url", "")
	v.SetDefault("installer::retry_max", 3)

	v.SetDefault("clickhouse::addr", "localhost:9000")
	v.SetDefault("clickhouse::db", "default")
	v.SetDefault("clickhouse::username", "default")
	v.SetDefault("clickhouse::password", "")

	v.SetDefault("report_worker::num_workers", 4)

	v.SetDefault("report_producer::brokers", []string{"localhost:9092"})
	v.SetDefault("report_producer::topic", "reports")
	v.SetDefault("report_producer::retry_attempts", 5)
	v.SetDefault("report_producer::retry_delay", "1s")

	v.SetDefault("report_consumer::brokers", []string{"localhost:9092"})
	v.SetDefault("report_consumer::consumer_group", "reports-cg")
	v.SetDefault("report_consumer::topics", []string{"reports"})
	v.SetDefault("report_consumer::retry_count", 10)
	v.SetDefault("report_consumer::poll_fetches_timeout", "15s")

	v.SetDefault("error_producer::brokers", []string{"localhost:9092"})
	v.SetDefault("error_producer::topic", "")
	v.SetDefault("error_producer::retry_attempts", 5)
	v.SetDefault("error_producer::retry_delay", "1s")
}

type Option func(v *viper.Viper) error

// WithFlag lets a command line flag override the value at key when the flag
// is set. Nested keys use "::" between segments.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(v *viper.Viper) error {
		if flag == nil {
			return nil
		}
		return v.BindPFlag(key, flag)
	}
}

// Load reads defaults, then the optional YAML file at path, then CRASHLOG_*
// environment variables (CRASHLOG_CLICKHOUSE_ADDR for clickhouse::addr), then
// bound flags.
func Load(path string, opts ...Option) (Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	setDefaults(v)
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return Config{}, fmt.Errorf("bind flag: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Queue {
	case QueueRedpanda, QueueMemory:
	default:
		return fmt.Errorf("unsupported queue: %q", c.Queue)
	}
	if err := c.Footer.Labels.Validate(); err != nil {
		return fmt.Errorf("footer labels: %w", err)
	}
	if c.Queue == QueueRedpanda && len(c.ReportProducer.Brokers) == 0 {
		return errors.New("report_producer.brokers must not be empty")
	}
	return nil
}

// ValidateServer checks the settings only the report server needs.
func (c Config) ValidateServer() error {
	if c.Report.BuildFingerprint == "" {
		return errors.New("report.build_fingerprint must not be empty")
	}
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	return nil
}
