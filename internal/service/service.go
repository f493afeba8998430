package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/leshachaplin/crashlog/internal/domain"
	"github.com/leshachaplin/crashlog/internal/installer"
	"github.com/leshachaplin/crashlog/internal/report"
	"github.com/leshachaplin/crashlog/internal/worker"
)

const defaultTitleFormat = "%s error report"

type Config struct {
	BuildFingerprint string            `mapstructure:"build_fingerprint"`
	TitleFormat      string            `mapstructure:"title_format"`
	AppLabels        map[string]string `mapstructure:"app_labels"`
	IssueTrackerURL  string            `mapstructure:"issue_tracker_url"`
	DedupNativeLines bool              `mapstructure:"dedup_native_lines"`
}

type Storage interface {
	StoreReports(ctx context.Context, batch domain.ReportBatch) error
	ReportsByPackage(ctx context.Context, packageName string, limit int) ([]domain.Report, error)
}

type Service struct {
	ctx       context.Context
	cfg       Config
	composer  *report.Composer
	footer    *report.Footer
	installer installer.Lookup
	pool      worker.WorkerPool
	storage   Storage
	logger    zerolog.Logger
}

func New(
	ctx context.Context,
	cfg Config,
	footer *report.Footer,
	lookup installer.Lookup,
	reportPool worker.WorkerPool,
	reportStorage Storage,
	logger zerolog.Logger,
) *Service {
	reportPool.Start(reportStorage.StoreReports)

	if cfg.TitleFormat == "" {
		cfg.TitleFormat = defaultTitleFormat
	}

	composer := report.NewComposer(report.InfoDumper{})
	composer.Filter.Dedup = cfg.DedupNativeLines

	return &Service{
		ctx:       ctx,
		cfg:       cfg,
		composer:  composer,
		footer:    footer,
		installer: lookup,
		pool:      reportPool,
		storage:   reportStorage,
		logger:    logger,
	}
}
