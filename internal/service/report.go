package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leshachaplin/crashlog/internal/domain"
	"github.com/leshachaplin/crashlog/internal/report"
)

type Reporter interface {
	Compose(ctx context.Context, req domain.EventRequest, showReportButton bool) (domain.Report, error)
	ComposeCustom(ctx context.Context, req CustomRequest) (domain.Report, error)
	ProcessReports(buf *bytes.Buffer, serverTime time.Time)
	Reports(ctx context.Context, packageName string, limit int) ([]domain.Report, error)
	FilterCrash(raw string) string
	Footer(meta domain.AppMetadata) string
}

var ErrInvalidMessage = errors.New("invalid report message")

// CustomRequest is a pre-formatted report sent as a gzipped message.
type CustomRequest struct {
	Type             string
	Message          []byte
	SourcePackage    string
	Title            string
	ShowReportButton bool
}

const (
	defaultCustomType = "crash"
	maxReportLine     = 4 * 1024 * 1024
)

func (s *Service) Compose(ctx context.Context, req domain.EventRequest, showReportButton bool) (domain.Report, error) {
	if req.BuildFingerprint == "" {
		req.BuildFingerprint = s.cfg.BuildFingerprint
	}

	event, err := domain.DecodeEvent(req)
	if err != nil {
		return domain.Report{}, fmt.Errorf("decode event: %w", err)
	}

	return s.compose(ctx, event, "", showReportButton), nil
}

func (s *Service) ComposeCustom(ctx context.Context, req CustomRequest) (domain.Report, error) {
	msg, err := report.DecodeMessage(req.Message)
	if err != nil {
		return domain.Report{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	typ := req.Type
	if typ == "" {
		typ = defaultCustomType
	}

	event, err := domain.NewCustom(domain.Header{
		PackageName:      req.SourcePackage,
		ProcessName:      req.SourcePackage,
		BuildFingerprint: s.cfg.BuildFingerprint,
	}, domain.Custom{Type: typ, Body: msg})
	if err != nil {
		return domain.Report{}, fmt.Errorf("custom event: %w", err)
	}

	return s.compose(ctx, event, req.Title, req.ShowReportButton), nil
}

// ProcessReports composes newline delimited events and hands them to the
// worker pool for storage. Undecodable lines are logged and skipped.
func (s *Service) ProcessReports(buf *bytes.Buffer, serverTime time.Time) {
	l := s.logger.With().Str("Service", "ProcessReports").Logger()
	scanner := bufio.NewScanner(buf)
	scanner.Buffer(make([]byte, 0, 64*1024), maxReportLine)
	scanner.Split(bufio.ScanLines)

	batch := domain.ReportBatch{
		Reports: make([]domain.Report, 0),
	}
	for scanner.Scan() {
		data := scanner.Bytes()
		if len(bytes.TrimSpace(data)) == 0 {
			continue
		}

		var req domain.EventRequest
		if err := json.Unmarshal(data, &req); err != nil {
			l.Err(err).Str("raw_event", string(data)).Msg("Failed to decode event")
			continue
		}

		r, err := s.Compose(s.ctx, req, false)
		if err != nil {
			l.Err(err).Str("package", req.PackageName).Msg("Failed to compose report")
			continue
		}
		r.ServerTime = serverTime
		batch.Reports = append(batch.Reports, r)
	}
	if err := scanner.Err(); err != nil {
		l.Err(err).Msg("Failed to read reports")
	}

	if len(batch.Reports) > 0 {
		batch.ID = batch.Reports[0].ID
		s.pool.Process(batch)
	}
}

const (
	defaultReportsLimit = 20
	maxReportsLimit     = 500
)

func (s *Service) Reports(ctx context.Context, packageName string, limit int) ([]domain.Report, error) {
	switch {
	case limit <= 0:
		limit = defaultReportsLimit
	case limit > maxReportsLimit:
		limit = maxReportsLimit
	}
	return s.storage.ReportsByPackage(ctx, packageName, limit)
}

func (s *Service) FilterCrash(raw string) string {
	return s.composer.Filter.Filter(raw)
}

func (s *Service) Footer(meta domain.AppMetadata) string {
	return s.footer.Render(meta)
}

func (s *Service) compose(ctx context.Context, event domain.Event, title string, showReportButton bool) domain.Report {
	if (event.InstallerPackageName == nil || *event.InstallerPackageName == "") && s.installer != nil {
		if name, ok := s.installer.InstallerOf(ctx, event.PackageName); ok {
			event = event.WithInstaller(name)
		}
	}

	text := s.composer.Compose(event)
	if title == "" {
		title = report.Title(s.cfg.TitleFormat, s.cfg.AppLabels[event.PackageName], event.PackageName)
	}

	r := domain.Report{
		ID:             uuid.NewString(),
		ServerTime:     time.Now().UTC(),
		Type:           report.TypeTag(event),
		Title:          title,
		PackageName:    event.PackageName,
		PackageVersion: event.PackageVersion,
		ProcessName:    event.ProcessName,
		Text:           text,
		Clipboard:      report.Clipboard(text),
	}
	if event.InstallerPackageName != nil && *event.InstallerPackageName != "" {
		r.Installer = *event.InstallerPackageName
	}
	if showReportButton {
		r.IssueURL = s.cfg.IssueTrackerURL
	}
	return r
}
