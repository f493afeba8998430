package clickhouse

import (
	"time"

	"github.com/leshachaplin/crashlog/internal/domain"
)

type report struct {
	ID             string `ch:"id"`
	ServerTime     string `ch:"server_time"`
	Type           string `ch:"type"`
	Title          string `ch:"title"`
	PackageName    string `ch:"package_name"`
	PackageVersion int32  `ch:"package_version"`
	ProcessName    string `ch:"process_name"`
	Installer      string `ch:"installer"`
	Text           string `ch:"text"`
}

func reportsFromService(batch domain.ReportBatch) []report {
	reports := make([]report, len(batch.Reports))
	for i, r := range batch.Reports {
		reports[i] = report{
			ID:             r.ID,
			ServerTime:     r.ServerTime.UTC().Format(time.DateTime),
			Type:           r.Type,
			Title:          r.Title,
			PackageName:    r.PackageName,
			PackageVersion: int32(r.PackageVersion),
			ProcessName:    r.ProcessName,
			Installer:      r.Installer,
			Text:           r.Text,
		}
	}
	return reports
}

func (r report) toService() (domain.Report, error) {
	serverTime, err := time.ParseInLocation(time.DateTime, r.ServerTime, time.UTC)
	if err != nil {
		return domain.Report{}, err
	}
	return domain.Report{
		ID:             r.ID,
		ServerTime:     serverTime,
		Type:           r.Type,
		Title:          r.Title,
		PackageName:    r.PackageName,
		PackageVersion: int(r.PackageVersion),
		ProcessName:    r.ProcessName,
		Installer:      r.Installer,
		Text:           r.Text,
	}, nil
}
