package clickhouse

import (
	"context"
	"fmt"

	"github.com/leshachaplin/crashlog/internal/domain"
	reportText "github.com/leshachaplin/crashlog/internal/report"
)

func (c *Clickhouse) StoreReports(ctx context.Context, batch domain.ReportBatch) error {
	reports := reportsFromService(batch)

	b, err := c.conn.PrepareBatch(ctx, `INSERT INTO reports`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	for i := 0; i < len(reports); i++ {
		if errAppend := b.AppendStruct(&reports[i]); errAppend != nil {
			return fmt.Errorf("append report %s: %w", reports[i].ID, errAppend)
		}
	}
	return b.Send()
}

// ReportsByPackage returns the latest reports of a package, newest first.
func (c *Clickhouse) ReportsByPackage(ctx context.Context, packageName string, limit int) ([]domain.Report, error) {
	rows := make([]report, 0, limit)
	err := c.conn.Select(ctx, &rows, `SELECT
			toString(id) AS id,
			toString(server_time) AS server_time,
			type, title, package_name, package_version, process_name, installer, text
		FROM reports
		WHERE package_name = ?
		ORDER BY server_time DESC
		LIMIT ?`, packageName, limit)
	if err != nil {
		return nil, fmt.Errorf("select reports: %w", err)
	}

	out := make([]domain.Report, 0, len(rows))
	for _, r := range rows {
		rep, err := r.toService()
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", r.ID, err)
		}
		rep.Clipboard = reportText.Clipboard(rep.Text)
		out = append(out, rep)
	}
	return out, nil
}
