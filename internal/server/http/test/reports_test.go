//go:build integration

package http

import (
	"context"
	"fmt"
	"time"

	"github.com/leshachaplin/crashlog/internal/domain"
)

func crashEvent(packageName string, seq int) domain.EventRequest {
	return domain.EventRequest{
		Type:           int(domain.KindCrash),
		PackageName:    packageName,
		PackageVersion: seq,
		ProcessName:    packageName,
		Crash: &domain.CrashRequest{
			StackTrace:      fmt.Sprintf("java.lang.IllegalStateException: %d\n\tat a.b.C.d(C.java:1)", seq),
			ProcessUptimeMs: int64(seq),
		},
	}
}

func (i *IntegrationTestSuite) TestReport_Compose() {
	ctx, cancel := context.WithTimeout(i.ctx, time.Second*10)
	defer cancel()

	rep, err := i.client.Compose(ctx, crashEvent("com.example.app", 1))
	i.Require().NoError(err)

	i.Equal("crash", rep.Type)
	i.Equal("Example error report", rep.Title)
	i.Equal("com.android.vending", rep.Installer)
	i.Contains(rep.Text, "osVersion: "+testFingerprint+"\n")
	i.Contains(rep.Text, "installer: com.android.vending\n")
	i.NotEmpty(rep.IssueURL)
}

func (i *IntegrationTestSuite) TestReport_SendAndList() {
	ctx, cancel := context.WithTimeout(i.ctx, time.Minute*2)
	defer cancel()

	packageName := fmt.Sprintf("com.example.batch%d", i.Rand.Intn(1_000_000))
	const numBatches, perBatch = 5, 20

	for b := 0; b < numBatches; b++ {
		events := make([]domain.EventRequest, 0, perBatch+1)
		for j := 0; j < perBatch; j++ {
			events = append(events, crashEvent(packageName, b*perBatch+j))
		}
		// missing payload, skipped by the server
		events = append(events, domain.EventRequest{
			Type:        int(domain.KindAnr),
			PackageName: packageName,
			ProcessName: packageName,
		})
		i.Require().NoError(i.client.SendReports(ctx, events))
	}

	var reports []domain.Report
	i.Require().Eventually(func() bool {
		var err error
		reports, err = i.client.Reports(ctx, packageName, 500)
		return err == nil && len(reports) == numBatches*perBatch
	}, time.Minute, time.Second)

	for _, r := range reports {
		i.Equal(packageName, r.PackageName)
		i.Equal("crash", r.Type)
		i.Equal(packageName, r.Title)
		i.False(r.ServerTime.IsZero())
		i.Contains(r.Clipboard, r.Text)
	}
}
