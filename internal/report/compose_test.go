package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leshachaplin/crashlog/internal/domain"
)

const fingerprint = "google/oriole/oriole:14/AP2A.240805.005/12025142:user/release-keys"

var header = domain.Header{
	PackageName:      "com.example.app",
	PackageVersion:   42,
	ProcessName:      "com.example.app:remote",
	BuildFingerprint: fingerprint,
}

type stubDumper struct{}

func (stubDumper) Dump(p domain.Payload) string {
	return "dumped " + p.Kind().String() + "\n"
}

func TestComposer_Compose(t *testing.T) {
	managedStack := "java.lang.IllegalStateException: boom\n\tat com.example.app.Main.onCreate(Main.java:10)\n"

	cases := map[string]struct {
		event    domain.Event
		dumper   Dumper
		expected string
	}{
		"crash": {
			event: domain.Must(domain.NewCrash(header, domain.Crash{
				StackTrace:              managedStack,
				ProcessUptimeMs:         1000,
				ProcessStartupLatencyMs: 50,
			})),
			expected: "type: crash\n" +
				"osVersion: " + fingerprint + "\n" +
				"package: com.example.app:42\n" +
				"process: com.example.app:remote\n" +
				"processUptime: 1000 + 50 ms\n" +
				"\n" + managedStack,
		},
		"crash with installer and extra header": {
			event: domain.Must(domain.NewCrash(header, domain.Crash{
				StackTrace: managedStack,
			})).WithInstaller("com.android.vending").WithExtraHeader("sourcePackage: com.example.app"),
			expected: "type: crash\n" +
				"osVersion: " + fingerprint + "\n" +
				"package: com.example.app:42\n" +
				"process: com.example.app:remote\n" +
				"processUptime: 0 + 0 ms\n" +
				"installer: com.android.vending\n" +
				"sourcePackage: com.example.app\n" +
				"\n" + managedStack,
		},
		"native crash is filtered": {
			event: domain.Must(domain.NewCrash(header, domain.Crash{
				StackTrace:              "Build fingerprint: 'x'\nProcess uptime: 5s\nsignal 11 (SIGSEGV)\nr0 0000\nbacktrace:\n  #00 pc 1234\n",
				ProcessUptimeMs:         5000,
				ProcessStartupLatencyMs: 7,
			})),
			expected: "type: crash\n" +
				"osVersion: " + fingerprint + "\n" +
				"package: com.example.app:42\n" +
				"process: com.example.app:remote\n" +
				"processUptime: 5000 + 7 ms\n" +
				"\n" +
				"signal 11 (SIGSEGV)\n\nbacktrace:\n  #00 pc 1234\n\n",
		},
		"anr": {
			event: domain.Must(domain.NewAnr(header, domain.AnrInfo{
				Activity: "com.example.app/.MainActivity",
				Cause:    "Input dispatching timed out",
				Info:     "CPU usage",
			})),
			expected: "type: ANR\n" +
				"osVersion: " + fingerprint + "\n" +
				"package: com.example.app:42\n" +
				"process: com.example.app:remote\n" +
				"\n" +
				"activity: com.example.app/.MainActivity\n" +
				"cause: Input dispatching timed out\n" +
				"info: CPU usage\n",
		},
		"battery": {
			event: domain.Must(domain.NewBattery(header, domain.BatteryInfo{
				UsagePercent:   12,
				DurationMicros: 3600000000,
				UsageDetails:   "wakelocks",
				CheckinDetails: "none",
			})),
			expected: "type: battery\n" +
				"osVersion: " + fingerprint + "\n" +
				"package: com.example.app:42\n" +
				"process: com.example.app:remote\n" +
				"\n" +
				"usagePercent: 12\n" +
				"duration: 3600000000 us\n" +
				"usageDetails: wakelocks\n" +
				"checkinDetails: none\n",
		},
		"running service with custom dumper": {
			event: domain.Must(domain.NewRunningService(header, domain.RunningServiceInfo{
				DurationMillis: 10,
			})),
			dumper: stubDumper{},
			expected: "type: running_service\n" +
				"osVersion: " + fingerprint + "\n" +
				"package: com.example.app:42\n" +
				"process: com.example.app:remote\n" +
				"\n" +
				"dumped running_service\n",
		},
		"custom": {
			event: domain.Must(domain.NewCustom(header, domain.Custom{
				Type: "hardening",
				Body: "memory tagging violation",
			})),
			expected: "type: hardening\n" +
				"osVersion: " + fingerprint + "\n" +
				"package: com.example.app:42\n" +
				"process: com.example.app:remote\n" +
				"\n" +
				"memory tagging violation",
		},
		"unknown": {
			event: domain.Must(domain.NewUnknown(header, 4)),
			expected: "type: unknown (4)\n" +
				"osVersion: " + fingerprint + "\n" +
				"package: com.example.app:42\n" +
				"process: com.example.app:remote\n" +
				"\n",
		},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			c := NewComposer(tc.dumper)
			require.Equal(t, tc.expected, c.Compose(tc.event))
		})
	}
}

func TestComposer_HeaderLines(t *testing.T) {
	events := []domain.Event{
		domain.Must(domain.NewCrash(header, domain.Crash{StackTrace: "osVersion: fake"})),
		domain.Must(domain.NewAnr(header, domain.AnrInfo{})),
		domain.Must(domain.NewBattery(header, domain.BatteryInfo{})),
		domain.Must(domain.NewRunningService(header, domain.RunningServiceInfo{})),
		domain.Must(domain.NewCustom(header, domain.Custom{Type: "crash", Body: "text"})),
		domain.Must(domain.NewUnknown(header, 99)),
	}

	c := NewComposer(nil)
	for _, e := range events {
		out := c.Compose(e)
		require.True(t, strings.HasPrefix(out, "type: "), out)
		require.Equal(t, 1, strings.Count(out, "osVersion: "+fingerprint+"\n"), out)
		require.Equal(t, out, c.Compose(e))
	}
}

func TestComposer_ProcessUptimeLine(t *testing.T) {
	e := domain.Must(domain.NewCrash(header, domain.Crash{
		StackTrace:              "trace",
		ProcessUptimeMs:         1000,
		ProcessStartupLatencyMs: 50,
	}))

	out := NewComposer(nil).Compose(e)
	require.Contains(t, out, "process: com.example.app:remote\nprocessUptime: 1000 + 50 ms\n")
}

func TestTypeTag(t *testing.T) {
	require.Equal(t, "crash", TypeTag(domain.Event{Payload: domain.Crash{}}))
	require.Equal(t, "ANR", TypeTag(domain.Event{Payload: domain.Anr{}}))
	require.Equal(t, "my_type", TypeTag(domain.Event{Payload: domain.Custom{Type: "my_type"}}))
	require.Equal(t, "unknown (0)", TypeTag(domain.Event{}))
	require.Equal(t, "unknown (7)", TypeTag(domain.Event{Payload: domain.Unknown{Code: 7}}))
}

func TestComposer_EmptyInstallerIsOmitted(t *testing.T) {
	e := domain.Must(domain.NewCrash(header, domain.Crash{StackTrace: "trace"})).WithInstaller("")

	out := NewComposer(nil).Compose(e)
	require.NotContains(t, out, "installer:")
	require.Contains(t, out, "processUptime: 0 + 0 ms\n\ntrace")
}
