package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var testHeader = Header{
	PackageName:      "com.example.app",
	PackageVersion:   3,
	ProcessName:      "com.example.app",
	BuildFingerprint: "fp",
}

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		KindCrash:          "crash",
		KindAnr:            "ANR",
		KindBattery:        "battery",
		KindRunningService: "running_service",
		KindNone:           "unknown (0)",
		Kind(4):            "unknown (4)",
		Kind(-7):           "unknown (-7)",
	}
	for k, expected := range cases {
		require.Equal(t, expected, k.String())
	}
}

func TestNewEvent_Validation(t *testing.T) {
	cases := map[string]struct {
		build func() (Event, error)
	}{
		"missing package": {
			build: func() (Event, error) {
				h := testHeader
				h.PackageName = ""
				return NewAnr(h, AnrInfo{})
			},
		},
		"missing process": {
			build: func() (Event, error) {
				h := testHeader
				h.ProcessName = ""
				return NewBattery(h, BatteryInfo{})
			},
		},
		"missing fingerprint": {
			build: func() (Event, error) {
				h := testHeader
				h.BuildFingerprint = ""
				return NewRunningService(h, RunningServiceInfo{})
			},
		},
		"missing stack trace": {
			build: func() (Event, error) {
				return NewCrash(testHeader, Crash{})
			},
		},
		"missing custom type": {
			build: func() (Event, error) {
				return NewCustom(testHeader, Custom{Body: "x"})
			},
		},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			_, err := tc.build()
			require.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestNewUnknown_RejectsModeledKinds(t *testing.T) {
	_, err := NewUnknown(testHeader, int(KindCrash))
	require.ErrorIs(t, err, ErrUnknownKind)

	e, err := NewUnknown(testHeader, 4)
	require.NoError(t, err)
	require.Equal(t, Kind(4), e.Kind())
}

func TestMust_Panics(t *testing.T) {
	require.Panics(t, func() {
		Must(NewCrash(testHeader, Crash{}))
	})
}

func TestEvent_WithOptionalFields(t *testing.T) {
	e := Must(NewAnr(testHeader, AnrInfo{}))
	withInstaller := e.WithInstaller("com.android.vending")

	require.Nil(t, e.InstallerPackageName)
	require.Equal(t, "com.android.vending", *withInstaller.InstallerPackageName)
	require.Equal(t, "extra", *e.WithExtraHeader("extra").ExtraHeaderText)
}

func TestInfo_Dump(t *testing.T) {
	sb := &strings.Builder{}
	p := NewBuilderPrinter(sb)

	AnrInfo{Activity: "a", Cause: "c", Info: "i"}.Dump(p, "  ")
	RunningServiceInfo{DurationMillis: 5, ServiceDetails: "s"}.Dump(p, "")

	require.Equal(t, "  activity: a\n  cause: c\n  info: i\ndurationMillis: 5\nserviceDetails: s\n", sb.String())
}
