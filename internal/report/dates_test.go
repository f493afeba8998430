package report

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLocaleFormatter(t *testing.T) {
	const ts = 1_600_000_000_000 // 2020-09-13 12:26:40 UTC

	cases := map[string]struct {
		tag          language.Tag
		expectedDate string
		expectedTime string
	}{
		"american english": {
			tag:          language.AmericanEnglish,
			expectedDate: "Sep 13, 2020",
			expectedTime: "12:26 PM",
		},
		"british english": {
			tag:          language.BritishEnglish,
			expectedDate: "13 Sep 2020",
			expectedTime: "12:26",
		},
		"german": {
			tag:          language.German,
			expectedDate: "13.09.2020",
			expectedTime: "12:26",
		},
		"japanese": {
			tag:          language.Japanese,
			expectedDate: "2020/09/13",
			expectedTime: "12:26",
		},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			f := NewLocaleFormatter(tc.tag, time.UTC)
			require.Equal(t, tc.expectedDate, f.FormatDate(ts))
			require.Equal(t, tc.expectedTime, f.FormatTime(ts))
		})
	}
}

func TestParseLocaleFormatter(t *testing.T) {
	f, err := ParseLocaleFormatter("de", "Europe/Berlin")
	require.NoError(t, err)
	require.Equal(t, "14:26", f.FormatTime(1_600_000_000_000))

	_, err = ParseLocaleFormatter("de", "Nowhere/City")
	require.Error(t, err)
}
