package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leshachaplin/crashlog/internal/domain"
)

// MinInstallTimeMs is April 2009. Some system packages report an install
// time in January 2009; anything at or below this value is not shown.
const MinInstallTimeMs int64 = 1_240_000_000_000

// DateFormatter renders Unix millisecond timestamps.
type DateFormatter interface {
	FormatDate(ms int64) string
	FormatTime(ms int64) string
}

// Wrapper keeps a string's directionality when embedded in other text.
type Wrapper interface {
	Wrap(s string) string
}

// Labels are format strings with a single %s verb.
type Labels struct {
	Version     string `mapstructure:"version"`
	InstallTime string `mapstructure:"install_time"`
	UpdateTime  string `mapstructure:"update_time"`
}

// Validate checks that every label has exactly one %s verb. Literal percent
// signs must be written as %%.
func (l Labels) Validate() error {
	for name, label := range map[string]string{
		"version":      l.Version,
		"install_time": l.InstallTime,
		"update_time":  l.UpdateTime,
	} {
		verbs := strings.ReplaceAll(label, "%%", "")
		if strings.Count(verbs, "%") != 1 || strings.Count(verbs, "%s") != 1 {
			return fmt.Errorf("label %s %q must contain exactly one %%s", name, label)
		}
	}
	return nil
}

func DefaultLabels() Labels {
	return Labels{
		Version:     "Version %s",
		InstallTime: "Installed on: %s",
		UpdateTime:  "Last updated: %s",
	}
}

// Footer renders the app info footer text.
type Footer struct {
	Dates   DateFormatter
	Wrapper Wrapper
	Labels  Labels
}

func NewFooter(dates DateFormatter, wrapper Wrapper, labels Labels) *Footer {
	return &Footer{
		Dates:   dates,
		Wrapper: wrapper,
		Labels:  labels,
	}
}

type timeBlock int

const (
	blankLinePending timeBlock = iota
	blankLineAdded
)

func (f *Footer) Render(meta domain.AppMetadata) string {
	lines := make([]string, 0, 12)

	if meta.VersionName != nil {
		lines = append(lines, fmt.Sprintf(f.Labels.Version, f.wrap(*meta.VersionName)), "")
	}
	lines = append(lines,
		meta.PackageName,
		"versionCode "+strconv.FormatInt(meta.VersionCode, 10),
		"",
	)
	// Each level is printed when known. Metadata sources report both or neither.
	if meta.TargetSdk != nil {
		lines = append(lines, "targetSdk "+strconv.Itoa(*meta.TargetSdk))
	}
	if meta.MinSdk != nil {
		lines = append(lines, "minSdk "+strconv.Itoa(*meta.MinSdk))
	}

	state := blankLinePending
	if meta.FirstInstallTimeMs > MinInstallTimeMs {
		lines, state = state.blankLine(lines)
		lines = append(lines, fmt.Sprintf(f.Labels.InstallTime, f.formatDate(meta.FirstInstallTimeMs)))
	}
	if meta.LastUpdateTimeMs != meta.FirstInstallTimeMs {
		lines, state = state.blankLine(lines)
		lines = append(lines, fmt.Sprintf(f.Labels.UpdateTime, f.formatDate(meta.LastUpdateTimeMs)))
	}

	return strings.Join(lines, "\n")
}

func (s timeBlock) blankLine(lines []string) ([]string, timeBlock) {
	if s == blankLineAdded {
		return lines, s
	}
	return append(lines, ""), blankLineAdded
}

func (f *Footer) wrap(s string) string {
	if f.Wrapper == nil {
		return s
	}
	return f.Wrapper.Wrap(s)
}

func (f *Footer) formatDate(ms int64) string {
	return f.Dates.FormatDate(ms) + "; " + f.Dates.FormatTime(ms)
}
