package report

import (
	"strconv"
	"strings"

	"github.com/leshachaplin/crashlog/internal/domain"
)

// Dumper renders a structured payload (ANR, battery, running service) as text.
type Dumper interface {
	Dump(p domain.Payload) string
}

// InfoDumper dumps payloads with their own Dump methods and no prefix.
type InfoDumper struct{}

func (InfoDumper) Dump(p domain.Payload) string {
	sb := &strings.Builder{}
	printer := domain.NewBuilderPrinter(sb)

	switch v := p.(type) {
	case domain.Anr:
		v.Info.Dump(printer, "")
	case domain.Battery:
		v.Info.Dump(printer, "")
	case domain.RunningService:
		v.Info.Dump(printer, "")
	}
	return sb.String()
}

// Composer builds the plain text body of an error report.
type Composer struct {
	Dumper Dumper
	Filter NativeCrashFilter
}

func NewComposer(dumper Dumper) *Composer {
	if dumper == nil {
		dumper = InfoDumper{}
	}
	return &Composer{Dumper: dumper}
}

// Compose renders e. Identical events always produce identical text.
func (c *Composer) Compose(e domain.Event) string {
	sb := &strings.Builder{}

	sb.WriteString("type: ")
	sb.WriteString(TypeTag(e))
	sb.WriteString("\nosVersion: ")
	sb.WriteString(e.BuildFingerprint)
	sb.WriteString("\npackage: ")
	sb.WriteString(e.PackageName)
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(e.PackageVersion))
	sb.WriteString("\nprocess: ")
	sb.WriteString(e.ProcessName)
	if crash, ok := e.Payload.(domain.Crash); ok {
		sb.WriteString("\nprocessUptime: ")
		sb.WriteString(strconv.FormatInt(crash.ProcessUptimeMs, 10))
		sb.WriteString(" + ")
		sb.WriteString(strconv.FormatInt(crash.ProcessStartupLatencyMs, 10))
		sb.WriteString(" ms")
	}
	if e.InstallerPackageName != nil && *e.InstallerPackageName != "" {
		sb.WriteString("\ninstaller: ")
		sb.WriteString(*e.InstallerPackageName)
	}
	if e.ExtraHeaderText != nil {
		sb.WriteByte('\n')
		sb.WriteString(*e.ExtraHeaderText)
	}
	sb.WriteString("\n\n")
	sb.WriteString(c.payload(e))

	return sb.String()
}

func (c *Composer) payload(e domain.Event) string {
	switch p := e.Payload.(type) {
	case domain.Crash:
		return c.Filter.Filter(p.StackTrace)
	case domain.Custom:
		return p.Body
	case domain.Anr, domain.Battery, domain.RunningService:
		return c.dumper().Dump(p)
	default:
		return ""
	}
}

func (c *Composer) dumper() Dumper {
	if c.Dumper == nil {
		return InfoDumper{}
	}
	return c.Dumper
}

// TypeTag is the value of the report's "type:" line.
func TypeTag(e domain.Event) string {
	if custom, ok := e.Payload.(domain.Custom); ok {
		return custom.Type
	}
	return e.Kind().String()
}
