package domain

import (
	"strconv"
	"strings"
)

// Printer receives one line at a time.
type Printer interface {
	Println(line string)
}

// BuilderPrinter collects printed lines, each terminated by a newline.
type BuilderPrinter struct {
	sb *strings.Builder
}

func NewBuilderPrinter(sb *strings.Builder) BuilderPrinter {
	return BuilderPrinter{sb: sb}
}

func (p BuilderPrinter) Println(line string) {
	p.sb.WriteString(line)
	if !strings.HasSuffix(line, "\n") {
		p.sb.WriteByte('\n')
	}
}

type AnrInfo struct {
	Activity string `json:"activity"`
	Cause    string `json:"cause"`
	Info     string `json:"info"`
}

func (a AnrInfo) Dump(p Printer, prefix string) {
	p.Println(prefix + "activity: " + a.Activity)
	p.Println(prefix + "cause: " + a.Cause)
	p.Println(prefix + "info: " + a.Info)
}

type BatteryInfo struct {
	UsagePercent   int    `json:"usage_percent"`
	DurationMicros int64  `json:"duration_micros"`
	UsageDetails   string `json:"usage_details"`
	CheckinDetails string `json:"checkin_details"`
}

func (b BatteryInfo) Dump(p Printer, prefix string) {
	p.Println(prefix + "usagePercent: " + strconv.Itoa(b.UsagePercent))
	p.Println(prefix + "duration: " + strconv.FormatInt(b.DurationMicros, 10) + " us")
	p.Println(prefix + "usageDetails: " + b.UsageDetails)
	p.Println(prefix + "checkinDetails: " + b.CheckinDetails)
}

type RunningServiceInfo struct {
	DurationMillis int64  `json:"duration_millis"`
	ServiceDetails string `json:"service_details"`
}

func (r RunningServiceInfo) Dump(p Printer, prefix string) {
	p.Println(prefix + "durationMillis: " + strconv.FormatInt(r.DurationMillis, 10))
	p.Println(prefix + "serviceDetails: " + r.ServiceDetails)
}
