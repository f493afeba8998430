package domain

import "fmt"

// EventRequest is the JSON wire form of an Event.
type EventRequest struct {
	Type                 int     `json:"type"`
	CustomType           string  `json:"custom_type,omitempty"`
	PackageName          string  `json:"package_name"`
	PackageVersion       int     `json:"package_version"`
	ProcessName          string  `json:"process_name"`
	BuildFingerprint     string  `json:"build_fingerprint"`
	InstallerPackageName *string `json:"installer_package_name,omitempty"`
	ExtraHeaderText      *string `json:"extra_header_text,omitempty"`

	Crash          *CrashRequest       `json:"crash,omitempty"`
	Anr            *AnrInfo            `json:"anr,omitempty"`
	Battery        *BatteryInfo        `json:"battery,omitempty"`
	RunningService *RunningServiceInfo `json:"running_service,omitempty"`
	Body           string              `json:"body,omitempty"`
}

type CrashRequest struct {
	StackTrace              string `json:"stack_trace"`
	ProcessUptimeMs         int64  `json:"process_uptime_ms"`
	ProcessStartupLatencyMs int64  `json:"process_startup_latency_ms"`
}

// DecodeEvent validates r and builds the matching Event variant.
func DecodeEvent(r EventRequest) (Event, error) {
	h := Header{
		PackageName:      r.PackageName,
		PackageVersion:   r.PackageVersion,
		ProcessName:      r.ProcessName,
		BuildFingerprint: r.BuildFingerprint,
	}

	var (
		e   Event
		err error
	)
	if r.CustomType != "" {
		e, err = NewCustom(h, Custom{Type: r.CustomType, Body: r.Body})
	} else {
		switch Kind(r.Type) {
		case KindCrash:
			if r.Crash == nil {
				return Event{}, fmt.Errorf("crash: %w", ErrMissingField)
			}
			e, err = NewCrash(h, Crash{
				StackTrace:              r.Crash.StackTrace,
				ProcessUptimeMs:         r.Crash.ProcessUptimeMs,
				ProcessStartupLatencyMs: r.Crash.ProcessStartupLatencyMs,
			})
		case KindAnr:
			if r.Anr == nil {
				return Event{}, fmt.Errorf("anr: %w", ErrMissingField)
			}
			e, err = NewAnr(h, *r.Anr)
		case KindBattery:
			if r.Battery == nil {
				return Event{}, fmt.Errorf("battery: %w", ErrMissingField)
			}
			e, err = NewBattery(h, *r.Battery)
		case KindRunningService:
			if r.RunningService == nil {
				return Event{}, fmt.Errorf("running service: %w", ErrMissingField)
			}
			e, err = NewRunningService(h, *r.RunningService)
		default:
			e, err = NewUnknown(h, r.Type)
		}
	}
	if err != nil {
		return Event{}, err
	}

	e.InstallerPackageName = r.InstallerPackageName
	e.ExtraHeaderText = r.ExtraHeaderText
	return e, nil
}
