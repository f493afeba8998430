package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrUnknownKind  = errors.New("unknown report kind")
)

// Event is a single error report as received from a collaborator.
// Payload decides the variant.
type Event struct {
	PackageName      string
	PackageVersion   int
	ProcessName      string
	BuildFingerprint string

	InstallerPackageName *string
	ExtraHeaderText      *string

	Payload Payload
}

// Payload is implemented only by the variants in this package.
type Payload interface {
	Kind() Kind
	payload()
}

type Crash struct {
	StackTrace              string
	ProcessUptimeMs         int64
	ProcessStartupLatencyMs int64
}

type Anr struct {
	Info AnrInfo
}

type Battery struct {
	Info BatteryInfo
}

type RunningService struct {
	Info RunningServiceInfo
}

// Custom is an externally formatted report with its own type tag.
type Custom struct {
	Type string
	Body string
}

// Unknown keeps the code of a report type this service does not model.
type Unknown struct {
	Code int
}

func (Crash) Kind() Kind          { return KindCrash }
func (Anr) Kind() Kind            { return KindAnr }
func (Battery) Kind() Kind        { return KindBattery }
func (RunningService) Kind() Kind { return KindRunningService }
func (Custom) Kind() Kind         { return KindCustom }
func (u Unknown) Kind() Kind      { return Kind(u.Code) }

func (Crash) payload()          {}
func (Anr) payload()            {}
func (Battery) payload()        {}
func (RunningService) payload() {}
func (Custom) payload()         {}
func (Unknown) payload()        {}

// Header holds the fields shared by every variant.
type Header struct {
	PackageName      string
	PackageVersion   int
	ProcessName      string
	BuildFingerprint string
}

func (h Header) validate() error {
	if h.PackageName == "" {
		return fmt.Errorf("package name: %w", ErrMissingField)
	}
	if h.ProcessName == "" {
		return fmt.Errorf("process name: %w", ErrMissingField)
	}
	if h.BuildFingerprint == "" {
		return fmt.Errorf("build fingerprint: %w", ErrMissingField)
	}
	return nil
}

func newEvent(h Header, p Payload) (Event, error) {
	if err := h.validate(); err != nil {
		return Event{}, err
	}
	return Event{
		PackageName:      h.PackageName,
		PackageVersion:   h.PackageVersion,
		ProcessName:      h.ProcessName,
		BuildFingerprint: h.BuildFingerprint,
		Payload:          p,
	}, nil
}

func NewCrash(h Header, c Crash) (Event, error) {
	if c.StackTrace == "" {
		return Event{}, fmt.Errorf("stack trace: %w", ErrMissingField)
	}
	return newEvent(h, c)
}

func NewAnr(h Header, info AnrInfo) (Event, error) {
	return newEvent(h, Anr{Info: info})
}

func NewBattery(h Header, info BatteryInfo) (Event, error) {
	return newEvent(h, Battery{Info: info})
}

func NewRunningService(h Header, info RunningServiceInfo) (Event, error) {
	return newEvent(h, RunningService{Info: info})
}

func NewCustom(h Header, c Custom) (Event, error) {
	if c.Type == "" {
		return Event{}, fmt.Errorf("custom type: %w", ErrMissingField)
	}
	return newEvent(h, c)
}

func NewUnknown(h Header, code int) (Event, error) {
	switch Kind(code) {
	case KindCrash, KindAnr, KindBattery, KindRunningService:
		return Event{}, fmt.Errorf("code %d is modeled: %w", code, ErrUnknownKind)
	}
	return newEvent(h, Unknown{Code: code})
}

// Must panics on a construction error. Use it where a malformed event is a
// programming error.
func Must(e Event, err error) Event {
	if err != nil {
		panic(err)
	}
	return e
}

func (e Event) Kind() Kind {
	if e.Payload == nil {
		return KindNone
	}
	return e.Payload.Kind()
}

// WithInstaller returns a copy of e carrying the installer package name.
func (e Event) WithInstaller(name string) Event {
	e.InstallerPackageName = &name
	return e
}

// WithExtraHeader returns a copy of e carrying caller supplied header text.
func (e Event) WithExtraHeader(text string) Event {
	e.ExtraHeaderText = &text
	return e
}
