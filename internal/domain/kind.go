package domain

import "strconv"

// Kind is the numeric report type code carried by error reports.
type Kind int

const (
	KindCustom         Kind = -1
	KindNone           Kind = 0
	KindCrash          Kind = 1
	KindAnr            Kind = 2
	KindBattery        Kind = 3
	KindRunningService Kind = 5
)

func (k Kind) String() string {
	switch k {
	case KindCrash:
		return "crash"
	case KindAnr:
		return "ANR"
	case KindBattery:
		return "battery"
	case KindRunningService:
		return "running_service"
	default:
		return "unknown (" + strconv.Itoa(int(k)) + ")"
	}
}
