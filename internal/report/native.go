package report

import "strings"

const nativeCrashMarker = "\nProcess uptime: "

var nativeCrashPrefixes = []string{"signal ", "Abort message: "}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NativeCrashFilter reduces a native crash dump to its signal, abort message
// and backtrace lines.
//
// A signal or abort message line seen after "backtrace:" is written twice
// unless Dedup is set.
type NativeCrashFilter struct {
	Dedup bool
}

// FilterNativeCrash filters raw with the default NativeCrashFilter.
func FilterNativeCrash(raw string) string {
	return NativeCrashFilter{}.Filter(raw)
}

// IsNativeCrash reports whether raw carries a native crash section.
func IsNativeCrash(raw string) bool {
	return strings.Index(raw, nativeCrashMarker) > 0
}

// Filter returns raw unchanged for managed crashes.
func (f NativeCrashFilter) Filter(raw string) string {
	idx := strings.Index(raw, nativeCrashMarker)
	if idx <= 0 {
		return raw
	}

	sb := &strings.Builder{}
	backtraceStarted := false
	for _, line := range splitLines(raw[idx:]) {
		if backtraceStarted {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		if !(backtraceStarted && f.Dedup) {
			for _, prefix := range nativeCrashPrefixes {
				if strings.HasPrefix(line, prefix) {
					sb.WriteString(line)
					sb.WriteByte('\n')
				}
			}
		}
		if strings.HasPrefix(line, "backtrace:") {
			sb.WriteByte('\n')
			sb.WriteString(line)
			sb.WriteByte('\n')
			backtraceStarted = true
		}
	}
	return sb.String()
}

// splitLines splits on \n, \r\n and \r. A trailing terminator yields a final
// empty line.
func splitLines(s string) []string {
	return strings.Split(lineBreaks.Replace(s), "\n")
}
