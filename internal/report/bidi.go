package report

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"
)

const (
	lrm = "\u200e"
	rlm = "\u200f"
	lre = "\u202a"
	rle = "\u202b"
	pdf = "\u202c"
)

// BidiWrapper wraps text whose direction differs from the surrounding
// context in embedding marks, and adds a mark after it so that trailing
// neutral characters keep the context direction.
type BidiWrapper struct {
	RTLContext bool
}

func (w BidiWrapper) Wrap(s string) string {
	if s == "" {
		return s
	}

	isRTL := firstStrong(s) == directionRTL
	out := w.markBefore(s)
	if isRTL != w.RTLContext {
		if isRTL {
			out += rle + s + pdf
		} else {
			out += lre + s + pdf
		}
	} else {
		out += s
	}
	return out + w.markAfter(s, isRTL)
}

func (w BidiWrapper) markBefore(s string) string {
	entry := firstStrong(s)
	switch {
	case !w.RTLContext && entry == directionRTL:
		return lrm
	case w.RTLContext && entry == directionLTR:
		return rlm
	}
	return ""
}

func (w BidiWrapper) markAfter(s string, isRTL bool) string {
	exit := lastStrong(s)
	switch {
	case !w.RTLContext && (isRTL || exit == directionRTL):
		return lrm
	case w.RTLContext && (!isRTL || exit == directionLTR):
		return rlm
	}
	return ""
}

type direction int

const (
	directionNeutral direction = iota
	directionLTR
	directionRTL
)

func classify(r []byte) direction {
	p, _ := bidi.Lookup(r)
	switch p.Class() {
	case bidi.L:
		return directionLTR
	case bidi.R, bidi.AL:
		return directionRTL
	}
	return directionNeutral
}

func firstStrong(s string) direction {
	b := []byte(s)
	for len(b) > 0 {
		_, size := utf8.DecodeRune(b)
		if d := classify(b[:size]); d != directionNeutral {
			return d
		}
		b = b[size:]
	}
	return directionNeutral
}

func lastStrong(s string) direction {
	b := []byte(s)
	for len(b) > 0 {
		_, size := utf8.DecodeLastRune(b)
		if d := classify(b[len(b)-size:]); d != directionNeutral {
			return d
		}
		b = b[:len(b)-size]
	}
	return directionNeutral
}
