package report

import (
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured.
var DefaultLocale = language.AmericanEnglish

type dateLayout struct {
	date string
	time string
}

var (
	supportedLocales = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
		language.French,
		language.Russian,
		language.Japanese,
	}
	localeLayouts = []dateLayout{
		{date: "Jan 2, 2006", time: "3:04 PM"},
		{date: "2 Jan 2006", time: "15:04"},
		{date: "02.01.2006", time: "15:04"},
		{date: "02/01/2006", time: "15:04"},
		{date: "02.01.2006", time: "15:04"},
		{date: "2006/01/02", time: "15:04"},
	}
	localeMatcher = language.NewMatcher(supportedLocales)
)

// LocaleFormatter formats timestamps with a medium date layout and a short
// time layout picked for the closest supported locale.
type LocaleFormatter struct {
	layout   dateLayout
	location *time.Location
}

// NewLocaleFormatter falls back to American English for unsupported locales
// and to UTC when loc is nil.
func NewLocaleFormatter(tag language.Tag, loc *time.Location) LocaleFormatter {
	if loc == nil {
		loc = time.UTC
	}
	_, idx, _ := localeMatcher.Match(tag)
	return LocaleFormatter{
		layout:   localeLayouts[idx],
		location: loc,
	}
}

// ParseLocaleFormatter accepts a BCP 47 tag and an IANA zone name.
func ParseLocaleFormatter(locale, zone string) (LocaleFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return LocaleFormatter{}, err
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return LocaleFormatter{}, err
	}
	return NewLocaleFormatter(tag, loc), nil
}

func (f LocaleFormatter) FormatDate(ms int64) string {
	return time.UnixMilli(ms).In(f.location).Format(f.layout.date)
}

func (f LocaleFormatter) FormatTime(ms int64) string {
	return time.UnixMilli(ms).In(f.location).Format(f.layout.time)
}
