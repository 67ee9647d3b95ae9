package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Regions whose calendars start the week on Sunday or Saturday. Everything
// else starts on Monday.
var (
	sundayRegions = regionSet(
		"AG", "AS", "BD", "BR", "BS", "BT", "BW", "BZ", "CA", "CN", "CO", "DM",
		"DO", "ET", "GT", "GU", "HK", "HN", "ID", "IL", "IN", "JM", "JP", "KE",
		"KH", "KR", "LA", "MH", "MM", "MO", "MT", "MX", "MZ", "NI", "NP", "PA",
		"PE", "PH", "PK", "PR", "PT", "PY", "SA", "SG", "SV", "TH", "TT", "TW",
		"UM", "US", "VE", "VI", "WS", "YE", "ZA", "ZW",
	)
	saturdayRegions = regionSet(
		"AE", "AF", "BH", "DJ", "DZ", "EG", "IQ", "IR", "JO", "KW", "LY", "OM",
		"QA", "SD", "SY",
	)
)

func regionSet(codes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

// ParseWeekday accepts ISO numbers (1=Monday … 7=Sunday) and English day
// names or their three-letter abbreviations.
func ParseWeekday(s string) (time.Weekday, bool) {
	return parseWeekStart(s)
}

func parseWeekStart(value string) (time.Weekday, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return time.Monday, false
	}
	if n, err := strconv.Atoi(value); err == nil {
		if n < 1 || n > 7 {
			return time.Monday, false
		}
		return time.Weekday(n % 7), true
	}
	if d, ok := weekdayNames[value]; ok {
		return d, true
	}
	return time.Monday, false
}

// localeFromEnv returns the first non-empty of LC_ALL, LC_TIME and LANG.
func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// WeekStartForLocale maps a POSIX locale string such as "en_US.UTF-8" to the
// first day of the week used in its region.
func WeekStartForLocale(locale string) time.Weekday {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")

	tag, err := language.Parse(locale)
	if err != nil {
		return time.Monday
	}
	region, conf := tag.Region()
	if conf != language.Exact {
		return time.Monday
	}

	code := region.String()
	if _, ok := sundayRegions[code]; ok {
		return time.Sunday
	}
	if _, ok := saturdayRegions[code]; ok {
		return time.Saturday
	}
	return time.Monday
}
