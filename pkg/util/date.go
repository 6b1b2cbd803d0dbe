package util

import (
    "regexp"
    "strings"
    "time"
)

const isoDateLayout = "2006-01-02"

var usDateRe = regexp.MustCompile(`^[0-9]{1,2}/[0-9]{1,2}/[0-9]{4}$`)

// ParseISODate parses a YYYY-MM-DD date. Returns (t, true) if it parsed.
func ParseISODate(s string) (time.Time, bool) {
    trimmed := strings.TrimSpace(s)
    if trimmed == "" {
        return time.Time{}, false
    }
    t, err := time.Parse(isoDateLayout, trimmed)
    if err != nil {
        return time.Time{}, false
    }
    return t, true
}

// FormatISODate renders a time as YYYY-MM-DD.
func FormatISODate(t time.Time) string {
    return t.Format(isoDateLayout)
}

// NormalizeDateInput converts MM/DD/YYYY input to YYYY-MM-DD.
// Anything else is returned trimmed but otherwise verbatim.
func NormalizeDateInput(s string) string {
    trimmed := strings.TrimSpace(s)
    if usDateRe.MatchString(trimmed) {
        if t, err := time.Parse("1/2/2006", trimmed); err == nil {
            return FormatISODate(t)
        }
    }
    return trimmed
}
