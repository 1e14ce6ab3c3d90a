// Package dateutils provides the date operations used throughout the
// application. Brazilian bank files use DD/MM/YYYY almost everywhere, so
// that layout is the canonical display format.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutBR   = "02/01/2006"
	DateLayoutISO  = "2006-01-02"
	DateLayoutOFX  = "20060102"
	DateLayoutFull = "2006-01-02 15:04:05"
)

// CommonFormats is a list of standard formats to try when parsing dates
var CommonFormats = []string{
	DateLayoutBR,
	DateLayoutISO,
	DateLayoutOFX,
	DateLayoutFull,
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
}

// ParseDate attempts to parse a date string using multiple common formats.
// Returns the parsed time and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = strings.TrimSpace(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseBR parses a date string, trying DD/MM/YYYY first and falling back to
// the other common formats.
func ParseBR(dateStr string) (time.Time, error) {
	t, _, err := ParseDate(dateStr)
	return t, err
}

// FormatBR formats a time as DD/MM/YYYY, the layout the accounting import
// expects. Zero times format as the empty string.
func FormatBR(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutBR)
}

// ParseOFXDate parses the OFX DTPOSTED value. OFX timestamps carry a time
// of day and often a timezone suffix like "[-3:BRT]"; both are discarded
// since the engine works at day precision.
func ParseOFXDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '['); i >= 0 {
		raw = raw[:i]
	}
	if len(raw) > len(DateLayoutOFX) {
		raw = raw[:len(DateLayoutOFX)]
	}
	t, err := time.Parse(DateLayoutOFX, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse OFX date %q: %w", raw, err)
	}
	return t, nil
}

// Day truncates a time to day precision. Settlement totals are grouped by
// this value so that statement lines with a time of day still land on the
// calendar day the Francesinha reports.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
