package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// ParseDateTime parses "YYYY-MM-DD HH:MM:SS" in local timezone.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDateTime, strings.TrimSpace(s), time.Local)
}

// ParseDateFlexible accepts either a date or a datetime string.
func ParseDateFlexible(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := ParseDateTime(s); err == nil {
		return t, nil
	}
	return ParseDate(s)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

// NowStamp is the datetime string recorded on mutations.
func NowStamp() string {
	return FormatDateTime(time.Now())
}
