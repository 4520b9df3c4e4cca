package utils

import "time"

const (
	LayoutDate     = "2006-01-02"
	LayoutDateTime = "2006-01-02 15:04"
)

// FormatDateTime formats t as "YYYY-MM-DD HH:MM" in loc, "-" for nil.
func FormatDateTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(LayoutDateTime)
}
