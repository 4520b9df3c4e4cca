package query

import (
	"fmt"
	"strings"
	"time"

	"triphub/internal/domain"
)

const dateLayout = "2006-01-02"

// Date presets.
const (
	PresetToday      = "today"
	PresetYesterday  = "yesterday"
	PresetLast7Days  = "last_7_days"
	PresetLast14Days = "last_14_days"
	PresetLast28Days = "last_28_days"
	PresetLast30Days = "last_30_days"
	PresetLast90Days = "last_90_days"
	PresetThisMonth  = "this_month"
	PresetThisYear   = "this_year"
	PresetCustom     = "custom"
)

var presetAliases = map[string]string{}

var lastNDays = map[string]int{
	PresetLast7Days:  7,
	PresetLast14Days: 14,
	PresetLast28Days: 28,
	PresetLast30Days: 30,
	PresetLast90Days: 90,
}

func init() {
	for _, p := range []string{
		PresetToday, PresetYesterday,
		PresetLast7Days, PresetLast14Days, PresetLast28Days, PresetLast30Days, PresetLast90Days,
		PresetThisMonth, PresetThisYear, PresetCustom,
	} {
		presetAliases[presetToken(p)] = p
	}
}

// presetToken folds "Last-7-Days", "last_7_days" and "last 7 days" together.
func presetToken(s string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// NormalizePreset maps a user-supplied preset to its canonical name.
func NormalizePreset(s string) (string, bool) {
	p, ok := presetAliases[presetToken(s)]
	return p, ok
}

// ResolveDateRange turns dr into explicit calendar bounds. A preset is
// evaluated against now in loc; explicit bounds win over a preset. The zero
// range resolves to the zero range.
func ResolveDateRange(dr domain.DateRange, now time.Time, loc *time.Location) (domain.DateRange, error) {
	start := strings.TrimSpace(dr.Start)
	end := strings.TrimSpace(dr.End)
	preset := strings.TrimSpace(dr.Preset)

	if preset != "" {
		p, ok := NormalizePreset(preset)
		if !ok {
			return domain.DateRange{}, domain.ValidationError{Field: "date_preset", Msg: fmt.Sprintf("unknown preset %q", dr.Preset)}
		}
		preset = p
	}
	if preset == PresetCustom && (start == "" || end == "") {
		return domain.DateRange{}, domain.ValidationError{Field: "date_preset", Msg: "custom range requires start_date and end_date"}
	}

	if start != "" || end != "" {
		return explicitRange(start, end)
	}
	if preset == "" {
		return domain.DateRange{}, nil
	}

	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	var from, to time.Time
	switch preset {
	case PresetToday:
		from, to = today, today
	case PresetYesterday:
		from = today.AddDate(0, 0, -1)
		to = from
	case PresetThisMonth:
		from = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		to = from.AddDate(0, 1, -1)
	case PresetThisYear:
		from = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		to = time.Date(y, time.December, 31, 0, 0, 0, 0, loc)
	default:
		n := lastNDays[preset]
		from, to = today.AddDate(0, 0, -(n-1)), today
	}
	return domain.DateRange{Start: from.Format(dateLayout), End: to.Format(dateLayout)}, nil
}

func explicitRange(start, end string) (domain.DateRange, error) {
	var s, e time.Time
	var err error
	if start != "" {
		if s, err = time.Parse(dateLayout, start); err != nil {
			return domain.DateRange{}, domain.ValidationError{Field: "start_date", Msg: "must be YYYY-MM-DD", Err: err}
		}
	}
	if end != "" {
		if e, err = time.Parse(dateLayout, end); err != nil {
			return domain.DateRange{}, domain.ValidationError{Field: "end_date", Msg: "must be YYYY-MM-DD", Err: err}
		}
	}
	if start != "" && end != "" && s.After(e) {
		return domain.DateRange{}, domain.ValidationError{Field: "start_date", Msg: "must not be after end_date"}
	}
	return domain.DateRange{Start: start, End: end}, nil
}
