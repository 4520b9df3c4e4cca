package query

import (
	"fmt"
	"strings"

	"triphub/internal/domain"
)

const (
	DefaultSortField     = FieldDepartureTime
	DefaultSortDirection = "asc"
)

// Sort resolves s against the whitelist. Anything unknown falls back to
// departure_time / asc.
func (b Builder) Sort(s domain.Sort) domain.Sort {
	field := Field(strings.ToLower(strings.TrimSpace(s.Field)))
	if !SortFields[field] {
		field = DefaultSortField
	}
	dir := strings.ToLower(strings.TrimSpace(s.Direction))
	if dir != "asc" && dir != "desc" {
		dir = DefaultSortDirection
	}
	return domain.Sort{Field: string(field), Direction: dir}
}

// checkSort is the strict-mode counterpart of Sort.
func (b Builder) checkSort(s domain.Sort) error {
	field := strings.ToLower(strings.TrimSpace(s.Field))
	if field != "" && !SortFields[Field(field)] {
		return domain.ValidationError{Field: "sort_by", Msg: fmt.Sprintf("cannot sort by %q", s.Field)}
	}
	dir := strings.ToLower(strings.TrimSpace(s.Direction))
	if dir != "" && dir != "asc" && dir != "desc" {
		return domain.ValidationError{Field: "sort_order", Msg: "must be asc or desc"}
	}
	return nil
}

// OrderBy renders the ORDER BY clause for fm. Missing values sort last in
// both directions and the provider id breaks ties. Every key compares the way
// the in-process merge does: text is lowercased and compared bytewise, an
// empty string counts as missing, a NULL price counts as 0.
func (b Builder) OrderBy(s domain.Sort, fm FieldMap) (string, error) {
	s = b.Sort(s)
	field := Field(s.Field)
	col, err := fm.mustColumn(field)
	if err != nil {
		return "", err
	}
	id, err := fm.mustColumn(FieldID)
	if err != nil {
		return "", err
	}
	dir := strings.ToUpper(s.Direction)

	var key string
	switch field {
	case FieldPrice:
		key = fmt.Sprintf("COALESCE(%s, 0) %s", col, dir)
	case FieldOrigin, FieldDestination, FieldOperatorName, FieldTransportType:
		key = fmt.Sprintf("COALESCE(%s, '') = '', CAST(LOWER(%s) AS BINARY) %s", col, col, dir)
	default:
		key = fmt.Sprintf("%s IS NULL, %s %s", col, col, dir)
	}
	return fmt.Sprintf("ORDER BY %s, CAST(%s AS BINARY) ASC", key, id), nil
}
