package query

import (
	"strings"
	"time"

	"triphub/internal/domain"
)

const (
	DefaultLimit           = 20
	DefaultMaxLimit        = 100
	DefaultMaxResultWindow = 10000
)

// Predicate is a list of SQL conditions joined with AND plus their bind
// arguments in placeholder order.
type Predicate struct {
	Conditions []string
	Args       []any
}

// Where renders "WHERE a AND b", or "" when there is nothing to filter on.
func (p Predicate) Where() string {
	if len(p.Conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.Conditions, " AND ")
}

func (p *Predicate) add(cond string, args ...any) {
	p.Conditions = append(p.Conditions, cond)
	p.Args = append(p.Args, args...)
}

// Builder holds the paging limits and clock used to turn a FilterSpec into
// SQL. The zero value is usable and applies the package defaults.
type Builder struct {
	DefaultLimit    int
	MaxLimit        int
	MaxResultWindow int
	// Strict rejects unknown sort fields and directions instead of falling
	// back to the default sort.
	Strict   bool
	Location *time.Location
	Now      func() time.Time
}

func (b Builder) defaultLimit() int {
	if b.DefaultLimit > 0 {
		return b.DefaultLimit
	}
	return DefaultLimit
}

func (b Builder) maxLimit() int {
	if b.MaxLimit > 0 {
		return b.MaxLimit
	}
	return DefaultMaxLimit
}

func (b Builder) maxResultWindow() int {
	if b.MaxResultWindow > 0 {
		return b.MaxResultWindow
	}
	return DefaultMaxResultWindow
}

func (b Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Build translates the filter part of f into conditions over fm's columns.
// Values are matched case-insensitively; OR within a field, AND across fields.
func (b Builder) Build(f domain.FilterSpec, fm FieldMap) (Predicate, error) {
	p := Predicate{Conditions: []string{}, Args: []any{}}

	values := map[Field][]string{
		FieldOrigin:        f.Origins,
		FieldDestination:   f.Destinations,
		FieldTransportType: f.TransportTypes,
		FieldOperatorName:  f.Operators,
	}
	for _, field := range FilterFields {
		vals := cleanValues(values[field])
		if len(vals) == 0 {
			continue
		}
		col, err := fm.mustColumn(field)
		if err != nil {
			return Predicate{}, err
		}
		args := make([]any, len(vals))
		for i, v := range vals {
			args[i] = v
		}
		p.add("LOWER("+col+") IN ("+placeholders(len(vals))+")", args...)
	}

	dr, err := ResolveDateRange(f.DateRange, b.now(), b.Location)
	if err != nil {
		return Predicate{}, err
	}
	if !dr.IsZero() {
		col, err := fm.mustColumn(DateField)
		if err != nil {
			return Predicate{}, err
		}
		switch {
		case dr.Start != "" && dr.End != "":
			p.add(col+" BETWEEN ? AND ?", dr.Start, dr.End)
		case dr.Start != "":
			p.add(col+" >= ?", dr.Start)
		default:
			p.add(col+" <= ?", dr.End)
		}
	}
	return p, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
