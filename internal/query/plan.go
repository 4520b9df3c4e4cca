package query

import (
	"fmt"

	"triphub/internal/domain"
)

// Plan is one provider's share of a search: the rows that could land in the
// requested page once every provider's rows are merged.
type Plan struct {
	Provider  string
	Table     string
	Columns   string
	Predicate Predicate
	OrderBy   string
	Limit     int
	Offset    int
}

// Plan builds the per-provider query for f. Each provider returns its first
// page*limit rows; the caller merges and windows them.
func (b Builder) Plan(f domain.FilterSpec, fm FieldMap) (Plan, error) {
	page, limit := b.Page(f.Page, f.Limit)

	pred, err := b.Build(f, fm)
	if err != nil {
		return Plan{}, err
	}
	orderBy, err := b.OrderBy(f.Sort, fm)
	if err != nil {
		return Plan{}, err
	}
	cols, err := fm.SelectList()
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Provider:  fm.Provider,
		Table:     fm.Table,
		Columns:   cols,
		Predicate: pred,
		OrderBy:   orderBy,
		Limit:     page * limit,
		Offset:    0,
	}, nil
}

// SelectSQL returns the page query and its arguments.
func (p Plan) SelectSQL() (string, []any) {
	q := fmt.Sprintf("SELECT %s FROM %s", p.Columns, p.Table)
	if w := p.Predicate.Where(); w != "" {
		q += " " + w
	}
	if p.OrderBy != "" {
		q += " " + p.OrderBy
	}
	q += " LIMIT ? OFFSET ?"

	args := make([]any, 0, len(p.Predicate.Args)+2)
	args = append(args, p.Predicate.Args...)
	args = append(args, p.Limit, p.Offset)
	return q, args
}

// CountSQL returns the total-matches query and its arguments.
func (p Plan) CountSQL() (string, []any) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", p.Table)
	if w := p.Predicate.Where(); w != "" {
		q += " " + w
	}
	args := append([]any{}, p.Predicate.Args...)
	return q, args
}

// DistinctSQL lists the non-empty distinct values of field in fm's table.
func DistinctSQL(fm FieldMap, field Field) (string, error) {
	col, err := fm.mustColumn(field)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL AND %s <> '' ORDER BY %s ASC",
		col, fm.Table, col, col, col), nil
}
