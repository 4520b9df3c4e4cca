package query

import (
	"fmt"
	"strings"

	"triphub/internal/domain"
)

// Page clamps page and limit.
func (b Builder) Page(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = b.defaultLimit()
	}
	if ceil := b.maxLimit(); limit > ceil {
		limit = ceil
	}
	return page, limit
}

// Normalize returns the canonical form of f used both for cache keys and for
// planning: paging clamped, sort resolved, date preset resolved to explicit
// bounds and filter values trimmed, lowercased and de-duplicated.
func (b Builder) Normalize(f domain.FilterSpec) (domain.FilterSpec, error) {
	out := domain.FilterSpec{
		Origins:        cleanValues(f.Origins),
		Destinations:   cleanValues(f.Destinations),
		TransportTypes: cleanValues(f.TransportTypes),
		Operators:      cleanValues(f.Operators),
		Providers:      cleanValues(f.Providers),
	}
	for _, p := range out.Providers {
		if _, err := FieldMapFor(p); err != nil {
			return domain.FilterSpec{}, err
		}
	}

	if b.Strict {
		if err := b.checkSort(f.Sort); err != nil {
			return domain.FilterSpec{}, err
		}
	}
	out.Sort = b.Sort(f.Sort)

	dr, err := ResolveDateRange(f.DateRange, b.now(), b.Location)
	if err != nil {
		return domain.FilterSpec{}, err
	}
	out.DateRange = dr

	out.Page, out.Limit = b.Page(f.Page, f.Limit)
	if w := b.maxResultWindow(); out.Page*out.Limit > w {
		return domain.FilterSpec{}, domain.ValidationError{
			Field: "page",
			Msg:   fmt.Sprintf("page*limit must not exceed %d", w),
		}
	}
	return out, nil
}

func cleanValues(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
