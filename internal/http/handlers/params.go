package handlers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"triphub/internal/domain"
	"triphub/internal/utils"
)

// Query parameters accepted by the trip endpoints.
const (
	paramOrigin        = "origin"
	paramDestination   = "destination"
	paramTransportType = "transport_type"
	paramOperator      = "operator_name"
	paramProvider      = "provider"
	paramStartDate     = "start_date"
	paramEndDate       = "end_date"
	paramDatePreset    = "date_preset"
	paramSortBy        = "sort_by"
	paramSortOrder     = "sort_order"
	paramPage          = "page"
	paramLimit         = "limit"
)

var knownParams = map[string]bool{
	paramOrigin: true, paramDestination: true, paramTransportType: true, paramOperator: true,
	paramProvider: true, paramStartDate: true, paramEndDate: true, paramDatePreset: true,
	paramSortBy: true, paramSortOrder: true, paramPage: true, paramLimit: true,
}

// parseFilterSpec reads the trip query parameters. Multi-value filters can be
// repeated or comma separated.
func parseFilterSpec(c *gin.Context, strict bool) (domain.FilterSpec, error) {
	q := c.Request.URL.Query()
	if strict {
		var unknown []string
		for k := range q {
			if !knownParams[k] {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return domain.FilterSpec{}, domain.ValidationError{
				Field: unknown[0],
				Msg:   fmt.Sprintf("unknown query parameter(s): %s", strings.Join(unknown, ", ")),
			}
		}
	}

	f := domain.FilterSpec{
		Origins:        utils.SplitList(q[paramOrigin]...),
		Destinations:   utils.SplitList(q[paramDestination]...),
		TransportTypes: utils.SplitList(q[paramTransportType]...),
		Operators:      utils.SplitList(q[paramOperator]...),
		Providers:      utils.SplitList(q[paramProvider]...),
		DateRange: domain.DateRange{
			Start:  strings.TrimSpace(q.Get(paramStartDate)),
			End:    strings.TrimSpace(q.Get(paramEndDate)),
			Preset: strings.TrimSpace(q.Get(paramDatePreset)),
		},
		Sort: domain.Sort{
			Field:     strings.TrimSpace(q.Get(paramSortBy)),
			Direction: strings.TrimSpace(q.Get(paramSortOrder)),
		},
	}

	var err error
	if f.Page, err = intParam(q.Get(paramPage), paramPage); err != nil {
		return domain.FilterSpec{}, err
	}
	if f.Limit, err = intParam(q.Get(paramLimit), paramLimit); err != nil {
		return domain.FilterSpec{}, err
	}
	return f, nil
}

func intParam(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationError{Field: name, Msg: "must be an integer", Err: err}
	}
	return n, nil
}
