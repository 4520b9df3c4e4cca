package domain

// Provider tags for the upstream data sources.
const (
	Provider12Go     = "12go"
	ProviderBookaway = "bookaway"
)

// Providers lists every known provider in fan-out order.
var Providers = []string{Provider12Go, ProviderBookaway}

// DateRange is either an explicit Start/End (YYYY-MM-DD) or a named Preset.
// Explicit bounds win when both are given.
type DateRange struct {
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
	Preset string `json:"preset,omitempty"`
}

// IsZero reports whether no date constraint was requested.
func (d DateRange) IsZero() bool {
	return d.Start == "" && d.End == "" && d.Preset == ""
}

// Sort defines sorting preference.
type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // asc / desc
}

// FilterSpec is the parsed set of constraints for one request.
// Values are OR-ed within a field and AND-ed across fields.
type FilterSpec struct {
	Origins        []string  `json:"origins,omitempty"`
	Destinations   []string  `json:"destinations,omitempty"`
	TransportTypes []string  `json:"transportTypes,omitempty"`
	Operators      []string  `json:"operators,omitempty"`
	Providers      []string  `json:"providers,omitempty"`
	DateRange      DateRange `json:"dateRange"`
	Sort           Sort      `json:"sort"`
	Page           int       `json:"page"`
	Limit          int       `json:"limit"`
}

// Pagination is the metadata returned next to a page of trips.
type Pagination struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination derives page counts from a total.
func NewPagination(total int64, page, limit int) Pagination {
	p := Pagination{Total: total, Page: page, Limit: limit}
	if limit > 0 {
		p.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	p.HasNextPage = page < p.TotalPages
	p.HasPrevPage = page > 1
	return p
}
