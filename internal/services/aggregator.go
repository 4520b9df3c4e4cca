package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"triphub/internal/domain"
	"triphub/internal/domain/models"
	"triphub/internal/query"
)

// Source is one provider's trip store.
type Source interface {
	Provider() string
	FieldMap() query.FieldMap
	Search(ctx context.Context, plan query.Plan) (models.TripPage, error)
}

// ProviderResult is what one provider contributed to a search.
type ProviderResult struct {
	Provider string
	Rows     []models.Trip
	Total    int64
	Err      error
}

// MergedResult is the requested page across all providers.
type MergedResult struct {
	Rows      []models.Trip
	Total     int64
	Providers []ProviderResult
	// Degraded is set when at least one provider failed.
	Degraded bool
}

// Aggregator queries every source concurrently and merges their rows.
type Aggregator struct {
	Builder query.Builder
	Log     zerolog.Logger
}

// Fetch runs f against every source. f must already be normalized. A failing
// provider contributes no rows and no total; only when all of them fail is an
// UpstreamError returned.
func (a Aggregator) Fetch(ctx context.Context, sources []Source, f domain.FilterSpec) (MergedResult, error) {
	if len(sources) == 0 {
		return MergedResult{Rows: []models.Trip{}, Providers: []ProviderResult{}}, nil
	}

	results := fanOut(ctx, sources, 0, func(ctx context.Context, src Source) ProviderResult {
		return a.fetchOne(ctx, src, f)
	})

	out := MergedResult{Providers: make([]ProviderResult, 0, len(results))}
	var all []models.Trip
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, domain.UpstreamError{Provider: r.Provider, Err: r.Err})
			a.Log.Warn().Err(r.Err).Str("provider", r.Provider).Msg("provider query failed")
			out.Degraded = true
		} else {
			out.Total += r.Total
			all = append(all, r.Rows...)
		}
		out.Providers = append(out.Providers, ProviderResult{Provider: r.Provider, Total: r.Total, Err: r.Err})
	}
	if len(errs) == len(results) {
		return out, domain.UpstreamError{Err: errors.Join(append([]error{domain.ErrAllProvidersFailed}, errs...)...)}
	}

	sortTrips(all, f.Sort)
	out.Rows = window(all, f.Page, f.Limit)
	return out, nil
}

func (a Aggregator) fetchOne(ctx context.Context, src Source, f domain.FilterSpec) ProviderResult {
	res := ProviderResult{Provider: src.Provider()}
	plan, err := a.Builder.Plan(f, src.FieldMap())
	if err != nil {
		res.Err = fmt.Errorf("plan: %w", err)
		return res
	}
	page, err := src.Search(ctx, plan)
	if err != nil {
		res.Err = err
		return res
	}
	res.Total = page.Total
	res.Rows = make([]models.Trip, len(page.Rows))
	for i, t := range page.Rows {
		t.Provider = res.Provider
		res.Rows[i] = t
	}
	return res
}

// window returns rows[(page-1)*limit : page*limit], clipped to len(rows).
func window(rows []models.Trip, page, limit int) []models.Trip {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return []models.Trip{}
	}
	start := (page - 1) * limit
	if start >= len(rows) {
		return []models.Trip{}
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	out := make([]models.Trip, end-start)
	copy(out, rows[start:end])
	return out
}
