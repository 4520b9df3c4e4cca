package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"triphub/internal/cache"
	"triphub/internal/domain"
	"triphub/internal/domain/models"
	"triphub/internal/query"
	"triphub/internal/utils"
)

const filtersEndpoint = "filters"

// DistinctSource lists the values a provider has for a filter field.
type DistinctSource interface {
	Provider() string
	Distinct(ctx context.Context, field query.Field) ([]string, error)
}

// FilterService builds the filter dropdown options across providers.
type FilterService struct {
	Cache   *cache.Store
	Sources []DistinctSource
	Log     zerolog.Logger
}

type providerOptions struct {
	provider string
	values   map[query.Field][]string
	err      error
}

// Options returns the merged distinct values. Like trip searches, a result
// missing a provider is not cached.
func (s FilterService) Options(ctx context.Context, requestID string) (models.FilterOptions, bool, error) {
	key := cache.BuildKey(filtersEndpoint, domain.FilterSpec{})
	if s.Cache != nil {
		if v, ok := s.Cache.Get(key); ok {
			if opts, ok := v.(models.FilterOptions); ok {
				return opts, true, nil
			}
		}
	}

	results := fanOut(ctx, s.Sources, 0, func(ctx context.Context, src DistinctSource) providerOptions {
		out := providerOptions{provider: src.Provider(), values: map[query.Field][]string{}}
		for _, f := range query.FilterFields {
			vals, err := src.Distinct(ctx, f)
			if err != nil {
				out.err = fmt.Errorf("%s: %w", f, err)
				return out
			}
			out.values[f] = vals
		}
		return out
	})

	merged := map[query.Field][]string{}
	var errs []error
	for _, r := range results {
		if r.err != nil {
			s.Log.Warn().Err(r.err).Str("provider", r.provider).Msg("filter options query failed")
			errs = append(errs, domain.UpstreamError{Provider: r.provider, Err: r.err})
			continue
		}
		for f, vals := range r.values {
			merged[f] = append(merged[f], vals...)
		}
	}
	if len(results) > 0 && len(errs) == len(results) {
		return models.FilterOptions{}, false, domain.UpstreamError{Err: errors.Join(append([]error{domain.ErrAllProvidersFailed}, errs...)...)}
	}

	opts := models.FilterOptions{
		Origins:        uniqueFold(merged[query.FieldOrigin]),
		Destinations:   uniqueFold(merged[query.FieldDestination]),
		TransportTypes: uniqueFold(merged[query.FieldTransportType]),
		Operators:      uniqueFold(merged[query.FieldOperatorName]),
	}
	if len(errs) > 0 {
		utils.LogEvent(s.Log, requestID, "filters", "options", "partial result, not cached")
		return opts, false, nil
	}
	if s.Cache != nil {
		if err := s.Cache.Set(key, opts); err != nil {
			s.Log.Warn().Err(err).Msg("cache set failed")
		}
	}
	return opts, false, nil
}

// uniqueFold de-duplicates case-insensitively, keeping the first spelling,
// and sorts the result.
func uniqueFold(in []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, v := range in {
		v = utils.NormalizeSpace(v)
		k := strings.ToLower(v)
		if v == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}
