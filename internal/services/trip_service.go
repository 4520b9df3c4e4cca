package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"triphub/internal/cache"
	"triphub/internal/domain"
	"triphub/internal/domain/models"
	"triphub/internal/query"
	"triphub/internal/utils"
)

// Provider statuses reported next to each search.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ProviderStatus summarizes one provider's part in a response.
type ProviderStatus struct {
	Provider string `json:"provider"`
	Total    int64  `json:"total"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// TripsResponse is the cached unit for trip searches.
type TripsResponse struct {
	Data       []models.Trip     `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
	Providers  []ProviderStatus  `json:"providers"`
}

// TripService serves trip searches through the response cache.
type TripService struct {
	Cache      *cache.Store
	Aggregator Aggregator
	Sources    []Source
	Builder    query.Builder
	Log        zerolog.Logger

	group *singleflight.Group
}

func NewTripService(store *cache.Store, sources []Source, b query.Builder, log zerolog.Logger) *TripService {
	return &TripService{
		Cache:      store,
		Aggregator: Aggregator{Builder: b, Log: log},
		Sources:    sources,
		Builder:    b,
		Log:        log,
		group:      &singleflight.Group{},
	}
}

// Search returns the page for f under endpoint, from cache when possible.
// cached reports whether the response came from the cache. Responses in which
// a provider failed are returned but not cached.
func (s *TripService) Search(ctx context.Context, requestID, endpoint string, f domain.FilterSpec) (resp TripsResponse, cached bool, err error) {
	norm, err := s.Builder.Normalize(f)
	if err != nil {
		return TripsResponse{}, false, err
	}
	key := cache.BuildKey(endpoint, norm)

	if s.Cache != nil {
		if v, ok := s.Cache.Get(key); ok {
			if r, ok := v.(TripsResponse); ok {
				return r, true, nil
			}
			s.Cache.Delete(key)
		}
	}

	do := func() (any, error) { return s.fetch(ctx, requestID, endpoint, key, norm) }
	var v any
	if s.group != nil {
		v, err, _ = s.group.Do(key, do)
	} else {
		v, err = do()
	}
	if err != nil {
		return TripsResponse{}, false, err
	}
	return v.(TripsResponse), false, nil
}

func (s *TripService) fetch(ctx context.Context, requestID, endpoint, key string, f domain.FilterSpec) (TripsResponse, error) {
	// The flight is shared by every waiting caller; repositories bound latency.
	ctx = context.WithoutCancel(ctx)

	res, err := s.Aggregator.Fetch(ctx, s.sourcesFor(f.Providers), f)
	if err != nil {
		return TripsResponse{}, err
	}

	resp := TripsResponse{
		Data:       res.Rows,
		Pagination: domain.NewPagination(res.Total, f.Page, f.Limit),
		Providers:  make([]ProviderStatus, 0, len(res.Providers)),
	}
	for _, p := range res.Providers {
		st := ProviderStatus{Provider: p.Provider, Total: p.Total, Status: StatusOK}
		if p.Err != nil {
			st.Status = StatusError
			st.Error = "provider unavailable"
		}
		resp.Providers = append(resp.Providers, st)
	}

	if res.Degraded {
		utils.LogEvent(s.Log, requestID, "trips", endpoint, "partial result, not cached")
		return resp, nil
	}
	if s.Cache != nil {
		if err := s.Cache.Set(key, resp); err != nil {
			if errors.Is(err, cache.ErrEntryTooLarge) {
				s.Log.Warn().Str("endpoint", endpoint).Int("rows", len(resp.Data)).Msg("response too large to cache")
			} else {
				s.Log.Warn().Err(err).Str("endpoint", endpoint).Msg("cache set failed")
			}
		}
	}
	return resp, nil
}

func (s *TripService) sourcesFor(providers []string) []Source {
	if len(providers) == 0 {
		return s.Sources
	}
	want := map[string]bool{}
	for _, p := range providers {
		want[strings.ToLower(p)] = true
	}
	out := make([]Source, 0, len(providers))
	for _, src := range s.Sources {
		if want[strings.ToLower(src.Provider())] {
			out = append(out, src)
		}
	}
	return out
}

// CacheStats returns the response cache snapshot.
func (s *TripService) CacheStats() cache.Stats {
	if s.Cache == nil {
		return cache.Stats{}
	}
	return s.Cache.Stats()
}

// FlushCache drops every cached response.
func (s *TripService) FlushCache(requestID string) {
	if s.Cache == nil {
		return
	}
	n := s.Cache.Len()
	s.Cache.Clear()
	utils.LogEvent(s.Log, requestID, "cache", "flush", fmt.Sprintf("dropped %d entries", n))
}
