package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triphub/internal/domain"
	"triphub/internal/domain/models"
	"triphub/internal/query"
)

var base = time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

func trip(id string, hour int, price float64) models.Trip {
	dep := base.Add(time.Duration(hour) * time.Hour)
	return models.Trip{ID: id, Origin: "Bangkok", Destination: "Phuket", DepartureTime: &dep, Price: price, Currency: "THB"}
}

func normalized(t *testing.T, b query.Builder, f domain.FilterSpec) domain.FilterSpec {
	t.Helper()
	n, err := b.Normalize(f)
	require.NoError(t, err)
	return n
}

func TestAggregator_PartialFailure(t *testing.T) {
	a := &fakeSource{fm: query.TwelveGo, rows: []models.Trip{trip("1", 1, 10), trip("2", 2, 20), trip("3", 3, 30)}, total: 10}
	b := &fakeSource{fm: query.Bookaway, err: errors.New("db down")}

	agg := Aggregator{Log: zerolog.Nop()}
	res, err := agg.Fetch(context.Background(), []Source{a, b}, normalized(t, agg.Builder, domain.FilterSpec{Limit: 20}))
	require.NoError(t, err)

	assert.EqualValues(t, 10, res.Total)
	require.Len(t, res.Rows, 3)
	for _, r := range res.Rows {
		assert.Equal(t, "12go", r.Provider)
	}
	assert.True(t, res.Degraded)
	require.Len(t, res.Providers, 2)
	assert.NoError(t, res.Providers[0].Err)
	assert.Error(t, res.Providers[1].Err)
	assert.EqualValues(t, 0, res.Providers[1].Total)
}

func TestAggregator_AllFail(t *testing.T) {
	a := &fakeSource{fm: query.TwelveGo, err: errors.New("timeout")}
	b := &fakeSource{fm: query.Bookaway, err: errors.New("db down")}

	agg := Aggregator{Log: zerolog.Nop()}
	_, err := agg.Fetch(context.Background(), []Source{a, b}, normalized(t, agg.Builder, domain.FilterSpec{}))
	require.Error(t, err)
	assert.True(t, domain.IsUpstream(err))
	assert.ErrorIs(t, err, domain.ErrAllProvidersFailed)
	assert.EqualValues(t, 1, a.calls.Load())
	assert.EqualValues(t, 1, b.calls.Load())
}

func TestAggregator_MergesAndWindows(t *testing.T) {
	a := &fakeSource{fm: query.TwelveGo, rows: []models.Trip{trip("a1", 1, 0), trip("a2", 4, 0), trip("a3", 5, 0), trip("a4", 8, 0)}}
	b := &fakeSource{fm: query.Bookaway, rows: []models.Trip{trip("b1", 2, 0), trip("b2", 3, 0), trip("b3", 6, 0), trip("b4", 7, 0)}}

	agg := Aggregator{Log: zerolog.Nop()}
	f := normalized(t, agg.Builder, domain.FilterSpec{Page: 2, Limit: 3})
	res, err := agg.Fetch(context.Background(), []Source{a, b}, f)
	require.NoError(t, err)

	var ids []string
	for _, r := range res.Rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a2", "a3", "b3"}, ids)
	assert.EqualValues(t, 8, res.Total)
	assert.False(t, res.Degraded)

	// every provider is asked for the first page*limit rows
	require.Len(t, a.plans, 1)
	assert.Equal(t, 6, a.plans[0].Limit)
	assert.Equal(t, 0, a.plans[0].Offset)
	assert.Equal(t, "trips_bookaway", b.plans[0].Table)
}

func TestAggregator_PageBeyondRows(t *testing.T) {
	a := &fakeSource{fm: query.TwelveGo, rows: []models.Trip{trip("1", 1, 0)}}
	agg := Aggregator{Log: zerolog.Nop()}
	res, err := agg.Fetch(context.Background(), []Source{a}, normalized(t, agg.Builder, domain.FilterSpec{Page: 5, Limit: 10}))
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.NotNil(t, res.Rows)
	assert.EqualValues(t, 1, res.Total)
}

func TestSortTrips(t *testing.T) {
	noDep := models.Trip{ID: "x", Provider: "12go", Price: 5}
	inr := 100.0
	rows := []models.Trip{
		noDep,
		{ID: "10", Provider: "bookaway", DepartureTime: &base, Price: 50},
		{ID: "9", Provider: "bookaway", DepartureTime: &base, Price: 50, PriceINR: &inr},
		{ID: "2", Provider: "12go", DepartureTime: &base, Price: 70},
	}

	sortTrips(rows, domain.Sort{Field: "departure_time", Direction: "desc"})
	assert.Equal(t, []string{"2", "10", "9", "x"}, idsOf(rows), "ties broken by provider then bytewise id, nulls last")

	sortTrips(rows, domain.Sort{Field: "price", Direction: "asc"})
	assert.Equal(t, []string{"x", "10", "9", "2"}, idsOf(rows))

	sortTrips(rows, domain.Sort{Field: "price_inr", Direction: "desc"})
	assert.Equal(t, "9", rows[0].ID)
}

func operatorTrip(id, operator string) models.Trip {
	t := trip(id, 1, 10)
	t.OperatorName = operator
	return t
}

func TestAggregator_PagesAreDisjointAndComplete(t *testing.T) {
	cases := map[string]struct {
		sort domain.Sort
		a, b []models.Trip // each in the provider's ORDER BY order
	}{
		"departure ties on string ids": {
			sort: domain.Sort{Field: "departure_time", Direction: "asc"},
			a:    []models.Trip{trip("3", 0, 10), trip("1", 1, 10), trip("10", 1, 10), trip("2", 1, 10), trip("9", 1, 10)},
			b:    []models.Trip{trip("b-1", 1, 10), trip("b-10", 1, 10), trip("b-2", 1, 10), {ID: "z", Price: 1}},
		},
		"operator text with case and blanks": {
			sort: domain.Sort{Field: "operator_name", Direction: "asc"},
			a:    []models.Trip{operatorTrip("7", "alpha"), operatorTrip("10", "Beta"), operatorTrip("8", "beta"), operatorTrip("1", "")},
			b:    []models.Trip{operatorTrip("k", "Alpha"), operatorTrip("c", "BETA"), operatorTrip("a", "gamma")},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			a := &fakeSource{fm: query.TwelveGo, rows: tc.a}
			b := &fakeSource{fm: query.Bookaway, rows: tc.b}
			agg := Aggregator{Log: zerolog.Nop()}

			seen := map[string]int{}
			want := len(tc.a) + len(tc.b)
			for page := 1; page <= want+1; page++ {
				f := normalized(t, agg.Builder, domain.FilterSpec{Sort: tc.sort, Page: page, Limit: 1})
				res, err := agg.Fetch(context.Background(), []Source{a, b}, f)
				require.NoError(t, err)
				if page > want {
					assert.Empty(t, res.Rows)
					break
				}
				require.Len(t, res.Rows, 1, "page %d", page)
				seen[res.Rows[0].Provider+"/"+res.Rows[0].ID]++
			}
			assert.Len(t, seen, want)
			for k, n := range seen {
				assert.Equal(t, 1, n, "row %s served %d times", k, n)
			}
		})
	}
}

func idsOf(rows []models.Trip) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestWindow(t *testing.T) {
	var rows []models.Trip
	for i := 0; i < 7; i++ {
		rows = append(rows, models.Trip{ID: fmt.Sprint(i)})
	}
	assert.Equal(t, []string{"0", "1", "2"}, idsOf(window(rows, 1, 3)))
	assert.Equal(t, []string{"6"}, idsOf(window(rows, 3, 3)))
	assert.Empty(t, window(rows, 4, 3))
}
