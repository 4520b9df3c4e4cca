package services

import (
	"sort"
	"strings"
	"time"

	"triphub/internal/domain"
	"triphub/internal/domain/models"
	"triphub/internal/query"
)

// sortTrips orders rows from several providers the way each provider's
// ORDER BY does (query.Builder.OrderBy): by the sort field with missing values
// last, then provider, then id. Both sides must agree or a page window can
// repeat or skip rows.
func sortTrips(rows []models.Trip, s domain.Sort) {
	field := query.Field(s.Field)
	desc := s.Direction == "desc"
	sort.SliceStable(rows, func(i, j int) bool {
		if c := compareField(rows[i], rows[j], field, desc); c != 0 {
			return c < 0
		}
		if rows[i].Provider != rows[j].Provider {
			return rows[i].Provider < rows[j].Provider
		}
		return compareID(rows[i].ID, rows[j].ID) < 0
	})
}

// compareField returns <0 when a sorts before b. Missing values sort last
// whatever the direction.
func compareField(a, b models.Trip, f query.Field, desc bool) int {
	switch f {
	case query.FieldArrivalTime:
		return compareTime(a.ArrivalTime, b.ArrivalTime, desc)
	case query.FieldTravelDate:
		return compareStringPtr(a.TravelDate, b.TravelDate, desc)
	case query.FieldPrice:
		return directed(compareFloat(a.Price, b.Price), desc)
	case query.FieldPriceINR:
		return compareFloatPtr(a.PriceINR, b.PriceINR, desc)
	case query.FieldOrigin:
		return compareText(a.Origin, b.Origin, desc)
	case query.FieldDestination:
		return compareText(a.Destination, b.Destination, desc)
	case query.FieldOperatorName:
		return compareText(a.OperatorName, b.OperatorName, desc)
	case query.FieldTransportType:
		return compareText(a.TransportType, b.TransportType, desc)
	default:
		return compareTime(a.DepartureTime, b.DepartureTime, desc)
	}
}

// nullsLast handles the nil cases; ok is false when both values are present.
func nullsLast(aNil, bNil bool) (int, bool) {
	switch {
	case aNil && bNil:
		return 0, true
	case aNil:
		return 1, true
	case bNil:
		return -1, true
	}
	return 0, false
}

func directed(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}

func compareTime(a, b *time.Time, desc bool) int {
	if c, ok := nullsLast(a == nil, b == nil); ok {
		return c
	}
	return directed(a.Compare(*b), desc)
}

func compareStringPtr(a, b *string, desc bool) int {
	if c, ok := nullsLast(a == nil, b == nil); ok {
		return c
	}
	return directed(strings.Compare(*a, *b), desc)
}

func compareFloatPtr(a, b *float64, desc bool) int {
	if c, ok := nullsLast(a == nil, b == nil); ok {
		return c
	}
	return directed(compareFloat(*a, *b), desc)
}

func compareText(a, b string, desc bool) int {
	if c, ok := nullsLast(a == "", b == ""); ok {
		return c
	}
	return directed(strings.Compare(strings.ToLower(a), strings.ToLower(b)), desc)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareID orders ids bytewise, matching CAST(id AS BINARY) in SQL.
func compareID(a, b string) int {
	return strings.Compare(a, b)
}
