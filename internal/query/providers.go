package query

import (
	"fmt"
	"strings"

	"triphub/internal/domain"
)

// TwelveGo is the schema of the 12go dump table.
var TwelveGo = FieldMap{
	Provider: domain.Provider12Go,
	Table:    "trips_12go",
	Columns: map[Field]string{
		FieldID:            "id",
		FieldOrigin:        "origin",
		FieldDestination:   "destination",
		FieldDepartureTime: "departure_time",
		FieldArrivalTime:   "arrival_time",
		FieldTravelDate:    "travel_date",
		FieldTransportType: "transport_type",
		FieldOperatorName:  "operator_name",
		FieldPrice:         "price",
		FieldPriceINR:      "price_inr",
		FieldCurrency:      "currency",
		FieldRouteURL:      "route_url",
	},
}

// Bookaway is the schema of the bookaway dump table.
var Bookaway = FieldMap{
	Provider: domain.ProviderBookaway,
	Table:    "trips_bookaway",
	Columns: map[Field]string{
		FieldID:            "id",
		FieldOrigin:        "from_location",
		FieldDestination:   "to_location",
		FieldDepartureTime: "departure_at",
		FieldArrivalTime:   "arrival_at",
		FieldTravelDate:    "travel_date",
		FieldTransportType: "vehicle_type",
		FieldOperatorName:  "operator",
		FieldPrice:         "price",
		FieldPriceINR:      "price_inr",
		FieldCurrency:      "currency",
		FieldRouteURL:      "booking_url",
	},
}

// FieldMapFor looks up a provider's map by name (case-insensitive).
func FieldMapFor(provider string) (FieldMap, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case domain.Provider12Go:
		return TwelveGo, nil
	case domain.ProviderBookaway:
		return Bookaway, nil
	}
	return FieldMap{}, domain.ValidationError{Field: "provider", Msg: fmt.Sprintf("unknown provider %q", provider)}
}
