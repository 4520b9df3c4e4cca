package models

import "time"

// Trip is one provider listing as served by the API.
// ID is provider-scoped; (Provider, ID) is unique.
type Trip struct {
	ID            string     `json:"id"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureTime *time.Time `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	TravelDate    *string    `json:"travel_date"`
	TransportType string     `json:"transport_type"`
	OperatorName  string     `json:"operator_name"`
	Price         float64    `json:"price"`
	PriceINR      *float64   `json:"price_inr"`
	Currency      string     `json:"currency"`
	RouteURL      string     `json:"route_url"`
	Provider      string     `json:"provider"`
}

// FilterOptions lists distinct values users can filter on.
type FilterOptions struct {
	Origins        []string `json:"origins"`
	Destinations   []string `json:"destinations"`
	TransportTypes []string `json:"transportTypes"`
	Operators      []string `json:"operators"`
}

// TripPage is one provider's slice of a search plus its total match count.
type TripPage struct {
	Rows  []Trip
	Total int64
}
