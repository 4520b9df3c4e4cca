// Package ingest loads provider JSON dumps into the provider trip tables.
package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"triphub/internal/domain"
	"triphub/internal/utils"
)

// Record is one trip as stored in a provider table.
type Record struct {
	ID            string     `validate:"required,max=64"`
	Origin        string     `validate:"required,max=255"`
	Destination   string     `validate:"required,max=255"`
	DepartureTime *time.Time `validate:"required"`
	ArrivalTime   *time.Time `validate:"required"`
	TravelDate    string     `validate:"omitempty,datetime=2006-01-02"`
	TransportType string     `validate:"max=64"`
	OperatorName  string     `validate:"max=255"`
	Price         *float64   `validate:"required,gte=0"`
	PriceINR      *float64   `validate:"omitempty,gte=0"`
	Currency      string     `validate:"omitempty,len=3,alpha"`
	RouteURL      string     `validate:"required,url"`
}

// flexTime accepts RFC 3339 and "YYYY-MM-DD HH:MM[:SS]" timestamps.
type flexTime struct{ t *time.Time }

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04"}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			f.t = &t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// flexFloat accepts numbers and numeric strings.
type flexFloat struct{ v *float64 }

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", b)
	}
	f.v = &v
	return nil
}

// flexID accepts string and numeric ids. null, booleans, objects and arrays
// are rejected so they never collapse onto one stored id.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("invalid id %s", raw)
	}
	*f = flexID(raw)
	return nil
}

type twelveGoRow struct {
	ID            flexID    `json:"id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime flexTime  `json:"departure_time"`
	ArrivalTime   flexTime  `json:"arrival_time"`
	TravelDate    string    `json:"travel_date"`
	TransportType string    `json:"transport_type"`
	OperatorName  string    `json:"operator_name"`
	Price         flexFloat `json:"price"`
	PriceINR      flexFloat `json:"price_inr"`
	Currency      string    `json:"currency"`
	RouteURL      string    `json:"route_url"`
}

type bookawayRow struct {
	ID          flexID    `json:"id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	DepartureAt flexTime  `json:"departure_at"`
	ArrivalAt   flexTime  `json:"arrival_at"`
	Date        string    `json:"date"`
	VehicleType string    `json:"vehicle_type"`
	Operator    string    `json:"operator"`
	Price       flexFloat `json:"price"`
	PriceINR    flexFloat `json:"price_inr"`
	Currency    string    `json:"currency"`
	BookingURL  string    `json:"booking_url"`
}

// DecodeFunc maps one raw dump element to a Record.
type DecodeFunc func(raw json.RawMessage) (Record, error)

func decodeTwelveGo(raw json.RawMessage) (Record, error) {
	var r twelveGoRow
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, err
	}
	return normalize(Record{
		ID:            string(r.ID),
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureTime: r.DepartureTime.t,
		ArrivalTime:   r.ArrivalTime.t,
		TravelDate:    r.TravelDate,
		TransportType: r.TransportType,
		OperatorName:  r.OperatorName,
		Price:         r.Price.v,
		PriceINR:      r.PriceINR.v,
		Currency:      r.Currency,
		RouteURL:      r.RouteURL,
	}), nil
}

func decodeBookaway(raw json.RawMessage) (Record, error) {
	var r bookawayRow
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, err
	}
	return normalize(Record{
		ID:            string(r.ID),
		Origin:        r.From,
		Destination:   r.To,
		DepartureTime: r.DepartureAt.t,
		ArrivalTime:   r.ArrivalAt.t,
		TravelDate:    r.Date,
		TransportType: r.VehicleType,
		OperatorName:  r.Operator,
		Price:         r.Price.v,
		PriceINR:      r.PriceINR.v,
		Currency:      r.Currency,
		RouteURL:      r.BookingURL,
	}), nil
}

// normalize trims text and derives travel_date from the departure time.
func normalize(r Record) Record {
	r.ID = strings.TrimSpace(r.ID)
	r.Origin = utils.NormalizeSpace(r.Origin)
	r.Destination = utils.NormalizeSpace(r.Destination)
	r.TransportType = strings.ToLower(strings.TrimSpace(r.TransportType))
	r.OperatorName = strings.TrimSpace(r.OperatorName)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	r.RouteURL = strings.TrimSpace(r.RouteURL)
	r.TravelDate = strings.TrimSpace(r.TravelDate)
	if len(r.TravelDate) > 10 {
		r.TravelDate = r.TravelDate[:10]
	}
	if r.TravelDate == "" && r.DepartureTime != nil {
		r.TravelDate = r.DepartureTime.Format(utils.LayoutDate)
	}
	return r
}

// DecoderFor returns the dump decoder for provider.
func DecoderFor(provider string) (DecodeFunc, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case domain.Provider12Go:
		return decodeTwelveGo, nil
	case domain.ProviderBookaway:
		return decodeBookaway, nil
	}
	return nil, domain.ValidationError{Field: "provider", Msg: fmt.Sprintf("unknown provider %q", provider)}
}
