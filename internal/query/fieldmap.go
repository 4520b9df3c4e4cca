// Package query turns a FilterSpec into parameterized SQL for one provider
// table. Column and table names come only from a FieldMap; every request value
// is passed as a bind argument.
package query

import (
	"fmt"
	"strings"
)

// Field is a logical, provider-independent column name.
type Field string

const (
	FieldID            Field = "id"
	FieldOrigin        Field = "origin"
	FieldDestination   Field = "destination"
	FieldDepartureTime Field = "departure_time"
	FieldArrivalTime   Field = "arrival_time"
	FieldTravelDate    Field = "travel_date"
	FieldTransportType Field = "transport_type"
	FieldOperatorName  Field = "operator_name"
	FieldPrice         Field = "price"
	FieldPriceINR      Field = "price_inr"
	FieldCurrency      Field = "currency"
	FieldRouteURL      Field = "route_url"
)

// SelectFields is the column order of every trip SELECT; scanners rely on it.
var SelectFields = []Field{
	FieldID,
	FieldOrigin,
	FieldDestination,
	FieldDepartureTime,
	FieldArrivalTime,
	FieldTravelDate,
	FieldTransportType,
	FieldOperatorName,
	FieldPrice,
	FieldPriceINR,
	FieldCurrency,
	FieldRouteURL,
}

// FilterFields are the multi-value equality filters.
var FilterFields = []Field{FieldOrigin, FieldDestination, FieldTransportType, FieldOperatorName}

// SortFields is the sort whitelist.
var SortFields = map[Field]bool{
	FieldDepartureTime: true,
	FieldArrivalTime:   true,
	FieldTravelDate:    true,
	FieldPrice:         true,
	FieldPriceINR:      true,
	FieldOrigin:        true,
	FieldDestination:   true,
	FieldOperatorName:  true,
	FieldTransportType: true,
}

// DateField is the column date ranges and presets apply to.
const DateField = FieldTravelDate

// FieldMap binds logical fields to one provider's physical schema.
type FieldMap struct {
	Provider string
	Table    string
	Columns  map[Field]string
}

// Column returns the physical column for f.
func (m FieldMap) Column(f Field) (string, bool) {
	col, ok := m.Columns[f]
	return col, ok && col != ""
}

func (m FieldMap) mustColumn(f Field) (string, error) {
	col, ok := m.Column(f)
	if !ok {
		return "", fmt.Errorf("provider %s has no column for %s", m.Provider, f)
	}
	return col, nil
}

// SelectList renders SelectFields for this provider. travel_date is returned
// as YYYY-MM-DD text regardless of the column type.
func (m FieldMap) SelectList() (string, error) {
	cols := make([]string, 0, len(SelectFields))
	for _, f := range SelectFields {
		col, err := m.mustColumn(f)
		if err != nil {
			return "", err
		}
		if f == FieldTravelDate {
			col = fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", col)
		}
		cols = append(cols, col)
	}
	return strings.Join(cols, ", "), nil
}
