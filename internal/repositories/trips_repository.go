package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intdb "triphub/internal/db"
	"triphub/internal/domain/models"
	"triphub/internal/query"
)

// Querier is the subset of *sql.DB the repository needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TripsRepository reads one provider's trip table.
type TripsRepository struct {
	DB      Querier
	Fields  query.FieldMap
	Timeout time.Duration
}

func (r TripsRepository) Provider() string { return r.Fields.Provider }

func (r TripsRepository) FieldMap() query.FieldMap { return r.Fields }

func (r TripsRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout > 0 {
		return context.WithTimeout(ctx, r.Timeout)
	}
	return context.WithCancel(ctx)
}

// Search runs plan's count and page queries. A provider whose table has not
// been imported yet yields an empty page.
func (r TripsRepository) Search(ctx context.Context, plan query.Plan) (models.TripPage, error) {
	if r.DB == nil {
		return models.TripPage{}, fmt.Errorf("%s: database not configured", r.Provider())
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	out := models.TripPage{Rows: []models.Trip{}}

	countSQL, countArgs := plan.CountSQL()
	if err := r.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&out.Total); err != nil {
		if intdb.IsMissingTable(err) {
			return out, nil
		}
		return models.TripPage{}, fmt.Errorf("count %s: %w", plan.Table, err)
	}
	if out.Total == 0 {
		return out, nil
	}

	selectSQL, args := plan.SelectSQL()
	rows, err := r.DB.QueryContext(ctx, selectSQL, args...)
	if err != nil {
		return models.TripPage{}, fmt.Errorf("select %s: %w", plan.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return models.TripPage{}, fmt.Errorf("scan %s: %w", plan.Table, err)
		}
		t.Provider = r.Provider()
		out.Rows = append(out.Rows, t)
	}
	if err := rows.Err(); err != nil {
		return models.TripPage{}, fmt.Errorf("read %s: %w", plan.Table, err)
	}
	return out, nil
}

// scanTrip reads one row in query.SelectFields order.
func scanTrip(rows *sql.Rows) (models.Trip, error) {
	var (
		t                   models.Trip
		id                  string
		origin, destination sql.NullString
		departure, arrival  sql.NullTime
		travelDate          sql.NullString
		transport, operator sql.NullString
		price               sql.NullFloat64
		priceINR            sql.NullFloat64
		currency, routeURL  sql.NullString
	)
	if err := rows.Scan(
		&id,
		&origin,
		&destination,
		&departure,
		&arrival,
		&travelDate,
		&transport,
		&operator,
		&price,
		&priceINR,
		&currency,
		&routeURL,
	); err != nil {
		return t, err
	}
	t.ID = id
	t.Origin = origin.String
	t.Destination = destination.String
	if departure.Valid {
		v := departure.Time
		t.DepartureTime = &v
	}
	if arrival.Valid {
		v := arrival.Time
		t.ArrivalTime = &v
	}
	if travelDate.Valid {
		v := travelDate.String
		t.TravelDate = &v
	}
	t.TransportType = transport.String
	t.OperatorName = operator.String
	t.Price = price.Float64
	if priceINR.Valid {
		v := priceINR.Float64
		t.PriceINR = &v
	}
	t.Currency = currency.String
	t.RouteURL = routeURL.String
	return t, nil
}

// Distinct lists the distinct non-empty values of field.
func (r TripsRepository) Distinct(ctx context.Context, field query.Field) ([]string, error) {
	if r.DB == nil {
		return nil, fmt.Errorf("%s: database not configured", r.Provider())
	}
	q, err := query.DistinctSQL(r.Fields, field)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		if intdb.IsMissingTable(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("distinct %s.%s: %w", r.Fields.Table, field, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Ready reports whether the provider table exists.
func (r TripsRepository) Ready(ctx context.Context) bool {
	if r.DB == nil {
		return false
	}
	return intdb.HasTable(ctx, r.DB, r.Fields.Table)
}

// MissingColumns lists mapped columns the provider table lacks.
func (r TripsRepository) MissingColumns(ctx context.Context) []string {
	if r.DB == nil {
		return nil
	}
	var missing []string
	for _, f := range query.SelectFields {
		col, ok := r.Fields.Column(f)
		if !ok {
			continue
		}
		if !intdb.HasColumn(ctx, r.DB, r.Fields.Table, col) {
			missing = append(missing, col)
		}
	}
	return missing
}
