package services

import (
	"context"
	"sync"
	"sync/atomic"

	"triphub/internal/domain/models"
	"triphub/internal/query"
)

type fakeSource struct {
	fm    query.FieldMap
	rows  []models.Trip // already in ORDER BY order
	total int64
	err   error
	block chan struct{}

	calls atomic.Int32
	mu    sync.Mutex
	plans []query.Plan
}

func (f *fakeSource) Provider() string         { return f.fm.Provider }
func (f *fakeSource) FieldMap() query.FieldMap { return f.fm }

func (f *fakeSource) Search(ctx context.Context, plan query.Plan) (models.TripPage, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.plans = append(f.plans, plan)
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return models.TripPage{}, ctx.Err()
		}
	}
	if f.err != nil {
		return models.TripPage{}, f.err
	}
	rows := f.rows
	if plan.Limit < len(rows) {
		rows = rows[:plan.Limit]
	}
	total := f.total
	if total == 0 {
		total = int64(len(f.rows))
	}
	return models.TripPage{Rows: append([]models.Trip{}, rows...), Total: total}, nil
}

func (f *fakeSource) Distinct(_ context.Context, field query.Field) ([]string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	for _, t := range f.rows {
		switch field {
		case query.FieldOrigin:
			out = append(out, t.Origin)
		case query.FieldDestination:
			out = append(out, t.Destination)
		case query.FieldTransportType:
			out = append(out, t.TransportType)
		case query.FieldOperatorName:
			out = append(out, t.OperatorName)
		}
	}
	return out, nil
}
