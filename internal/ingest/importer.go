package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	intdb "triphub/internal/db"
	"triphub/internal/query"
)

const DefaultBatchSize = 500

// TxBeginner is satisfied by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Summary counts what one import did.
type Summary struct {
	Read     int
	Inserted int
	Skipped  int
}

// Importer writes a provider dump into that provider's table. Rows are
// upserted by id; invalid rows are skipped and counted.
type Importer struct {
	DB        TxBeginner
	Fields    query.FieldMap
	Decode    DecodeFunc
	BatchSize int
	Log       zerolog.Logger

	validate *validator.Validate
}

func NewImporter(db TxBeginner, provider string, batchSize int, log zerolog.Logger) (*Importer, error) {
	fm, err := query.FieldMapFor(provider)
	if err != nil {
		return nil, err
	}
	decode, err := DecoderFor(provider)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{
		DB:        db,
		Fields:    fm,
		Decode:    decode,
		BatchSize: batchSize,
		Log:       log.With().Str("provider", fm.Provider).Logger(),
		validate:  validator.New(),
	}, nil
}

// Validate checks r against the ingestion rules.
func (im *Importer) Validate(r Record) error {
	if im.validate == nil {
		im.validate = validator.New()
	}
	if err := im.validate.Struct(r); err != nil {
		return err
	}
	if r.ArrivalTime.Before(*r.DepartureTime) {
		return errors.New("arrival before departure")
	}
	return nil
}

// Import reads a JSON array of provider rows from src in a single transaction.
func (im *Importer) Import(ctx context.Context, src io.Reader) (Summary, error) {
	var sum Summary

	dec := json.NewDecoder(src)
	tok, err := dec.Token()
	if err != nil {
		return sum, fmt.Errorf("read dump: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return sum, fmt.Errorf("read dump: expected a JSON array")
	}

	tx, err := im.DB.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	batch := make([]Record, 0, im.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := im.insert(ctx, tx, batch)
		if err != nil {
			return err
		}
		sum.Inserted += n
		batch = batch[:0]
		return nil
	}

	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return sum, fmt.Errorf("read row %d: %w", sum.Read+1, err)
		}
		sum.Read++

		rec, err := im.Decode(raw)
		if err == nil {
			err = im.Validate(rec)
		}
		if err != nil {
			sum.Skipped++
			im.Log.Debug().Err(err).Int("row", sum.Read).Msg("skip row")
			continue
		}
		batch = append(batch, rec)
		if len(batch) >= im.BatchSize {
			if err := flush(); err != nil {
				return sum, err
			}
		}
	}
	if err := flush(); err != nil {
		return sum, err
	}
	if err := tx.Commit(); err != nil {
		return sum, fmt.Errorf("commit: %w", err)
	}

	im.Log.Info().Int("read", sum.Read).Int("inserted", sum.Inserted).Int("skipped", sum.Skipped).Msg("import done")
	return sum, nil
}

func (im *Importer) insert(ctx context.Context, tx *sql.Tx, rows []Record) (int, error) {
	q, err := im.insertSQL(len(rows))
	if err != nil {
		return 0, err
	}
	args := make([]any, 0, len(rows)*len(query.SelectFields))
	for _, r := range rows {
		args = append(args,
			r.ID,
			r.Origin,
			r.Destination,
			*r.DepartureTime,
			*r.ArrivalTime,
			intdb.NullIfEmpty(r.TravelDate),
			intdb.NullIfEmpty(r.TransportType),
			intdb.NullIfEmpty(r.OperatorName),
			*r.Price,
			intdb.NullIfNil(r.PriceINR),
			intdb.NullIfEmpty(r.Currency),
			r.RouteURL,
		)
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return 0, fmt.Errorf("insert %s: %w", im.Fields.Table, err)
	}
	return len(rows), nil
}

// insertSQL builds a multi-row upsert in query.SelectFields column order.
func (im *Importer) insertSQL(n int) (string, error) {
	cols := make([]string, 0, len(query.SelectFields))
	updates := make([]string, 0, len(query.SelectFields))
	for _, f := range query.SelectFields {
		col, ok := im.Fields.Column(f)
		if !ok {
			return "", fmt.Errorf("provider %s has no column for %s", im.Fields.Provider, f)
		}
		cols = append(cols, col)
		if f != query.FieldID {
			updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", col, col))
		}
	}
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	values := strings.TrimSuffix(strings.Repeat(row+", ", n), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON DUPLICATE KEY UPDATE %s",
		im.Fields.Table, strings.Join(cols, ", "), values, strings.Join(updates, ", ")), nil
}
