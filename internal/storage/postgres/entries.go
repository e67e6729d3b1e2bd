package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
	"github.com/jackc/pgx/v5"
)

// table resolves a kind to its table name. Only whitelisted names are ever
// interpolated into SQL.
func table(kind models.Kind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", storage.ErrUnknownKind, string(kind))
	}
	return kind.Table(), nil
}

// ListEntries returns every row of the ledger, unfiltered.
func (s *Store) ListEntries(ctx context.Context, kind models.Kind) ([]models.Entry, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT id, username, amount, date FROM %s ORDER BY id;`, tbl))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var (
			e models.Entry
			d time.Time
		)
		if err := rows.Scan(&e.ID, &e.Username, &e.Amount, &d); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		e.Date = models.NewDate(d)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

// CreateEntry inserts a row and returns it with its generated id.
func (s *Store) CreateEntry(ctx context.Context, kind models.Kind, fields models.EntryFields) (models.Entry, error) {
	tbl, err := table(kind)
	if err != nil {
		return models.Entry{}, err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (username, amount, date)
		VALUES ($1, $2, $3)
		RETURNING id, username, amount, date;
	`, tbl)

	var (
		e models.Entry
		d time.Time
	)
	err = s.pool.QueryRow(ctx, query, fields.Username, fields.Amount, dateArg(fields.Date)).
		Scan(&e.ID, &e.Username, &e.Amount, &d)
	if err != nil {
		return models.Entry{}, classify(err)
	}
	e.Date = models.NewDate(d)
	return e, nil
}

// UpdateEntry overwrites every column of the row with the given id.
func (s *Store) UpdateEntry(ctx context.Context, kind models.Kind, id int64, fields models.EntryFields) error {
	tbl, err := table(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET username = $1, amount = $2, date = $3 WHERE id = $4;`, tbl)
	if _, err := s.pool.Exec(ctx, query, fields.Username, fields.Amount, dateArg(fields.Date), id); err != nil {
		return classify(err)
	}
	return nil
}

// DeleteEntry removes the row with the given id.
func (s *Store) DeleteEntry(ctx context.Context, kind models.Kind, id int64) error {
	tbl, err := table(kind)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1;`, tbl), id); err != nil {
		return classify(err)
	}
	return nil
}

// DailyTotals sums amounts per date, oldest first.
func (s *Store) DailyTotals(ctx context.Context, kind models.Kind) ([]models.DailyTotal, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT date, SUM(amount) AS total_amount FROM %s GROUP BY date ORDER BY date;`, tbl)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	return collect(rows, func(row pgx.CollectableRow) (models.DailyTotal, error) {
		var (
			t models.DailyTotal
			d time.Time
		)
		err := row.Scan(&d, &t.Total)
		t.Date = models.NewDate(d)
		return t, err
	})
}

// Series returns raw (date, amount) pairs, oldest first.
func (s *Store) Series(ctx context.Context, kind models.Kind) ([]models.SeriesPoint, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT date, amount FROM %s ORDER BY date, id;`, tbl))
	if err != nil {
		return nil, classify(err)
	}
	return collect(rows, func(row pgx.CollectableRow) (models.SeriesPoint, error) {
		var (
			p models.SeriesPoint
			d time.Time
		)
		err := row.Scan(&d, &p.Amount)
		p.Date = models.NewDate(d)
		return p, err
	})
}

func collect[T any](rows pgx.Rows, fn pgx.RowToFunc[T]) ([]T, error) {
	out, err := pgx.CollectRows(rows, fn)
	if err != nil {
		return nil, classify(err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func dateArg(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}
