package vector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteStore implements Store on top of a SQLite database. Coordinates are
// stored as EncodePoint BLOBs; insertion order follows the table rowid.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the points
// schema exists in the provided database.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// AddPoints upserts records into the dataset inside a single transaction.
func (s *SQLiteStore) AddPoints(ctx context.Context, dataset string, records []Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if dataset == "" {
		return nil, fmt.Errorf("vector: dataset must be set")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	dim, err := datasetDim(ctx, tx, dataset)
	if err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO points(dataset, id, coords)
VALUES (?, ?, ?)
ON CONFLICT(dataset, id) DO UPDATE SET
  coords = excluded.coords`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("vector: record %d has empty id", i)
		}
		if r.Point.Dim() == 0 {
			return nil, fmt.Errorf("vector: record %q: %w", r.ID, ErrEmptyPoint)
		}
		if !Finite(r.Point) {
			return nil, fmt.Errorf("vector: record %q: %w", r.ID, ErrInvalidCoordinate)
		}
		if dim == 0 {
			dim = r.Point.Dim()
		}
		if r.Point.Dim() != dim {
			return nil, &DimensionError{Want: dim, Got: r.Point.Dim(), Position: i}
		}
		if _, err := stmt.ExecContext(ctx, dataset, r.ID, EncodePoint(r.Point)); err != nil {
			return nil, err
		}
		ids = append(ids, r.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// datasetDim returns the dimension of the dataset, or 0 when it is empty.
func datasetDim(ctx context.Context, tx *sql.Tx, dataset string) (int, error) {
	var blob []byte
	err := tx.QueryRowContext(ctx, `SELECT coords FROM points WHERE dataset = ? LIMIT 1`, dataset).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(blob) / 8, nil
}

// Points returns the records of a dataset in insertion order.
func (s *SQLiteStore) Points(ctx context.Context, dataset string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, coords FROM points WHERE dataset = ? ORDER BY rowid`, dataset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		p, err := DecodePoint(blob)
		if err != nil {
			return nil, fmt.Errorf("vector: record %q: %w", id, err)
		}
		out = append(out, Record{ID: id, Point: p})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Datasets lists the names of all datasets holding at least one point.
func (s *SQLiteStore) Datasets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT dataset FROM points ORDER BY dataset`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Remove deletes a record from the dataset. Removing an id the dataset does
// not hold fails with ErrRecordNotFound.
func (s *SQLiteStore) Remove(ctx context.Context, dataset, id string) error {
	if id == "" {
		return fmt.Errorf("vector: Remove called with empty id")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM points WHERE dataset = ? AND id = ?`, dataset, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("vector: %q in dataset %q: %w", id, dataset, ErrRecordNotFound)
	}
	return nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
