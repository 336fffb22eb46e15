package vector

import (
	"context"
	"database/sql"
)

const pointsSchema = `
CREATE TABLE IF NOT EXISTS points (
    dataset TEXT NOT NULL,
    id      TEXT NOT NULL,
    coords  BLOB NOT NULL,
    PRIMARY KEY(dataset, id)
);
`

// EnsureSchema creates the points table in the provided database if it does
// not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, pointsSchema)
	return err
}
