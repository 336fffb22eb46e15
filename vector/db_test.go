package vector

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// openMemory opens a private in-memory SQLite database.
func openMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
