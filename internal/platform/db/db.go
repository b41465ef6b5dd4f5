package db

import (
	"database/sql"
	"fmt"
	"time"
)

// OpenMirror connects to the Postgres reporting mirror through the pgx
// stdlib driver. The mirror is optional tooling; the embedded store remains
// the system of record.
func OpenMirror(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openMirror: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openMirror: verify postgres connection: %w", err)
	}

	return db, nil
}
