// Package store persists inputs the parser could not handle, so they
// can be reviewed and fixed up after a batch run.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS parse_timeouts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input TEXT NOT NULL,
			field_name TEXT,
			object_id TEXT,
			recorded_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS parse_failures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input TEXT NOT NULL,
			message TEXT,
			object_id TEXT,
			recorded_at TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// TimeoutRecord is one input whose parse missed its deadline.
type TimeoutRecord struct {
	ID         int64
	Input      string
	FieldName  string
	ObjectID   string
	RecordedAt string
}

// FailureRecord is one input the grammar rejected.
type FailureRecord struct {
	ID         int64
	Input      string
	Message    string
	ObjectID   string
	RecordedAt string
}

// RecordTimeout saves an input that missed its parse deadline.
func (d *DB) RecordTimeout(input, fieldName, objectID string) error {
	_, err := d.db.Exec(
		`INSERT INTO parse_timeouts (input, field_name, object_id, recorded_at) VALUES (?, ?, ?, ?)`,
		input, fieldName, objectID, now(),
	)
	if err != nil {
		return fmt.Errorf("recording timeout: %w", err)
	}
	return nil
}

// RecordFailure saves an input the grammar rejected.
func (d *DB) RecordFailure(input, message, objectID string) error {
	_, err := d.db.Exec(
		`INSERT INTO parse_failures (input, message, object_id, recorded_at) VALUES (?, ?, ?, ?)`,
		input, message, objectID, now(),
	)
	if err != nil {
		return fmt.Errorf("recording failure: %w", err)
	}
	return nil
}

// Timeouts returns all recorded timeouts, oldest first.
func (d *DB) Timeouts() ([]TimeoutRecord, error) {
	rows, err := d.db.Query(
		`SELECT id, input, field_name, object_id, recorded_at FROM parse_timeouts ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing timeouts: %w", err)
	}
	defer rows.Close()

	var records []TimeoutRecord
	for rows.Next() {
		var r TimeoutRecord
		if err := rows.Scan(&r.ID, &r.Input, &r.FieldName, &r.ObjectID, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning timeout row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Failures returns all recorded parse failures, oldest first.
func (d *DB) Failures() ([]FailureRecord, error) {
	rows, err := d.db.Query(
		`SELECT id, input, message, object_id, recorded_at FROM parse_failures ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing failures: %w", err)
	}
	defer rows.Close()

	var records []FailureRecord
	for rows.Next() {
		var r FailureRecord
		if err := rows.Scan(&r.ID, &r.Input, &r.Message, &r.ObjectID, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning failure row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
