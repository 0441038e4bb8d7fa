package store

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "review.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndListTimeouts(t *testing.T) {
	db := openTestDB(t)

	if err := db.RecordTimeout("A, B, C, D, E, F, G", "authors", "pub-1"); err != nil {
		t.Fatalf("RecordTimeout: %v", err)
	}
	if err := db.RecordTimeout("X Y Z", "collaborators", "act-2"); err != nil {
		t.Fatalf("RecordTimeout: %v", err)
	}

	records, err := db.Timeouts()
	if err != nil {
		t.Fatalf("Timeouts: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Input != "A, B, C, D, E, F, G" || records[0].ObjectID != "pub-1" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].FieldName != "collaborators" {
		t.Errorf("second record field = %q", records[1].FieldName)
	}
	if records[0].RecordedAt == "" {
		t.Error("recorded_at not set")
	}
}

func TestRecordAndListFailures(t *testing.T) {
	db := openTestDB(t)

	if err := db.RecordFailure("%%%", "no name pattern matches the input", "pub-9"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}

	records, err := db.Failures()
	if err != nil {
		t.Fatalf("Failures: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Input != "%%%" || records[0].Message == "" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestEmptyListings(t *testing.T) {
	db := openTestDB(t)

	timeouts, err := db.Timeouts()
	if err != nil {
		t.Fatalf("Timeouts: %v", err)
	}
	failures, err := db.Failures()
	if err != nil {
		t.Fatalf("Failures: %v", err)
	}
	if len(timeouts) != 0 || len(failures) != 0 {
		t.Errorf("fresh database not empty: %v, %v", timeouts, failures)
	}
}
