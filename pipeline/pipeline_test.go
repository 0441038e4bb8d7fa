package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gwu-libraries/elements-migrate/authors"
	"github.com/gwu-libraries/elements-migrate/mapping"
	"github.com/gwu-libraries/elements-migrate/store"
)

func publicationProfile(t *testing.T) *mapping.Profile {
	t.Helper()
	registry, err := mapping.NewProfileRegistry()
	if err != nil {
		t.Fatalf("NewProfileRegistry: %v", err)
	}
	p, ok := registry.Get("publication")
	if !ok {
		t.Fatal("publication profile missing")
	}
	return p
}

const publicationCSV = `elements_id,first_name,middle_name,last_name,authors
pub-1,Heath,A,Krandall,"Ledger H, Bar H, and CE Heath"
,Jane,,Doe,"John Smith"
pub-2,Jane,,Doe,""
pub-3,Jane,,Doe,"%%%"
pub-4,Heath,A,Krandall,"Krandall HA"
`

func TestRunnerPublications(t *testing.T) {
	r := New(publicationProfile(t))
	res, err := r.Run(context.Background(), strings.NewReader(publicationCSV))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// pub-1: three parsed names plus the unmatched owner; the row
	// without an id is skipped; pub-2 and pub-3 fall back to the
	// owner; pub-4 matches the owner and adds nothing.
	if res.Rows != 4 {
		t.Errorf("rows = %d, want 4", res.Rows)
	}
	if len(res.Persons) != 7 {
		t.Fatalf("got %d persons, want 7: %v", len(res.Persons), res.Persons)
	}
	if len(res.Failures) != 1 || res.Failures[0].Input != "%%%" {
		t.Errorf("failures = %v", res.Failures)
	}

	owner := res.Persons[3]
	if owner["full"] != "Heath Krandall" || owner["id"] != "pub-1" {
		t.Errorf("appended owner = %v", owner)
	}
	for _, p := range res.Persons {
		if p["category"] != "publication" || p["field-name"] != "authors" {
			t.Errorf("row missing stamps: %v", p)
		}
	}
	last := res.Persons[6]
	if last["id"] != "pub-4" || last["surname"] != "Krandall" || last["first-name"] != "HA" {
		t.Errorf("pub-4 row = %v", last)
	}
}

func TestRunnerSkipsOwnerWhenProfileExcludesThem(t *testing.T) {
	registry, _ := mapping.NewProfileRegistry()
	profile, ok := registry.Get("activity")
	if !ok {
		t.Fatal("activity profile missing")
	}
	input := `elements_id,first_name,middle_name,last_name,collaborators
act-1,Penny,,Pompidour,"Ledger H"
act-2,Penny,,Pompidour,""
`
	r := New(profile)
	res, err := r.Run(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Persons) != 1 {
		t.Fatalf("got %d persons, want 1: %v", len(res.Persons), res.Persons)
	}
	if res.Persons[0]["surname"] != "Ledger" || res.Persons[0]["category"] != "activity" {
		t.Errorf("row = %v", res.Persons[0])
	}
}

func TestRunnerRecordsTimeouts(t *testing.T) {
	profile := publicationProfile(t)
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "review.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	r := &Runner{
		Profile: profile,
		Store:   db,
		Worker: NewWorker(10*time.Millisecond, func() ParseFunc {
			return func(ctx context.Context, names string) ([]*authors.Author, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}
		}),
	}
	input := `elements_id,first_name,middle_name,last_name,authors
pub-1,Heath,A,Krandall,"Ledger H"
`
	res, err := r.Run(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Timeouts) != 1 || res.Timeouts[0] != "Ledger H" {
		t.Fatalf("timeouts = %v", res.Timeouts)
	}
	// The owner stands in for the lost parse.
	if len(res.Persons) != 1 || res.Persons[0]["surname"] != "Krandall" {
		t.Errorf("persons = %v", res.Persons)
	}
	records, err := db.Timeouts()
	if err != nil {
		t.Fatalf("Timeouts: %v", err)
	}
	if len(records) != 1 || records[0].Input != "Ledger H" || records[0].ObjectID != "pub-1" {
		t.Errorf("stored records = %+v", records)
	}
}

func TestRunnerMissingAuthorColumn(t *testing.T) {
	r := New(publicationProfile(t))
	_, err := r.Run(context.Background(), strings.NewReader("elements_id,title\npub-1,Things\n"))
	if err == nil {
		t.Fatal("want an error for a missing author column")
	}
}

func TestWritePersons(t *testing.T) {
	r := New(publicationProfile(t))
	res, err := r.Run(context.Background(), strings.NewReader(publicationCSV))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var sb strings.Builder
	if err := WritePersons(&sb, res.Persons); err != nil {
		t.Fatalf("WritePersons: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != len(res.Persons)+1 {
		t.Fatalf("got %d lines, want %d", len(lines), len(res.Persons)+1)
	}
	if lines[0] != strings.Join(PersonColumns, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "pub-1,publication,authors,H,Ledger,H Ledger" {
		t.Errorf("first row = %q", lines[1])
	}
}
