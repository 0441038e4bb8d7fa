package mapping

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedProfiles(t *testing.T) {
	registry, err := NewProfileRegistry()
	if err != nil {
		t.Fatalf("NewProfileRegistry: %v", err)
	}
	for _, name := range []string{"publication", "activity", "teaching-activity"} {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("embedded profile %q missing", name)
		}
	}

	pub, _ := registry.Get("publication")
	if !pub.IncludeUser {
		t.Error("publication profile should include the record owner")
	}
	if pub.AuthorColumn != "authors" || pub.FieldName != "authors" {
		t.Errorf("publication columns = %q/%q", pub.AuthorColumn, pub.FieldName)
	}
	if pub.IDColumn != DefaultIDColumn {
		t.Errorf("id column = %q, want default %q", pub.IDColumn, DefaultIDColumn)
	}
	if pub.Timeout() != DefaultTimeoutSeconds*time.Second {
		t.Errorf("timeout = %v, want %ds", pub.Timeout(), DefaultTimeoutSeconds)
	}

	act, _ := registry.Get("activity")
	if act.IncludeUser {
		t.Error("activity profile should not include the record owner")
	}
	if act.AuthorColumn != "collaborators" || act.FieldName != "co-contributors" {
		t.Errorf("activity columns = %q/%q", act.AuthorColumn, act.FieldName)
	}
}

func TestLoadProfileAppliesDefaults(t *testing.T) {
	content := `
name: grants
category: grant
field-name: investigators
author-column: investigators
include-user: true
timeout-seconds: 5
`
	path := filepath.Join(t.TempDir(), "grants.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Timeout() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", p.Timeout())
	}
	if p.FirstNameColumn != DefaultFirstNameColumn || p.LastNameColumn != DefaultLastNameColumn {
		t.Errorf("owner columns = %q/%q, want defaults", p.FirstNameColumn, p.LastNameColumn)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("want an error for a missing file")
	}
}
