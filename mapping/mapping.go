// Package mapping defines run profiles: how one category of merged
// report rows turns into contributor rows, which columns carry the
// names, and how long a single parse may run.
package mapping

import "time"

// Default column and timeout settings shared by the embedded profiles.
const (
	DefaultIDColumn         = "elements_id"
	DefaultFirstNameColumn  = "first_name"
	DefaultMiddleNameColumn = "middle_name"
	DefaultLastNameColumn   = "last_name"
	DefaultTimeoutSeconds   = 25
)

// Profile describes one migration run.
type Profile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Category and FieldName stamp every exported person row.
	Category  string `yaml:"category"`
	FieldName string `yaml:"field-name"`

	// AuthorColumn holds the contributor string to parse; IDColumn
	// identifies the source record.
	AuthorColumn string `yaml:"author-column"`
	IDColumn     string `yaml:"id-column,omitempty"`

	// Owner identity columns, used when IncludeUser is set.
	FirstNameColumn  string `yaml:"first-name-column,omitempty"`
	MiddleNameColumn string `yaml:"middle-name-column,omitempty"`
	LastNameColumn   string `yaml:"last-name-column,omitempty"`

	// IncludeUser matches the record owner against the parsed names
	// and appends them when absent.
	IncludeUser bool `yaml:"include-user"`

	TimeoutSeconds int `yaml:"timeout-seconds,omitempty"`
}

// Timeout returns the per-parse wall-clock budget.
func (p *Profile) Timeout() time.Duration {
	secs := p.TimeoutSeconds
	if secs <= 0 {
		secs = DefaultTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

func (p *Profile) applyDefaults() {
	if p.IDColumn == "" {
		p.IDColumn = DefaultIDColumn
	}
	if p.FirstNameColumn == "" {
		p.FirstNameColumn = DefaultFirstNameColumn
	}
	if p.MiddleNameColumn == "" {
		p.MiddleNameColumn = DefaultMiddleNameColumn
	}
	if p.LastNameColumn == "" {
		p.LastNameColumn = DefaultLastNameColumn
	}
	if p.TimeoutSeconds <= 0 {
		p.TimeoutSeconds = DefaultTimeoutSeconds
	}
}
