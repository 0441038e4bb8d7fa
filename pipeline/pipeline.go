package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gwu-libraries/elements-migrate/authors"
	"github.com/gwu-libraries/elements-migrate/elements"
	"github.com/gwu-libraries/elements-migrate/helpers"
	"github.com/gwu-libraries/elements-migrate/mapping"
	"github.com/gwu-libraries/elements-migrate/store"
)

// PersonColumns is the header order for exported person rows.
var PersonColumns = []string{"id", "category", "field-name", "first-name", "surname", "full"}

// Runner extracts person rows from merged report rows according to a
// run profile.
type Runner struct {
	Profile *mapping.Profile
	Worker  *Worker
	Store   *store.DB // optional review queue for bad inputs
}

// Result collects the outputs of one batch run.
type Result struct {
	Persons  []elements.Person
	Timeouts []string // raw inputs that missed the parse deadline
	Failures []*authors.ParseError
	Rows     int // source rows processed, skipped ones excluded
}

// New builds a runner for the profile with a parser worker sized to
// the profile's timeout.
func New(profile *mapping.Profile) *Runner {
	return &Runner{
		Profile: profile,
		Worker:  NewParserWorker(profile.Timeout()),
	}
}

// Run reads merged CSV rows and extracts person rows from each. Rows
// without an object ID are skipped. Inputs that time out or fail to
// parse are collected on the result, recorded in the review store when
// one is attached, and replaced by the record owner where the profile
// includes one.
func (r *Runner) Run(ctx context.Context, in io.Reader) (*Result, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols[r.Profile.AuthorColumn]; !ok {
		return nil, fmt.Errorf("input has no %q column", r.Profile.AuthorColumn)
	}

	res := &Result{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		row := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		if err := r.processRow(ctx, row, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *Runner) processRow(ctx context.Context, row func(string) string, res *Result) error {
	id := strings.TrimSpace(row(r.Profile.IDColumn))
	if id == "" {
		// Rows never loaded into the target system carry no object id.
		return nil
	}
	res.Rows++

	var user *elements.User
	if r.Profile.IncludeUser {
		user = userFromRow(row, r.Profile)
	}

	raw := helpers.CleanCellText(row(r.Profile.AuthorColumn))
	if strings.TrimSpace(raw) == "" {
		if user != nil {
			res.Persons = append(res.Persons, r.stamp(user.Person(), id))
		}
		return nil
	}

	parsed, err := r.Worker.Parse(ctx, raw)
	switch {
	case errors.Is(err, ErrTimeout):
		res.Timeouts = append(res.Timeouts, raw)
		slog.Warn("parse timed out", "id", id, "input", raw)
		if r.Store != nil {
			if serr := r.Store.RecordTimeout(raw, r.Profile.FieldName, id); serr != nil {
				slog.Error("recording timeout", "err", serr)
			}
		}
	case err != nil:
		var pe *authors.ParseError
		if !errors.As(err, &pe) {
			return err
		}
		res.Failures = append(res.Failures, pe)
		slog.Warn("parse failed", "id", id, "err", pe)
		if r.Store != nil {
			if serr := r.Store.RecordFailure(raw, pe.Msg, id); serr != nil {
				slog.Error("recording failure", "err", serr)
			}
		}
	default:
		for _, p := range elements.Export(parsed, user) {
			res.Persons = append(res.Persons, r.stamp(p, id))
		}
		return nil
	}
	// Parse produced nothing; the owner stands in when known.
	if user != nil {
		res.Persons = append(res.Persons, r.stamp(user.Person(), id))
	}
	return nil
}

func userFromRow(row func(string) string, profile *mapping.Profile) *elements.User {
	u := &elements.User{
		FirstName:  strings.TrimSpace(row(profile.FirstNameColumn)),
		MiddleName: strings.TrimSpace(row(profile.MiddleNameColumn)),
		LastName:   strings.TrimSpace(row(profile.LastNameColumn)),
	}
	if u.FirstName == "" && u.LastName == "" {
		return nil
	}
	return u
}

func (r *Runner) stamp(p elements.Person, id string) elements.Person {
	p["id"] = id
	p["category"] = r.Profile.Category
	p["field-name"] = r.Profile.FieldName
	return p
}

// WritePersons writes person rows as CSV in the standard column order.
func WritePersons(w io.Writer, persons []elements.Person) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PersonColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	record := make([]string, len(PersonColumns))
	for _, p := range persons {
		for i, col := range PersonColumns {
			record[i] = p[col]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
