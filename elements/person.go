// Package elements maps parsed contributor names onto the person rows
// the Elements import format expects, reconciling them with the record
// owner's known identity.
package elements

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gwu-libraries/elements-migrate/authors"
)

// Person is one exported contributor row.
type Person map[string]string

// User is the record owner's identity as known to the system of
// record. Only the name fields take part in matching.
type User struct {
	FirstName  string
	MiddleName string
	LastName   string
}

// Matches reports whether a parsed author plausibly refers to the
// user. The surname must match exactly; the given name matches on the
// full first name, its first token, or the user's initials when the
// parse produced initials only.
func (u *User) Matches(a *authors.Author) bool {
	if u.LastName != a.Surname() {
		return false
	}
	if len(a.FirstName) > 0 {
		return u.FirstName == strings.Join(a.FirstName, " ") || u.FirstName == a.FirstName[0]
	}
	if len(a.Initials) == 0 || u.FirstName == "" {
		return false
	}
	initials := strings.ToUpper(firstLetter(u.FirstName))
	if u.MiddleName != "" {
		initials = strings.ToUpper(firstLetter(u.FirstName) + firstLetter(u.MiddleName))
	}
	return initials == strings.Join(a.Initials, "") || firstLetter(initials) == a.Initials[0]
}

// Person renders the user as a contributor row.
func (u *User) Person() Person {
	return Person{
		"first-name": u.FirstName,
		"surname":    u.LastName,
		"full":       u.FirstName + " " + u.LastName,
	}
}

func firstLetter(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

// FromAuthor renders a cleaned author as a contributor row.
func FromAuthor(a *authors.Author) Person {
	first := a.GivenNames()
	surname := a.Surname()
	full := surname
	if first != "" {
		full = first + " " + surname
	}
	return Person{
		"first-name": first,
		"surname":    surname,
		"full":       full,
	}
}

// Export renders cleaned authors as contributor rows. When a user is
// given and none of the authors match them, the user is appended as an
// extra row so the record owner is never lost.
func Export(parsed []*authors.Author, user *User) []Person {
	rows := make([]Person, 0, len(parsed)+1)
	matched := false
	for _, a := range parsed {
		if user != nil && !matched && user.Matches(a) {
			matched = true
		}
		rows = append(rows, FromAuthor(a))
	}
	if user != nil && !matched {
		rows = append(rows, user.Person())
	}
	return rows
}

// PersonList extracts contributor rows from the name fields of one
// source record.
type PersonList struct {
	parser *authors.Parser
	fields map[string]string
	user   *User
}

// NewPersonList binds the record's name-bearing fields, keyed by field
// name, to a parser and the record owner. A nil user disables owner
// matching.
func NewPersonList(fields map[string]string, parser *authors.Parser, user *User) *PersonList {
	return &PersonList{parser: parser, fields: fields, user: user}
}

// All parses every bound field and stamps each row with the field it
// came from. Fields are processed in sorted order so output is stable.
func (l *PersonList) All(ctx context.Context) ([]Person, []*authors.ParseError) {
	names := make([]string, 0, len(l.fields))
	for field := range l.fields {
		names = append(names, field)
	}
	sort.Strings(names)
	var rows []Person
	var errs []*authors.ParseError
	for _, field := range names {
		parsed, err := l.ParseNames(ctx, l.fields[field])
		if err != nil {
			errs = append(errs, err)
		}
		for _, row := range parsed {
			row["field-name"] = field
			rows = append(rows, row)
		}
	}
	return rows, errs
}

// ParseNames parses one raw name string into contributor rows. When
// the grammar rejects the input and a user is bound, the user stands
// in as the sole row alongside the returned error.
func (l *PersonList) ParseNames(ctx context.Context, names string) ([]Person, *authors.ParseError) {
	parsed, err := l.parser.ParseOne(ctx, names)
	if err != nil {
		var pe *authors.ParseError
		if !errors.As(err, &pe) {
			pe = &authors.ParseError{Input: names, Msg: fmt.Sprintf("parse aborted: %v", err)}
		}
		if l.user != nil {
			return []Person{l.user.Person()}, pe
		}
		return nil, pe
	}
	return Export(l.parser.PostClean(parsed), l.user), nil
}
