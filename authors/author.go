package authors

import "strings"

// NameOrder records which ordering the matched grammar form used.
type NameOrder int

const (
	// FirstFirst names read given-name first, e.g. "John Smith".
	FirstFirst NameOrder = iota
	// LastFirst names lead with the surname, e.g. "Smith, John".
	LastFirst
)

// Author is one person extracted from a contributor string. Name parts
// stay tokenized; join them for display with FullName.
type Author struct {
	FirstName []string  `json:"first_name"`
	Initials  []string  `json:"initials"`
	LastName  []string  `json:"last_name"`
	Order     NameOrder `json:"-"`
}

func newAuthor(tag string) *Author {
	a := &Author{}
	// Aliases are an_full, an_full_lfo, an_init, an_init_lfo; a third
	// segment means the surname leads.
	if strings.Count(tag, "_") > 1 {
		a.Order = LastFirst
	}
	return a
}

// addName assigns a run of name-part tokens to the slot the grammar
// form and fill order dictate.
func (a *Author) addName(words []string) {
	switch {
	case len(a.LastName) > 0:
		a.FirstName = words
	case a.Order == LastFirst:
		a.LastName = words
	case len(a.FirstName) > 0 || len(a.Initials) > 0:
		a.LastName = words
	default:
		a.FirstName = words
	}
}

// FullName renders the name given-name first.
func (a *Author) FullName() string {
	first := a.GivenNames()
	last := strings.Join(a.LastName, " ")
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

// GivenNames joins the first name and run-together initials.
func (a *Author) GivenNames() string {
	first := strings.Join(a.FirstName, " ")
	joined := strings.Join(a.Initials, "")
	switch {
	case joined == "":
		return first
	case first == "":
		return joined
	}
	return first + " " + joined
}

// Surname joins the last-name tokens.
func (a *Author) Surname() string {
	return strings.Join(a.LastName, " ")
}

// String renders the name parts pipe-separated as first|initials|last,
// a compact form used in logs and test tables.
func (a *Author) String() string {
	return strings.Join(a.FirstName, " ") + "|" + strings.Join(a.Initials, "") + "|" + strings.Join(a.LastName, " ")
}

// unpack walks a resolved parse tree in preorder, opening a new Author
// at every aliased single-author node and feeding the name pieces that
// follow into it.
func unpack(root *node) []*Author {
	var out []*Author
	var walk func(n *node)
	walk = func(n *node) {
		switch {
		case n.alias:
			out = append(out, newAuthor(n.tag))
		case len(out) > 0:
			cur := out[len(out)-1]
			switch n.tag {
			case tagAuthorName:
				cur.addName(n.tokens())
			case tagInitials:
				cur.Initials = n.tokens()
			}
		}
		for _, c := range n.children {
			if c.sub != nil {
				walk(c.sub)
			}
		}
	}
	walk(root)
	return out
}
