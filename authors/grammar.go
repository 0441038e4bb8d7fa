package authors

import "regexp"

// The name grammar, in rough EBNF. Spaces between tokens are skipped;
// _WS marks positions where at least one space is required.
//
//	authors          = single_author | multiple_authors
//	multiple_authors = single_author "," (single_author ",")* single_author
//	                 | single_author ";" (single_author ";")* single_author
//	                 | single_author ("," single_author)* [","] _WS CONJUNCTION _WS single_author
//	single_author    = author_name [_WS initials] _WS author_name [degrees]   (an_full)
//	                 | author_name "," author_name [_WS initials] [degrees]   (an_full_lfo)
//	                 | initials _WS author_name [degrees]                     (an_init)
//	                 | author_name ("," | _WS) initials [degrees]             (an_init_lfo)
//	author_name      = NAME_PART (_WS NAME_PART)* [("," | _WS) SUFFIX]
//	initials         = INITIAL [INITIAL] [INITIAL]
//	degrees          = ("," | _WS) DEGREE ("," DEGREE)*
//
// Terminals are matched longest-alternative-first at the current
// position, so a particle compound like "Von Beethoven" is always one
// NAME_PART and never a bare "Von".
var (
	initialRe  = regexp.MustCompile(`^[A-Z]\.?`)
	namePartRe = regexp.MustCompile(`^(?:(?:El|Von|De|Del|de|von|del|el|of) \p{Lu}[\p{Ll}']+|\p{Lu}(?:\p{Ll}+\p{Lu})?[\p{Ll}']+(?:-\p{Lu}(?:\p{Ll}+\p{Lu})?[\p{Ll}']+)?)`)
	degreeRe   = regexp.MustCompile(`^(?:MPH|DO|MD|MEd|FACP|MScPT|EdD|MS|PhD|MPP|DNP|LCSW)`)
	suffixRe   = regexp.MustCompile(`^(?:Jr\.?|III)`)
	conjRe     = regexp.MustCompile(`^(?i:and|with|&)`)
)

// ruleID identifies a grammar rule for memoization.
type ruleID int

const (
	ruleAuthors ruleID = iota
	ruleMultiple
	ruleSingle
	ruleAuthorName
	ruleInitials
	ruleDegrees
)

// Rule and alias names carried on parse tree nodes. The unpacker keys
// off these to decide where each piece of a name belongs.
const (
	tagAuthors    = "authors"
	tagMultiple   = "multiple_authors"
	tagAuthorName = "author_name"
	tagInitials   = "initials"
	tagDegrees    = "degrees"

	tagAnFull    = "an_full"
	tagAnFullLFO = "an_full_lfo"
	tagAnInit    = "an_init"
	tagAnInitLFO = "an_init_lfo"
)
