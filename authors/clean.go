package authors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	trailingPunctRe = regexp.MustCompile(`[.,;:]$`)
	capitalRunRe    = regexp.MustCompile(`\p{Lu}{4,}`)
	acronymRe       = regexp.MustCompile(`^(?:MPH|DO|MD|FACP|MS|III|DNP|LCSW|MPP|EPFL)`)
	titleRe         = regexp.MustCompile(`^(?:Professor|Dr\.?|Dean)`)
)

// stopWords are tokens that mark a parsed name as a corporate or group
// body rather than a person.
var stopWords = map[string]struct{}{
	"Association":   {},
	"Institute":     {},
	"Director":      {},
	"Department":    {},
	"Faculty":       {},
	"Student":       {},
	"Research":      {},
	"Laboratory":    {},
	"Panel":         {},
	"Group":         {},
	"Inc":           {},
	"University":    {},
	"Organization":  {},
	"Foundation":    {},
	"Office":        {},
	"Medical":       {},
	"Health":        {},
	"System":        {},
	"Council":       {},
	"Fund":          {},
	"Club":          {},
	"USDA":          {},
	"Network":       {},
	"Philanthropy":  {},
	"Center":        {},
	"Librarian":     {},
	"Clinic":        {},
	"Government":    {},
	"Community":     {},
	"Practitioners": {},
	"Services":      {},
	"Academic":      {},
	"Repository":    {},
	"Students":      {},
	"Members":       {},
	"School":        {},
}

// preCleanNames repairs input quirks the grammar cannot absorb: one
// trailing punctuation mark, and shouty all-caps names. Runs of four
// or more capitals are title-cased unless they lead with a known
// acronym, so "JOHN SMITH" parses but "LCSW" survives.
func (p *Parser) preCleanNames(names string) string {
	if trailingPunctRe.MatchString(names) {
		names = names[:len(names)-1]
	}
	for _, run := range capitalRunRe.FindAllString(names, -1) {
		if acronymRe.MatchString(run) {
			continue
		}
		names = strings.ReplaceAll(names, run, titleCase(run))
	}
	return names
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// PostClean normalizes raw parse output in place and drops entries
// that end up without a surname. The pass is idempotent, so already
// cleaned authors come through unchanged.
//
// Rules, applied per author in order:
//   - A stop word anywhere in the name marks a corporate body: all
//     parts merge into the last name in their original reading order.
//   - A leading honorific (Professor, Dr, Dean) is removed from the
//     first name; if nothing else remains of the given name the whole
//     entry is discarded.
//   - Periods are stripped from initials.
//   - A lone suffix (Jr, III) captured as the surname is folded back
//     behind the first name.
func (p *Parser) PostClean(list []*Author) []*Author {
	for _, a := range list {
		if hasStopWord(a.LastName) || hasStopWord(a.FirstName) {
			merged := make([]string, 0, len(a.FirstName)+len(a.LastName)+1)
			merged = append(merged, a.FirstName...)
			if joined := strings.Join(a.Initials, ""); joined != "" {
				merged = append(merged, joined)
			}
			merged = append(merged, a.LastName...)
			a.LastName = merged
			a.FirstName = nil
			a.Initials = nil
			continue
		}
		if len(a.FirstName) > 0 && titleRe.MatchString(a.FirstName[0]) {
			a.FirstName = a.FirstName[1:]
			if len(a.FirstName) == 0 && len(a.Initials) == 0 {
				a.LastName = nil
				continue
			}
		}
		for i, initial := range a.Initials {
			a.Initials[i] = strings.ReplaceAll(initial, ".", "")
		}
		if len(a.LastName) == 1 && suffixRe.MatchString(a.LastName[0]) {
			last := make([]string, 0, len(a.FirstName)+1)
			last = append(last, a.FirstName...)
			last = append(last, a.LastName...)
			a.LastName = last
			a.FirstName = nil
		}
	}
	cleaned := make([]*Author, 0, len(list))
	for _, a := range list {
		if len(a.LastName) > 0 {
			cleaned = append(cleaned, a)
		}
	}
	return cleaned
}

func hasStopWord(words []string) bool {
	for _, w := range words {
		if _, ok := stopWords[w]; ok {
			return true
		}
	}
	return false
}
