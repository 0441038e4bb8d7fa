// Package helpers holds small text utilities shared by the migration
// pipeline: spreadsheet-export repairs and identifier extraction.
package helpers

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// CrossRef's recommended DOI pattern.
	doiRe = regexp.MustCompile(`(?i)(10\.\d{4,9}/[-._;()/:A-Z0-9]+)`)
	// PubMed IDs appear labeled in free text.
	pmidRe = regexp.MustCompile(`PMID: (\d{7,8})`)
	// ISBN-13 candidates; length is validated after matching.
	isbnRe = regexp.MustCompile(`(?:ISBN(?:-13)?:? )?(97[89][- ]?[0-9]{1,5}[- ]?[0-9]+[- ]?[0-9]+[- ]?[0-9])`)

	doiURLTailRe = regexp.MustCompile(`/abstract.*$|/full.*$|/pdf.*$`)
)

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// ExtractDOI pulls the first DOI out of a larger string, trimming the
// junk that citation exports tend to glue onto the end. When the text
// is a URL it is unescaped first and known viewer path segments are
// dropped.
func ExtractDOI(txt string, isURL bool) string {
	if isURL {
		if unescaped, err := url.QueryUnescape(txt); err == nil {
			txt = unescaped
		}
	}
	m := doiRe.FindStringSubmatch(txt)
	if m == nil {
		return ""
	}
	doi := strings.TrimRight(m[1], punctuation)
	switch {
	case strings.HasSuffix(doi, "PMID"):
		// Sometimes the PMID label appears immediately after the DOI.
		doi = strings.TrimRight(strings.TrimSuffix(doi, "PMID"), punctuation)
	case isURL:
		doi = doiURLTailRe.ReplaceAllString(doi, "")
	case strings.HasSuffix(doi, "Date"):
		// Artifact of the source system's data capture.
		return ""
	}
	return doi
}

// ExtractPMID pulls the first labeled PubMed ID out of a string.
func ExtractPMID(txt string) string {
	m := pmidRe.FindStringSubmatch(txt)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractISBN pulls the first ISBN-13 out of a string. Candidates that
// do not hold exactly thirteen digits once separators are removed are
// skipped.
func ExtractISBN(txt string) string {
	for _, m := range isbnRe.FindAllStringSubmatch(txt, -1) {
		digits := strings.NewReplacer("-", "", " ", "").Replace(m[1])
		if len(digits) == 13 {
			return m[1]
		}
	}
	return ""
}
