package helpers

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Spreadsheet exports encode control characters as _xHHHH_ escapes.
var cellEscapeRe = regexp.MustCompile(`_x([0-9A-Fa-f]{4})_`)

// CleanCellText repairs artifacts of spreadsheet exports: _xHHHH_
// escape sequences are decoded, the text is normalized to NFKD, and
// vertical tabs become spaces.
func CleanCellText(s string) string {
	s = cellEscapeRe.ReplaceAllStringFunc(s, func(m string) string {
		code, err := strconv.ParseUint(m[2:6], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
	s = norm.NFKD.String(s)
	return strings.ReplaceAll(s, "\v", " ")
}
