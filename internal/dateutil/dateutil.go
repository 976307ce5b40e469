// Package dateutil resolves the date values accepted by the --footer-date
// flag and the footer.date config key. Literal values pass through
// untouched; the "auto" and "auto:FORMAT" spellings expand to the current
// date through a small token grammar (YYYY, MM, DD, ...) translated to
// Go's reference-time layout.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat reports a footer date format that cannot be parsed.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength caps the format string. Footer dates are short;
// anything longer is a configuration mistake.
const MaxDateFormatLength = 50

// DefaultDateFormat is the layout a bare "auto" value expands with.
const DefaultDateFormat = "YYYY-MM-DD"

// DatePresets are the named layouts accepted after "auto:", looked up
// case-insensitively. Anything not listed here is read as a token format.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// formatTokens translates the token grammar into Go reference-time
// components. Longer tokens come first so YYYY is never read as two YY.
var formatTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// ParseDateFormat translates a token format into a Go time layout.
// Recognized tokens are YYYY, YY, MMMM, MMM, MM, M, DD and D. Text wrapped
// in square brackets is copied verbatim, which is how a literal "Date"
// survives token matching; every other character outside brackets passes
// through as-is. Returns ErrInvalidDateFormat for an empty format, a
// format over MaxDateFormatLength, or an unclosed bracket.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	layout.Grow(len(format))

	for i := 0; i < len(format); {
		if format[i] == '[' {
			literal, next, ok := readBracketLiteral(format, i)
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			layout.WriteString(literal)
			i = next
			continue
		}

		if token, goLayout, ok := matchToken(format[i:]); ok {
			layout.WriteString(goLayout)
			i += len(token)
			continue
		}

		layout.WriteByte(format[i])
		i++
	}

	return layout.String(), nil
}

// readBracketLiteral reads a [literal] group opening at i. The first
// closing bracket ends the group; brackets do not nest. next points past
// the closing bracket.
func readBracketLiteral(format string, i int) (literal string, next int, ok bool) {
	end := strings.Index(format[i+1:], "]")
	if end == -1 {
		return "", 0, false
	}
	return format[i+1 : i+1+end], i + end + 2, true
}

// matchToken finds the longest grammar token prefixing s.
func matchToken(s string) (token, layout string, ok bool) {
	for _, t := range formatTokens {
		if strings.HasPrefix(s, t.token) {
			return t.token, t.layout, true
		}
	}
	return "", "", false
}

// ResolveDate expands the "auto" spellings of a footer date value:
//
//   - "auto" formats now with DefaultDateFormat
//   - "auto:FORMAT" formats now with a token format or a DatePresets name
//   - anything not starting with "auto" is a literal and comes back unchanged
//
// The "auto" keyword and preset names are matched case-insensitively;
// format tokens keep their case. The caller supplies now, so a batch run
// stamps every document with the same date.
func ResolveDate(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	format := DefaultDateFormat
	switch {
	case lower == "auto":
		// Default layout.
	case strings.HasPrefix(lower, "auto:"):
		format = value[len("auto:"):]
		if format == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
	default:
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}
