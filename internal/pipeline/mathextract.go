package pipeline

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// Math placeholders are bracketed by Unicode Private Use Area characters.
// These never appear in ordinary documents and carry no meaning in Markdown,
// so Goldmark passes the whole token through unchanged (no WithUnsafe needed).
// The tag between the brackets uses only uppercase letters and digits; no
// character of any math delimiter grammar ($, backslash, brackets, parens)
// ever appears inside a token, so later extraction passes cannot rediscover
// math inside an already-replaced region.
const (
	MathTokenStart = "\uE000" // Private Use Area start bracket
	MathTokenEnd   = "\uE001" // Private Use Area end bracket
)

// Block delimiter patterns. Non-greedy: the first closing pair wins.
// (?s) lets content span multiple lines.
var (
	blockDollarPattern  = regexp.MustCompile(`(?s)\$\$(.*?)\$\$`)
	blockBracketPattern = regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)
	inlineParenPattern  = regexp.MustCompile(`(?s)\\\((.*?)\\\)`)
)

// MathKind distinguishes display math from math that flows with text.
type MathKind int

const (
	// MathInline renders within the surrounding line.
	MathInline MathKind = iota
	// MathBlock renders as a centered, standalone element.
	MathBlock
)

// String returns the tag used inside placeholder tokens.
func (k MathKind) String() string {
	if k == MathBlock {
		return "MATHBLOCK"
	}
	return "MATHINLINE"
}

// MathSpan is one extracted math region. Content holds the raw math source
// with delimiters stripped and outer whitespace trimmed; everything between
// is preserved byte-for-byte. Placeholder is the token that stands in for
// the span in the intermediate Markdown.
type MathSpan struct {
	Kind        MathKind
	Content     string
	Placeholder string
}

// MathExtractor defines the contract for math span extraction.
type MathExtractor interface {
	ExtractMath(ctx context.Context, content string) (string, []MathSpan)
}

// MathExtraction extracts TeX math spans and replaces them with placeholder
// tokens so Goldmark never sees math syntax. It recognizes four delimiter
// forms with fixed precedence:
//
//  1. Block  $$...$$
//  2. Block  \[...\]
//  3. Inline $...$   (not $$, not escaped \$, must have a valid closer)
//  4. Inline \(...\)
//
// Block forms are resolved before single-dollar scanning; otherwise $$x$$
// would be misread as an empty inline span. Each pass replaces its matches
// before the next pass runs, so later passes operate on placeholder-bearing
// text that contains no extracted math.
type MathExtraction struct{}

// ExtractMath scans content and returns the text with each math span
// replaced by its placeholder, plus the spans in extraction order.
// It is total: no input produces an error, and inputs without math
// delimiters are returned unchanged with a nil span list.
func (e *MathExtraction) ExtractMath(ctx context.Context, content string) (string, []MathSpan) {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content, nil
	}

	reg := &spanRegistry{}
	text := content

	// Pass 1: block $$...$$
	text = blockDollarPattern.ReplaceAllStringFunc(text, func(m string) string {
		return reg.add(MathBlock, m[2:len(m)-2])
	})

	// Pass 2: block \[...\]
	text = blockBracketPattern.ReplaceAllStringFunc(text, func(m string) string {
		return reg.add(MathBlock, m[2:len(m)-2])
	})

	// Pass 3: inline $...$ needs lookaround that regexp cannot express,
	// so this is a manual scan.
	text = extractSingleDollar(text, reg)

	// Pass 4: inline \(...\). Classification looks at the trimmed content,
	// so a newline that sits only in the outer whitespace does not promote
	// the span to a block.
	text = inlineParenPattern.ReplaceAllStringFunc(text, func(m string) string {
		inner := m[2 : len(m)-2]
		return reg.add(classifyInline(strings.TrimSpace(inner)), inner)
	})

	return text, reg.spans
}

// classifyInline decides the kind for a span extracted through an inline
// delimiter: content holding a newline is logically multi-line and is
// promoted to block so it is not laid out within a line of text.
func classifyInline(content string) MathKind {
	if strings.Contains(content, "\n") {
		return MathBlock
	}
	return MathInline
}

// extractSingleDollar scans for $...$ inline math. The walk steps over
// runes, never splitting a multi-byte character.
//
// A $ opens a span only when the previous rune is neither $ (second half of
// a $$ pair) nor \ (escape), and the next rune is not $ (start of a $$
// pair). The closer is the nearest $ that is itself unescaped and not part
// of a $$ run. An opener with no valid closer is emitted as a literal $ and
// scanning resumes at the next rune.
func extractSingleDollar(text string, reg *spanRegistry) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(runes) {
		if runes[i] != '$' {
			b.WriteRune(runes[i])
			i++
			continue
		}

		prevDollar := i > 0 && runes[i-1] == '$'
		prevEscape := i > 0 && runes[i-1] == '\\'
		nextDollar := i+1 < len(runes) && runes[i+1] == '$'

		if prevDollar || prevEscape || nextDollar {
			b.WriteRune('$')
			i++
			continue
		}

		closed := false
		for j := i + 1; j < len(runes); j++ {
			if runes[j] != '$' || runes[j-1] == '\\' || runes[j-1] == '$' {
				continue
			}
			if j+1 < len(runes) && runes[j+1] == '$' {
				continue
			}
			content := string(runes[i+1 : j])
			b.WriteString(reg.add(classifyInline(content), content))
			i = j + 1
			closed = true
			break
		}

		if !closed {
			// Unterminated opener: degrade to a literal dollar sign.
			b.WriteRune('$')
			i++
		}
	}

	return b.String()
}

// spanRegistry assigns placeholders in strictly increasing extraction order.
// Each extraction run owns its own registry; there is no shared counter, so
// identical inputs always yield identical placeholder sequences.
type spanRegistry struct {
	spans []MathSpan
}

// add trims the content, records the span, and returns its placeholder.
// The index encoded in the token equals the span's position in the list;
// resynthesis works off the list, the readable tag exists for debugging.
func (r *spanRegistry) add(kind MathKind, content string) string {
	placeholder := MathTokenStart + kind.String() + strconv.Itoa(len(r.spans)) + MathTokenEnd
	r.spans = append(r.spans, MathSpan{
		Kind:        kind,
		Content:     strings.TrimSpace(content),
		Placeholder: placeholder,
	})
	return placeholder
}
