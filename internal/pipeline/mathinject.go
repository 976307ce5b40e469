package pipeline

import (
	"context"
	"strings"
)

// MathInjector defines the contract for restoring extracted math spans
// into rendered HTML.
type MathInjector interface {
	InjectMath(ctx context.Context, htmlContent string, spans []MathSpan) string
}

// MathInjection replaces each span's placeholder with a math container
// carrying one of the two canonical delimiter pairs. The client-side
// typesetter (KaTeX auto-render) only ever sees $$...$$ for block math and
// $...$ for inline math, regardless of which delimiter form the author used.
type MathInjection struct{}

// InjectMath substitutes exactly one occurrence of each placeholder.
// First-occurrence substitution bounds the damage if user content happens
// to contain a placeholder-shaped literal; a global replace could corrupt
// unrelated text. A placeholder absent from the HTML (e.g. stripped by an
// intermediate stage) is a no-op for that span, never an error.
func (m *MathInjection) InjectMath(ctx context.Context, htmlContent string, spans []MathSpan) string {
	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	for _, span := range spans {
		htmlContent = strings.Replace(htmlContent, span.Placeholder, mathHTML(span), 1)
	}
	return htmlContent
}

// mathHTML wraps a span's content in its container markup. The content is
// emitted verbatim; actual glyph rendering happens client-side.
func mathHTML(span MathSpan) string {
	if span.Kind == MathBlock {
		return `<div class="math-block"><span class="katex-display">$$` + span.Content + `$$</span></div>`
	}
	return `<span class="math-inline">$` + span.Content + `$</span>`
}
