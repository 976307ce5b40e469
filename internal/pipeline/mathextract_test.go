package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/caojiachen1/md2pdf/internal/pipeline"
)

func TestExtractMath_NoDelimiters(t *testing.T) {
	t.Parallel()

	extractor := &pipeline.MathExtraction{}

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "plain text",
			input: "# Heading\n\nA paragraph with no math at all.",
		},
		{
			name:  "empty string",
			input: "",
		},
		{
			name:  "code fence without math",
			input: "```go\nfmt.Println(\"hello\")\n```",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, spans := extractor.ExtractMath(context.Background(), tt.input)
			if got != tt.input {
				t.Errorf("ExtractMath() = %q, want input unchanged %q", got, tt.input)
			}
			if len(spans) != 0 {
				t.Errorf("ExtractMath() spans = %d, want 0", len(spans))
			}
		})
	}
}

func TestExtractMath_Delimiters(t *testing.T) {
	t.Parallel()

	extractor := &pipeline.MathExtraction{}

	tests := []struct {
		name        string
		input       string
		wantKind    pipeline.MathKind
		wantContent string
	}{
		{
			name:        "block double dollar",
			input:       "before $$E = mc^2$$ after",
			wantKind:    pipeline.MathBlock,
			wantContent: "E = mc^2",
		},
		{
			name:        "block bracket",
			input:       `before \[\int_0^1 x\,dx\] after`,
			wantKind:    pipeline.MathBlock,
			wantContent: `\int_0^1 x\,dx`,
		},
		{
			name:        "inline single dollar",
			input:       "a $x^2$ b",
			wantKind:    pipeline.MathInline,
			wantContent: "x^2",
		},
		{
			name:        "inline paren",
			input:       `a \(x^2\) b`,
			wantKind:    pipeline.MathInline,
			wantContent: "x^2",
		},
		{
			name:        "content trimmed",
			input:       "a $ x^2 $ b",
			wantKind:    pipeline.MathInline,
			wantContent: "x^2",
		},
		{
			name:        "multiline block",
			input:       "$$\n\\begin{aligned}\na &= b \\\\\n\\end{aligned}\n$$",
			wantKind:    pipeline.MathBlock,
			wantContent: "\\begin{aligned}\na &= b \\\\\n\\end{aligned}",
		},
		{
			name:        "inline dollar with newline promoted to block",
			input:       "text $a +\nb$ text",
			wantKind:    pipeline.MathBlock,
			wantContent: "a +\nb",
		},
		{
			name:        "inline paren with newline promoted to block",
			input:       "text \\(a +\nb\\) text",
			wantKind:    pipeline.MathBlock,
			wantContent: "a +\nb",
		},
		{
			name:        "paren newline in trailing whitespace stays inline",
			input:       "text \\(a \n\\) text",
			wantKind:    pipeline.MathInline,
			wantContent: "a",
		},
		{
			name:        "paren newline in leading whitespace stays inline",
			input:       "text \\( \na\\) text",
			wantKind:    pipeline.MathInline,
			wantContent: "a",
		},
		{
			name:        "dollar newline in trailing whitespace promoted to block",
			input:       "text $a \n$ text",
			wantKind:    pipeline.MathBlock,
			wantContent: "a",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, spans := extractor.ExtractMath(context.Background(), tt.input)
			if len(spans) != 1 {
				t.Fatalf("ExtractMath() spans = %d, want 1", len(spans))
			}

			span := spans[0]
			if span.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", span.Kind, tt.wantKind)
			}
			if span.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", span.Content, tt.wantContent)
			}
			if !strings.Contains(got, span.Placeholder) {
				t.Errorf("output %q does not contain placeholder %q", got, span.Placeholder)
			}
			if strings.Contains(got, tt.wantContent) && tt.wantContent != "" {
				t.Errorf("output %q still contains math content %q", got, tt.wantContent)
			}
		})
	}
}

func TestExtractMath_EscapedDollar(t *testing.T) {
	t.Parallel()

	extractor := &pipeline.MathExtraction{}

	input := `The price is \$5 and \$10.`
	got, spans := extractor.ExtractMath(context.Background(), input)

	if got != input {
		t.Errorf("ExtractMath() = %q, want unchanged %q", got, input)
	}
	if len(spans) != 0 {
		t.Errorf("spans = %d, want 0 (escaped dollars are literal)", len(spans))
	}
}

func TestExtractMath_Precedence(t *testing.T) {
	t.Parallel()

	extractor := &pipeline.MathExtraction{}

	// Block forms are consumed before inline scanning.
	got, spans := extractor.ExtractMath(context.Background(), "$$ x $$ then $y$")

	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Kind != pipeline.MathBlock || spans[0].Content != "x" {
		t.Errorf("spans[0] = {%v %q}, want {MathBlock \"x\"}", spans[0].Kind, spans[0].Content)
	}
	if spans[1].Kind != pipeline.MathInline || spans[1].Content != "y" {
		t.Errorf("spans[1] = {%v %q}, want {MathInline \"y\"}", spans[1].Kind, spans[1].Content)
	}
	if strings.Contains(got, "$") {
		t.Errorf("output %q still contains a dollar sign", got)
	}
}

func TestExtractMath_Unterminated(t *testing.T) {
	t.Parallel()

	extractor := &pipeline.MathExtraction{}

	tests := []struct {
		name      string
		input     string
		wantSpans int
	}{
		{
			name:      "lone opener stays literal",
			input:     "the cost is $20 total",
			wantSpans: 0,
		},
		{
			name:      "opener at end of input",
			input:     "trailing $",
			wantSpans: 0,
		},
		{
			name:      "valid span then lone opener",
			input:     "$a$ and then $",
			wantSpans: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, spans := extractor.ExtractMath(context.Background(), tt.input)
			if len(spans) != tt.wantSpans {
				t.Errorf("spans = %d, want %d", len(spans), tt.wantSpans)
			}
			if tt.wantSpans == 0 && got != tt.input {
				t.Errorf("ExtractMath() = %q, want unchanged %q", got, tt.input)
			}
		})
	}
}

func TestExtractMath_AdjacentSpans(t *testing.T) {
	t.Parallel()

	extractor := &pipeline.MathExtraction{}

	// The first unescaped single $ closes the span; the rest degrades.
	got, spans := extractor.ExtractMath(context.Background(), "$a $ b$")

	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Content != "a" {
		t.Errorf("Content = %q, want %q", spans[0].Content, "a")
	}
	if !strings.HasSuffix(got, " b$") {
		t.Errorf("ExtractMath() = %q, want trailing %q preserved", got, " b$")
	}
}

func TestExtractMath_Deterministic(t *testing.T) {
	t.Parallel()

	extractor := &pipeline.MathExtraction{}
	input := "intro $a$ middle $$b$$ and \\(c\\) plus \\[d\\] outro"

	text1, spans1 := extractor.ExtractMath(context.Background(), input)
	text2, spans2 := extractor.ExtractMath(context.Background(), input)

	if text1 != text2 {
		t.Errorf("outputs differ:\n%q\n%q", text1, text2)
	}
	if len(spans1) != len(spans2) {
		t.Fatalf("span counts differ: %d vs %d", len(spans1), len(spans2))
	}
	for i := range spans1 {
		if spans1[i] != spans2[i] {
			t.Errorf("spans[%d] differ: %+v vs %+v", i, spans1[i], spans2[i])
		}
	}
}

func TestExtractMath_PlaceholderFormat(t *testing.T) {
	t.Parallel()

	extractor := &pipeline.MathExtraction{}

	_, spans := extractor.ExtractMath(context.Background(), "$$a$$ then $b$")

	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}

	wants := []string{
		pipeline.MathTokenStart + "MATHBLOCK0" + pipeline.MathTokenEnd,
		pipeline.MathTokenStart + "MATHINLINE1" + pipeline.MathTokenEnd,
	}
	for i, want := range wants {
		if spans[i].Placeholder != want {
			t.Errorf("spans[%d].Placeholder = %q, want %q", i, spans[i].Placeholder, want)
		}
	}
}

func TestExtractMath_UnicodeContent(t *testing.T) {
	t.Parallel()

	extractor := &pipeline.MathExtraction{}

	input := "中文前 $\\alpha + \\beta$ 中文后"
	got, spans := extractor.ExtractMath(context.Background(), input)

	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Content != "\\alpha + \\beta" {
		t.Errorf("Content = %q", spans[0].Content)
	}
	if !strings.HasPrefix(got, "中文前 ") || !strings.HasSuffix(got, " 中文后") {
		t.Errorf("surrounding text corrupted: %q", got)
	}
}

func TestExtractMath_CanceledContext(t *testing.T) {
	t.Parallel()

	extractor := &pipeline.MathExtraction{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "$x$"
	got, spans := extractor.ExtractMath(ctx, input)

	if got != input {
		t.Errorf("ExtractMath() = %q, want unchanged on canceled context", got)
	}
	if spans != nil {
		t.Errorf("spans = %v, want nil", spans)
	}
}
