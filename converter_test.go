package md2pdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/caojiachen1/md2pdf/internal/pipeline"
)

// fakePDFConverter records the last call and returns canned output.
type fakePDFConverter struct {
	pdf      []byte
	err      error
	lastHTML string
	lastOpts *pdfOptions
	closed   bool
}

func (f *fakePDFConverter) ToPDF(_ context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	f.lastHTML = htmlContent
	f.lastOpts = opts
	return f.pdf, f.err
}

func (f *fakePDFConverter) Close() error {
	f.closed = true
	return nil
}

// panicExtractor triggers the Convert recover path.
type panicExtractor struct{}

func (panicExtractor) ExtractMath(context.Context, string) (string, []pipeline.MathSpan) {
	panic("extractor exploded")
}

func newTestConverter(t *testing.T, fake *fakePDFConverter) *Converter {
	t.Helper()

	c, err := NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	c.pdfConverter = fake
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return c
}

func TestConvert_HTMLOnly(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, &fakePDFConverter{})
	res, err := c.Convert(context.Background(), Input{
		Markdown: "# Euler\n\nInline $e^{i\\pi} = -1$ and a block:\n\n$$\\int_0^1 x\\,dx$$\n",
		Title:    "Euler",
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if res.PDF != nil {
		t.Errorf("PDF = %d bytes, want nil in HTML-only mode", len(res.PDF))
	}
	if res.MathSpans != 2 {
		t.Errorf("MathSpans = %d, want 2", res.MathSpans)
	}

	wantSubstrings := []string{
		"<title>Euler</title>",
		"<h1>Euler</h1>",
		`<span class="math-inline">$e^{i\pi} = -1$</span>`,
		`<div class="math-block"><span class="katex-display">$$\int_0^1 x\,dx$$</span></div>`,
		"render-complete",
	}
	for _, want := range wantSubstrings {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(res.HTML, "") {
		t.Error("HTML still contains placeholder tokens")
	}
}

func TestConvert_DefaultTitle(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, &fakePDFConverter{})
	res, err := c.Convert(context.Background(), Input{Markdown: "hello", HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(res.HTML, "<title>Markdown to PDF</title>") {
		t.Error("HTML missing default title")
	}
}

func TestConvert_UserCSSInjected(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, &fakePDFConverter{})
	res, err := c.Convert(context.Background(), Input{
		Markdown: "hello",
		CSS:      "body { color: teal; }",
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(res.HTML, "color: teal;") {
		t.Error("HTML missing injected user CSS")
	}
}

func TestConvert_PDF(t *testing.T) {
	t.Parallel()

	fake := &fakePDFConverter{pdf: []byte("%PDF-fake")}
	c := newTestConverter(t, fake)

	footer := &Footer{Position: "center", ShowPageNumber: true, Text: "draft"}
	page := &PageSettings{Size: "letter", Margin: "1in", Landscape: true}
	res, err := c.Convert(context.Background(), Input{
		Markdown: "# Doc",
		Page:     page,
		Footer:   footer,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if string(res.PDF) != "%PDF-fake" {
		t.Errorf("PDF = %q, want %q", res.PDF, "%PDF-fake")
	}
	if fake.lastHTML != res.HTML {
		t.Error("PDF converter received different HTML than the result")
	}
	if fake.lastOpts.Page != page {
		t.Error("page settings not forwarded to the PDF converter")
	}
	got := fake.lastOpts.Footer
	if got == nil || got.Position != "center" || !got.ShowPageNumber || got.Text != "draft" {
		t.Errorf("footer forwarded as %+v", got)
	}
}

func TestConvert_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{
			name:    "empty markdown",
			input:   Input{},
			wantErr: ErrEmptyMarkdown,
		},
		{
			name:    "bad page size",
			input:   Input{Markdown: "x", Page: &PageSettings{Size: "tabloid"}},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "bad footer position",
			input:   Input{Markdown: "x", Footer: &Footer{Position: "top"}},
			wantErr: ErrInvalidFooterPosition,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestConverter(t, &fakePDFConverter{})
			_, err := c.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvert_PDFErrorPropagates(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("browser fell over")
	c := newTestConverter(t, &fakePDFConverter{err: wantErr})

	_, err := c.Convert(context.Background(), Input{Markdown: "x"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Convert() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestConvert_RecoversPanic(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, &fakePDFConverter{})
	c.mathExtractor = panicExtractor{}

	_, err := c.Convert(context.Background(), Input{Markdown: "x", HTMLOnly: true})
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("Convert() error = %v, want internal error", err)
	}
}

func TestConvert_CanceledContext(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, &fakePDFConverter{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Convert(ctx, Input{Markdown: "x", HTMLOnly: true})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

func TestConverterClose(t *testing.T) {
	t.Parallel()

	fake := &fakePDFConverter{}
	c, err := NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	c.pdfConverter = fake

	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !fake.closed {
		t.Error("Close() did not close the PDF converter")
	}
}
