package md2pdf

import (
	"context"
	"fmt"

	"github.com/caojiachen1/md2pdf/internal/assets"
	"github.com/caojiachen1/md2pdf/internal/pipeline"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ pipeline.MathExtractor        = (*pipeline.MathExtraction)(nil)
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.MathInjector         = (*pipeline.MathInjection)(nil)
	_ pipeline.DocumentAssembler    = (*pipeline.TemplateAssembler)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pdfConverter                  = (*rodConverter)(nil)
)

// Converter orchestrates the markdown-to-PDF conversion pipeline.
// Create with NewConverter(), use Convert() for conversion, and Close()
// when done (it owns a headless browser).
type Converter struct {
	cfg        converterConfig
	browserBin string
	katex      assets.KatexAssets
	warnings   []string

	mathExtractor pipeline.MathExtractor
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	mathInjector  pipeline.MathInjector
	assembler     pipeline.DocumentAssembler
	cssInjector   pipeline.CSSInjector
	pdfConverter  pdfConverter
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithKatexDir).
// Missing KaTeX assets are not an error: conversion proceeds and math
// appears as raw TeX; the degradation is reported via Warnings().
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout},
		mathExtractor: &pipeline.MathExtraction{},
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		mathInjector:  &pipeline.MathInjection{},
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	// Create the document assembler from the embedded template
	// (if not injected by tests)
	if c.assembler == nil {
		tmplContent, err := assets.LoadTemplate(assets.DocumentTemplateName)
		if err != nil {
			return nil, fmt.Errorf("loading document template: %w", err)
		}
		c.assembler, err = pipeline.NewTemplateAssembler(tmplContent)
		if err != nil {
			return nil, fmt.Errorf("initializing document assembler: %w", err)
		}
	}

	// Load KaTeX from the configured or resolved assets directory.
	katexDir := c.cfg.katexDir
	if katexDir == "" {
		katexDir = assets.ResolveDir()
	}
	katex, err := assets.LoadKatex(katexDir)
	c.katex = katex
	if err != nil {
		c.warnings = append(c.warnings, err.Error())
	}

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout, c.browserBin)
	}

	return c, nil
}

// Warnings returns non-fatal problems found during setup, such as missing
// KaTeX assets. The slice is empty when setup was clean.
func (c *Converter) Warnings() []string {
	return c.warnings
}

// Convert runs the full pipeline and returns the result containing HTML
// and PDF. The context is used for cancellation and timeout. If
// input.HTMLOnly is true, PDF generation is skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	// Extract math spans before anything else touches the source, so no
	// other stage can alter math content bytes.
	mdContent, spans := c.mathExtractor.ExtractMath(ctx, input.Markdown)

	// Preprocess the placeholder-bearing markdown
	mdContent = c.preprocessor.PreprocessMarkdown(ctx, mdContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Convert to an HTML fragment; placeholders pass through goldmark inert
	fragment, err := c.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	// Restore math spans as canonical $$...$$ / $...$ containers
	fragment = c.mathInjector.InjectMath(ctx, fragment, spans)

	// Resolve relative image paths against the source directory
	fragment, err = pipeline.ResolveImagePaths(fragment, input.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolving image paths: %w", err)
	}

	// Assemble the self-contained document
	style := input.Style
	if style == nil {
		style = DefaultStyleSettings()
	}
	style.Normalize()

	title := input.Title
	if title == "" {
		title = "Markdown to PDF"
	}

	doc, err := c.assembler.AssembleDocument(ctx, fragment, pipeline.DocumentData{
		Title:             title,
		StyleCSS:          buildStyleCSS(style),
		KatexCSS:          c.katex.CSS,
		KatexJS:           c.katex.JS,
		KatexAutoRenderJS: c.katex.AutoRenderJS,
	})
	if err != nil {
		return nil, fmt.Errorf("assembling document: %w", err)
	}

	// Layer user CSS on top of the generated styles
	doc = c.cssInjector.InjectCSS(ctx, doc, input.CSS)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result = &Result{HTML: doc, MathSpans: len(spans)}

	// Skip PDF generation if HTMLOnly mode
	if input.HTMLOnly {
		return result, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, doc, &pdfOptions{
		Page:   input.Page,
		Footer: toFooterData(input.Footer),
	})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	result.PDF = pdfBytes

	return result, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// validateInput checks that required fields are present and valid.
func (c *Converter) validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	return nil
}

// toFooterData converts the public Footer type to internal footerData.
func toFooterData(f *Footer) *footerData {
	if f == nil {
		return nil
	}
	return &footerData{
		Position:       f.Position,
		ShowPageNumber: f.ShowPageNumber,
		Date:           f.Date,
		Text:           f.Text,
	}
}
