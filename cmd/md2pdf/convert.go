package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md2pdf "github.com/caojiachen1/md2pdf"
	"github.com/caojiachen1/md2pdf/internal/config"
	"github.com/caojiachen1/md2pdf/internal/dateutil"
	"github.com/caojiachen1/md2pdf/internal/hints"
	"github.com/caojiachen1/md2pdf/internal/pdfutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadCSS            = errors.New("failed to read CSS file")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrMergeNeedsPDF      = errors.New("--merge requires pdf output format")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Converter is the interface for a pooled converter.
type Converter interface {
	Convert(ctx context.Context, input md2pdf.Input) (*md2pdf.Result, error)
	Warnings() []string
}

// Compile-time interface implementation check.
var _ Converter = (*md2pdf.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (Converter, error)
	Release(Converter)
	Size() int
}

// conversionParams groups parameters shared across the batch.
type conversionParams struct {
	css       string
	style     *md2pdf.StyleSettings
	page      *md2pdf.PageSettings
	footer    *md2pdf.Footer
	format    string
	assetsDir string
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, cfg *config.Config, pool Pool, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	format := cfg.Output.Format
	if format == "" {
		format = config.FormatPDF
	}
	if flags.merge != "" && format != config.FormatPDF {
		return ErrMergeNeedsPDF
	}

	// Resolve "auto" footer date once for the entire batch
	if cfg.Footer.Enabled && cfg.Footer.Date != "" {
		resolved, err := dateutil.ResolveDate(cfg.Footer.Date, env.Now())
		if err != nil {
			return fmt.Errorf("invalid footer date: %w", err)
		}
		cfg.Footer.Date = resolved
	}

	// Resolve input path
	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	// Resolve output directory
	outputDir := resolveOutputDir(flags.output, cfg)

	// Discover files to convert
	files, err := discoverFiles(inputPath, outputDir, format)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no markdown files found in %s", inputPath)
	}

	// Read extra CSS if given
	cssContent, err := readCSSFile(flags.css)
	if err != nil {
		return err
	}

	assetsDir := cfg.Assets.Dir
	if assetsDir == "" {
		assetsDir = "assets"
	}

	params := &conversionParams{
		css:       cssContent,
		style:     buildStyleSettings(cfg),
		page:      buildPageSettings(cfg),
		footer:    buildFooterSettings(cfg),
		format:    format,
		assetsDir: assetsDir,
	}

	// Convert files
	results := convertBatch(ctx, pool, files, params, env)

	// Print results
	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}

	// Validate outputs in verbose mode, PDF only
	if flags.common.verbose && format == config.FormatPDF {
		for _, r := range results {
			if err := pdfutil.Validate(r.OutputPath); err != nil {
				return err
			}
			fmt.Fprintf(env.Stderr, "Validated %s\n", r.OutputPath)
		}
	}

	// Merge batch output into a single PDF
	if flags.merge != "" {
		outputs := make([]string, len(results))
		for i, r := range results {
			outputs[i] = r.OutputPath
		}
		if err := pdfutil.Merge(outputs, flags.merge); err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Merged %d files into %s\n", len(outputs), flags.merge)
		}
	}

	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.format != "" {
		cfg.Output.Format = strings.ToLower(flags.format)
	}

	// Style flags
	if flags.style.fontSize != "" {
		cfg.Style.FontSize = flags.style.fontSize
	}
	if flags.style.cjkFont != "" {
		cfg.Style.CJKFont = flags.style.cjkFont
	}
	if flags.style.fontWeight != "" {
		cfg.Style.FontWeight = flags.style.fontWeight
	}
	if flags.style.lineSpacing != "" {
		cfg.Style.LineSpacing = flags.style.lineSpacing
	}
	if flags.style.paragraphSpacing != "" {
		cfg.Style.ParagraphSpacing = flags.style.paragraphSpacing
	}
	if flags.style.mathSpacing != "" {
		cfg.Style.MathSpacing = flags.style.mathSpacing
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = strings.ToLower(flags.page.size)
	}
	if flags.page.margin != "" {
		cfg.Page.Margin = flags.page.margin
	}
	if flags.page.landscape {
		cfg.Page.Landscape = true
	}

	// Footer flags
	if flags.footer.position != "" {
		cfg.Footer.Position = flags.footer.position
		cfg.Footer.Enabled = true
	}
	if flags.footer.text != "" {
		cfg.Footer.Text = flags.footer.text
		cfg.Footer.Enabled = true
	}
	if flags.footer.pageNumber {
		cfg.Footer.ShowPageNumber = true
		cfg.Footer.Enabled = true
	}
	if flags.footer.date != "" {
		cfg.Footer.Date = flags.footer.date
		cfg.Footer.Enabled = true
	}
	if flags.footer.disabled {
		cfg.Footer.Enabled = false
	}

	// Asset and browser flags
	if flags.assetsDir != "" {
		cfg.Assets.Dir = flags.assetsDir
	}
	if flags.browserBin != "" {
		cfg.Browser.Bin = flags.browserBin
	}
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// readCSSFile reads an optional extra CSS file.
func readCSSFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > md2pdf.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, md2pdf.MaxPoolSize)
	}
	return nil
}

// buildStyleSettings creates md2pdf.StyleSettings from config.
func buildStyleSettings(cfg *config.Config) *md2pdf.StyleSettings {
	return &md2pdf.StyleSettings{
		FontSize:         cfg.Style.FontSize,
		CJKFont:          cfg.Style.CJKFont,
		FontWeight:       cfg.Style.FontWeight,
		LineSpacing:      cfg.Style.LineSpacing,
		ParagraphSpacing: cfg.Style.ParagraphSpacing,
		MathSpacing:      cfg.Style.MathSpacing,
	}
}

// buildPageSettings creates md2pdf.PageSettings from config.
func buildPageSettings(cfg *config.Config) *md2pdf.PageSettings {
	ps := md2pdf.DefaultPageSettings()
	if cfg.Page.Size != "" {
		ps.Size = cfg.Page.Size
	}
	if cfg.Page.Margin != "" {
		ps.Margin = cfg.Page.Margin
	}
	ps.Landscape = cfg.Page.Landscape
	return ps
}

// buildFooterSettings creates md2pdf.Footer from config, nil when disabled.
func buildFooterSettings(cfg *config.Config) *md2pdf.Footer {
	if !cfg.Footer.Enabled {
		return nil
	}
	return &md2pdf.Footer{
		Position:       cfg.Footer.Position,
		ShowPageNumber: cfg.Footer.ShowPageNumber,
		Date:           cfg.Footer.Date,
		Text:           cfg.Footer.Text,
	}
}

// documentTitle derives the document title from the input filename.
func documentTitle(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// wrapBrowserError appends actionable hints to browser failures.
func wrapBrowserError(err error) error {
	if errors.Is(err, md2pdf.ErrBrowserConnect) {
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, md2pdf.ErrPageLoad) {
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	}
	return err
}
