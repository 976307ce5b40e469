package md2pdf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// DefaultMargin is applied when no margin is configured.
const DefaultMargin = "0mm"

// paperDimensions maps page sizes to width x height in inches.
var paperDimensions = map[string][2]float64{
	PageSizeA4:     {8.27, 11.69},
	PageSizeLetter: {8.5, 11},
	PageSizeLegal:  {8.5, 14},
}

// cssLengthPattern accepts a number with an optional CSS length unit.
var cssLengthPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(mm|cm|in|px)?$`)

// Input contains conversion parameters.
type Input struct {
	Markdown  string         // Markdown content (required)
	Title     string         // Document title (default: "Markdown to PDF")
	SourceDir string         // Directory for resolving relative image paths (optional)
	CSS       string         // Custom CSS layered on generated styles (optional)
	Style     *StyleSettings // Typography settings (optional, nil = defaults)
	Page      *PageSettings  // Page settings (optional, nil = defaults)
	Footer    *Footer        // Footer config (optional, nil = no footer)
	HTMLOnly  bool           // Skip PDF generation, return HTML only
}

// Result holds the output of one conversion.
type Result struct {
	HTML      string // Assembled HTML document
	PDF       []byte // PDF bytes (nil when HTMLOnly)
	MathSpans int    // Number of math spans extracted from the source
}

// StyleSettings selects typography for the generated document. Every field
// accepts either a preset name or an explicit CSS value; bare numbers get a
// default unit appended (see Normalize).
type StyleSettings struct {
	FontSize         string // small|medium|large|xlarge or e.g. "14px"
	CJKFont          string // simsun|simhei|simkai|fangsong|yahei|auto
	FontWeight       string // light|normal|medium|semibold|bold|black or "400"
	LineSpacing      string // tight|normal|loose|relaxed or "1.6"
	ParagraphSpacing string // tight|normal|loose|relaxed or "1em"
	MathSpacing      string // tight|normal|loose|relaxed or "20px"
}

// DefaultStyleSettings returns the settings used when Input.Style is nil.
func DefaultStyleSettings() *StyleSettings {
	return &StyleSettings{
		FontSize:         "medium",
		CJKFont:          "simsun",
		FontWeight:       "medium",
		LineSpacing:      "normal",
		ParagraphSpacing: "tight",
		MathSpacing:      "tight",
	}
}

// Normalize appends default units to bare numeric values, so "14" becomes
// "14px" for fontSize and "1.5" stays unitless for lineSpacing. Preset
// names pass through untouched.
func (s *StyleSettings) Normalize() {
	s.FontSize = normalizeWithUnit(s.FontSize, "px")
	s.ParagraphSpacing = normalizeWithUnit(s.ParagraphSpacing, "em")
	s.MathSpacing = normalizeWithUnit(s.MathSpacing, "px")
}

// normalizeWithUnit appends unit to a bare numeric value.
func normalizeWithUnit(value, unit string) string {
	trimmed := strings.TrimSpace(value)
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return trimmed + unit
	}
	return trimmed
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size      string // "a4", "letter", "legal" (default: "a4")
	Margin    string // CSS length applied to all sides: "20mm", "1in" (default: "0mm")
	Landscape bool   // Landscape orientation
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:   PageSizeA4,
		Margin: DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := paperDimensions[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if p.Margin != "" && !cssLengthPattern.MatchString(strings.TrimSpace(p.Margin)) {
		return fmt.Errorf("%w: %q (use a number with mm, cm, in, or px)", ErrInvalidMargin, p.Margin)
	}

	return nil
}

// MarginInches converts the margin to inches for Chrome's print API.
// Unitless values are read as millimeters.
func (p *PageSettings) MarginInches() float64 {
	margin := DefaultMargin
	if p != nil && p.Margin != "" {
		margin = p.Margin
	}
	return cssLengthToInches(margin)
}

// cssLengthToInches parses a CSS length ("20mm", "1in", "0.5cm", "96px")
// to inches. Unparseable values fall back to 20mm.
func cssLengthToInches(s string) float64 {
	s = strings.TrimSpace(s)

	parse := func(v string, fallback float64) float64 {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fallback
		}
		return f
	}

	switch {
	case strings.HasSuffix(s, "mm"):
		return parse(strings.TrimSuffix(s, "mm"), 20.0) / 25.4
	case strings.HasSuffix(s, "cm"):
		return parse(strings.TrimSuffix(s, "cm"), 2.0) / 2.54
	case strings.HasSuffix(s, "in"):
		return parse(strings.TrimSuffix(s, "in"), 0.787)
	case strings.HasSuffix(s, "px"):
		return parse(strings.TrimSuffix(s, "px"), 0.0) / 96.0
	default:
		return parse(s, 20.0) / 25.4
	}
}

// Footer configures the PDF footer.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Date           string
	Text           string
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout  time.Duration
	katexDir string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 60 * time.Second

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithKatexDir overrides the assets directory KaTeX is loaded from.
// The directory must contain a katex/ subdirectory with the KaTeX
// distribution. Default: an assets directory next to the executable,
// falling back to CWD/assets.
func WithKatexDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.katexDir = dir
	}
}

// WithBrowserBin sets an explicit Chrome/Chromium binary for PDF rendering.
// Default: rod resolves a browser itself (ROD_BROWSER_BIN or a managed
// download).
func WithBrowserBin(bin string) Option {
	return func(c *Converter) {
		c.browserBin = bin
	}
}
