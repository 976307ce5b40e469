// Package config loads YAML configuration for the md2pdf CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caojiachen1/md2pdf/internal/fileutil"
	"github.com/caojiachen1/md2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidFormat   = errors.New("invalid output format")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Output format constants.
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// Field length limits.
const (
	MaxDateLength   = 30  // "2025-12-31" or "December 31, 2025"
	MaxTextLength   = 500 // Footer free-form text
	MaxMarginLength = 10  // "20mm", "0.75in"
)

// Config holds all configuration for document generation.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Style   StyleConfig   `yaml:"style"`
	Page    PageConfig    `yaml:"page"`
	Footer  FooterConfig  `yaml:"footer"`
	Assets  AssetsConfig  `yaml:"assets"`
	Browser BrowserConfig `yaml:"browser"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Format     string `yaml:"format"`     // "pdf" or "html"
}

// StyleConfig defines typography presets or explicit CSS values.
// Each field accepts a preset name or an explicit value; numeric-only
// values get a default unit appended.
type StyleConfig struct {
	FontSize         string `yaml:"fontSize"`         // small|medium|large|xlarge or "14px"
	CJKFont          string `yaml:"cjkFont"`          // simsun|simhei|simkai|fangsong|yahei|auto
	FontWeight       string `yaml:"fontWeight"`       // light..black or "400"
	LineSpacing      string `yaml:"lineSpacing"`      // tight|normal|loose|relaxed or "1.6"
	ParagraphSpacing string `yaml:"paragraphSpacing"` // tight|normal|loose|relaxed or "1em"
	MathSpacing      string `yaml:"mathSpacing"`      // tight|normal|loose|relaxed or "20px"
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size      string `yaml:"size"`      // "a4", "letter", "legal" (default: "a4")
	Margin    string `yaml:"margin"`    // CSS length: "20mm", "1in" (default: "0mm")
	Landscape bool   `yaml:"landscape"` // Landscape orientation
}

// FooterConfig defines page footer options.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // "left", "center", "right" (default: "right")
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Date           string `yaml:"date"` // "auto", "auto:FORMAT", or literal
	Text           string `yaml:"text"` // Optional free-form text
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	Dir string `yaml:"dir"` // KaTeX assets directory (empty = auto-resolve)
}

// BrowserConfig defines headless Chrome options.
type BrowserConfig struct {
	Bin            string `yaml:"bin"`            // Chrome binary path (empty = rod-managed)
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // Per-conversion timeout (0 = default)
}

// DefaultConfig returns a Config matching the CLI's flag defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: FormatPDF},
		Style: StyleConfig{
			FontSize:         "medium",
			CJKFont:          "simsun",
			FontWeight:       "medium",
			LineSpacing:      "normal",
			ParagraphSpacing: "tight",
			MathSpacing:      "tight",
		},
		Page: PageConfig{
			Size:   "a4",
			Margin: "0mm",
		},
		Footer: FooterConfig{Position: "right"},
	}
}

// Validate checks format values and field lengths.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case FormatPDF, FormatHTML:
	default:
		return fmt.Errorf("%w: %q (must be pdf or html)", ErrInvalidFormat, c.Output.Format)
	}

	if err := validateFieldLength("footer.date", c.Footer.Date, MaxDateLength); err != nil {
		return err
	}
	if err := validateFieldLength("footer.text", c.Footer.Text, MaxTextLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.margin", c.Page.Margin, MaxMarginLength); err != nil {
		return err
	}
	return nil
}

// validateFieldLength returns ErrFieldTooLong when value exceeds max bytes.
func validateFieldLength(field, value string, max int) error {
	if len(value) > max {
		return fmt.Errorf("%w: %s is %d bytes (max %d)", ErrFieldTooLong, field, len(value), max)
	}
	return nil
}

// SearchPaths returns the locations probed for a config name, in order.
// A name with path separators is treated as an explicit path.
func SearchPaths(name string) []string {
	if fileutil.IsFilePath(name) {
		return []string{name}
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename += ".yaml"
	}

	paths := []string{filename}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "md2pdf", filename))
	}
	return paths
}

// LoadConfig loads and validates a config by name or path.
// Names are searched in the current directory and ~/.config/md2pdf.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	searched := SearchPaths(nameOrPath)
	var path string
	for _, p := range searched {
		if fileutil.FileExists(p) {
			path = p
			break
		}
	}
	if path == "" {
		return nil, fmt.Errorf("%w: %q (searched: %s)", ErrConfigNotFound, nameOrPath, strings.Join(searched, ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrConfigParse, path, err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
