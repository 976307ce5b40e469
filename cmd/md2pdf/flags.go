package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// styleFlags holds typography flags. Each accepts a preset name or an
// explicit CSS value.
type styleFlags struct {
	fontSize         string
	cjkFont          string
	fontWeight       string
	lineSpacing      string
	paragraphSpacing string
	mathSpacing      string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size      string
	margin    string
	landscape bool
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	position   string
	text       string
	pageNumber bool
	date       string
	disabled   bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	format     string
	merge      string
	css        string
	assetsDir  string
	browserBin string
	style      styleFlags
	page       pageFlags
	footer     footerFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addStyleFlags adds typography flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.fontSize, "font-size", "", "font size: small, medium, large, xlarge, or e.g. 14px")
	fs.StringVar(&f.cjkFont, "cjk-font", "", "CJK font: simsun, simhei, simkai, fangsong, yahei, auto")
	fs.StringVar(&f.fontWeight, "font-weight", "", "font weight: light..black, or numeric")
	fs.StringVar(&f.lineSpacing, "line-spacing", "", "line spacing: tight, normal, loose, relaxed, or e.g. 1.6")
	fs.StringVar(&f.paragraphSpacing, "paragraph-spacing", "", "paragraph spacing preset or CSS length")
	fs.StringVar(&f.mathSpacing, "math-spacing", "", "math block spacing preset or CSS length")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVarP(&f.margin, "margin", "m", "", "page margin: e.g. 20mm, 1in, 0.5cm")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape orientation")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.BoolVar(&f.pageNumber, "footer-page-number", false, "show page numbers in footer")
	fs.StringVar(&f.date, "footer-date", "", "footer date: \"auto\", \"auto:FORMAT\", or literal")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "conversion timeout (e.g., 30s, 2m)")
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, html")
	fs.StringVar(&f.merge, "merge", "", "merge all generated PDFs into one file")
	fs.StringVar(&f.css, "css", "", "extra CSS file layered on generated styles")
	fs.StringVar(&f.assetsDir, "assets-dir", "", "KaTeX assets directory")
	fs.StringVar(&f.browserBin, "chrome", "", "Chrome/Chromium binary path")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addStyleFlags(fs, &f.style)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)

	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
