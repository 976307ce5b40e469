// Package md2pdf converts Markdown documents with embedded LaTeX math to
// PDF using headless Chrome.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := md2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, md2pdf.Input{
//	    Markdown: "# Euler\n\n$$e^{i\\pi} + 1 = 0$$",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// The result contains both the PDF bytes (result.PDF) and the intermediate
// HTML (result.HTML) for debugging. Use Input.HTMLOnly to skip PDF
// generation and keep only the HTML document.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Math extraction: LaTeX spans ($$...$$, \[...\], $...$, \(...\)) are
//     replaced with opaque placeholders so the markdown parser never sees
//     raw TeX
//  2. Markdown preprocessing (line ending and blank line normalization)
//  3. Markdown to HTML conversion via Goldmark (GFM, footnotes, syntax
//     highlighting)
//  4. Math injection: placeholders are swapped back for KaTeX-ready
//     containers
//  5. Document assembly (HTML5 scaffold, inlined KaTeX, generated styles)
//  6. PDF rendering via headless Chrome (go-rod), waiting for client-side
//     math typesetting to finish
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := md2pdf.NewConverter(
//	    md2pdf.WithTimeout(2 * time.Minute),
//	    md2pdf.WithKatexDir("/opt/md2pdf/assets"),
//	    md2pdf.WithBrowserBin("/usr/bin/chromium"),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.Convert(ctx, md2pdf.Input{
//	    Markdown:  content,
//	    SourceDir: "/path/to/markdown",  // for relative image paths
//	    CSS:       "body { font-size: 14px; }",
//	    Style:     &md2pdf.StyleSettings{FontSize: "large", CJKFont: "yahei"},
//	    Page:      &md2pdf.PageSettings{Size: "a4", Margin: "20mm"},
//	    Footer:    &md2pdf.Footer{ShowPageNumber: true},
//	})
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple browser
// instances:
//
//	pool := md2pdf.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # KaTeX Assets
//
// Math typesetting uses a local KaTeX distribution loaded from an assets
// directory (next to the executable by default, or set via WithKatexDir).
// When the distribution is missing the converter still works; math appears
// as raw TeX and the problem is reported via Warnings().
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set CI=true to disable the Chrome
// sandbox. Use ROD_BROWSER_BIN or WithBrowserBin to specify a custom Chrome
// binary; an explicit binary also disables the sandbox.
package md2pdf
