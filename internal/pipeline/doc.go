// Package pipeline implements the Markdown-to-HTML conversion pipeline.
//
// The stages run in a fixed order, each behind its own interface:
//   - Math extraction: TeX math spans are replaced by inert placeholder
//     tokens so Markdown parsing never sees math delimiter syntax
//   - Markdown preprocessing (line normalization, blank-line compression)
//   - Markdown to HTML fragment conversion via Goldmark
//   - Math injection: placeholders are replaced by math containers carrying
//     canonical $$...$$ / $...$ delimiters for the client-side typesetter
//   - Relative path rewriting for local images
//   - Document assembly (full HTML5 page with styles and KaTeX assets)
//   - CSS injection for user-supplied styles
//
// PDF generation is handled separately by the root md2pdf package using
// headless Chrome (go-rod). This separation keeps the pipeline focused on
// document structure and content, while PDF rendering handles page layout,
// margins, and browser-based rendering concerns.
package pipeline
