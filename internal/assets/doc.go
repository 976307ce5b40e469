// Package assets provides the embedded document template and loads KaTeX
// resources (CSS, fonts, scripts) from a local assets directory.
//
// The document template is compiled into the binary via go:embed. KaTeX is
// loaded from disk at runtime because its font files are large and users may
// ship their own KaTeX version; every font referenced by katex.min.css is
// inlined as a base64 data URL so the assembled document is self-contained.
package assets
