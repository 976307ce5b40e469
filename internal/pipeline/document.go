package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrDocumentAssembly indicates the document template failed to render.
var ErrDocumentAssembly = errors.New("document assembly failed")

// DocumentData carries everything the document template needs besides the
// rendered body: the page title, generated style CSS, and the KaTeX assets
// inlined into the page so it renders without network access.
type DocumentData struct {
	Title             string
	StyleCSS          string
	KatexCSS          string
	KatexJS           string
	KatexAutoRenderJS string
}

// DocumentAssembler defines the contract for wrapping an HTML fragment in a
// complete, self-contained HTML5 document.
type DocumentAssembler interface {
	AssembleDocument(ctx context.Context, fragment string, data DocumentData) (string, error)
}

// TemplateAssembler renders the document template. The template carries the
// KaTeX auto-render bootstrap, which typesets the two canonical delimiter
// pairs and then appends a hidden #render-complete sentinel element; the PDF
// renderer waits for that sentinel before printing.
type TemplateAssembler struct {
	tmpl *template.Template
}

// NewTemplateAssembler parses the given template content.
func NewTemplateAssembler(tmplContent string) (*TemplateAssembler, error) {
	tmpl, err := template.New("document").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing template: %v", ErrDocumentAssembly, err)
	}
	return &TemplateAssembler{tmpl: tmpl}, nil
}

// docTemplateData is the typed view handed to html/template. The typed CSS,
// JS, and HTML fields tell the template engine the content is trusted in its
// context, so KaTeX sources and the rendered body pass through unescaped.
type docTemplateData struct {
	Title             string
	StyleCSS          template.CSS
	KatexCSS          template.CSS
	KatexJS           template.JS
	KatexAutoRenderJS template.JS
	Body              template.HTML
}

// AssembleDocument wraps fragment in the full document.
func (a *TemplateAssembler) AssembleDocument(ctx context.Context, fragment string, data DocumentData) (string, error) {
	// Check context before rendering
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	err := a.tmpl.Execute(&b, docTemplateData{
		Title:             data.Title,
		StyleCSS:          template.CSS(data.StyleCSS),
		KatexCSS:          template.CSS(data.KatexCSS),
		KatexJS:           template.JS(data.KatexJS),
		KatexAutoRenderJS: template.JS(data.KatexAutoRenderJS),
		Body:              template.HTML(fragment),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentAssembly, err)
	}
	return b.String(), nil
}
