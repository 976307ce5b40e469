package assets

import (
	"embed"
	"errors"
	"fmt"
)

//go:embed templates/*
var templates embed.FS

// ErrTemplateNotFound indicates a requested embedded template does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// DocumentTemplateName is the template used to assemble the final HTML page.
const DocumentTemplateName = "document"

// LoadTemplate loads an embedded HTML template by name.
// The name should not include the .html extension.
func LoadTemplate(name string) (string, error) {
	content, err := templates.ReadFile("templates/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return string(content), nil
}
