// Package output renders page results to stdout in the supported formats.
package output

import (
	"fmt"
	"io"

	"github.com/law-makers/catalog/pkg/models"
)

// Renderer writes page results as they arrive. Begin is called once before
// the first page and End once after the last.
type Renderer interface {
	Begin() error
	Page(p *models.PageResult) error
	End() error
}

// New returns the renderer for format
func New(format string, w io.Writer) (Renderer, error) {
	switch format {
	case "", "text":
		return &textRenderer{w: w}, nil
	case "json":
		return newJSONRenderer(w), nil
	case "csv":
		return newCSVRenderer(w), nil
	case "markdown", "md":
		return newMarkdownRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
