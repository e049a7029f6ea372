package output

import (
	"fmt"
	"io"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/law-makers/catalog/pkg/models"
)

// markdownRenderer writes a heading and a GFM table per page
type markdownRenderer struct {
	w    io.Writer
	conv *md.Converter
}

func newMarkdownRenderer(w io.Writer) *markdownRenderer {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	return &markdownRenderer{w: w, conv: conv}
}

func (r *markdownRenderer) Begin() error { return nil }
func (r *markdownRenderer) End() error   { return nil }

func (r *markdownRenderer) Page(p *models.PageResult) error {
	if _, err := fmt.Fprintf(r.w, "## %s: %s\n\n", p.Site, p.URL); err != nil {
		return err
	}
	if len(p.Products) == 0 {
		_, err := fmt.Fprintf(r.w, "_No products found (markup: %s)._\n\n", p.Markup)
		return err
	}

	table, err := r.conv.ConvertString(productTable(p.Products))
	if err != nil {
		return fmt.Errorf("failed to render markdown table: %w", err)
	}
	_, err = fmt.Fprintf(r.w, "%s\n\n", table)
	return err
}
