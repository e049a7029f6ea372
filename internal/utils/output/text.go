package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/law-makers/catalog/pkg/models"
)

// textRenderer prints the labelled listing, one block per product
type textRenderer struct {
	w io.Writer
}

func (r *textRenderer) Begin() error { return nil }
func (r *textRenderer) End() error   { return nil }

func (r *textRenderer) Page(p *models.PageResult) error {
	bw := bufio.NewWriter(r.w)

	fmt.Fprintf(bw, "Processing URL: %s\n", p.URL)
	for i, pr := range p.Products {
		fmt.Fprintf(bw, "Product %d:\n", i+1)
		fmt.Fprintf(bw, "  Product image: %s\n", pr.ImageURL)
		fmt.Fprintf(bw, "  Hot sale: %s\n", pr.HotSaleLabel)
		fmt.Fprintf(bw, "  Price: %s\n", pr.Price)
		fmt.Fprintf(bw, "  Currency: %s\n", pr.Currency)
		fmt.Fprintf(bw, "  Discount: %s\n", pr.Discount)
		fmt.Fprintf(bw, "  Product URL: %s\n", pr.ProductURL)
		fmt.Fprintf(bw, "  Product name and description: %s\n", pr.NameAndDescription)
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}
