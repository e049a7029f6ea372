package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/law-makers/catalog/pkg/models"
)

var csvHeader = []string{
	"site", "url", "page_id", "index",
	"image_url", "hotsale_label", "price", "currency", "discount", "product_url", "name_and_description",
}

// csvRenderer writes one row per product
type csvRenderer struct {
	w *csv.Writer
}

func newCSVRenderer(w io.Writer) *csvRenderer {
	return &csvRenderer{w: csv.NewWriter(w)}
}

func (r *csvRenderer) Begin() error {
	if err := r.w.Write(csvHeader); err != nil {
		return err
	}
	r.w.Flush()
	return r.w.Error()
}

func (r *csvRenderer) Page(p *models.PageResult) error {
	for i, pr := range p.Products {
		row := []string{
			p.Site, p.URL, p.PageID, strconv.Itoa(i + 1),
			pr.ImageURL, pr.HotSaleLabel, pr.Price, pr.Currency, pr.Discount, pr.ProductURL, pr.NameAndDescription,
		}
		if err := r.w.Write(row); err != nil {
			return err
		}
	}
	r.w.Flush()
	return r.w.Error()
}

func (r *csvRenderer) End() error {
	r.w.Flush()
	return r.w.Error()
}
