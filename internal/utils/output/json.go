package output

import (
	"encoding/json"
	"io"

	"github.com/law-makers/catalog/pkg/models"
)

// jsonRenderer writes one JSON object per page, newline delimited
type jsonRenderer struct {
	enc *json.Encoder
}

func newJSONRenderer(w io.Writer) *jsonRenderer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &jsonRenderer{enc: enc}
}

func (r *jsonRenderer) Begin() error { return nil }
func (r *jsonRenderer) End() error   { return nil }

func (r *jsonRenderer) Page(p *models.PageResult) error {
	return r.enc.Encode(p)
}
