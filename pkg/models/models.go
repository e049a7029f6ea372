package models

import "time"

// Sentinel defaults substituted when a product field marker is absent
const (
	NoImage       = "No image found"
	NoHotSale     = "No hot sale tag found"
	NoPrice       = "No price found"
	NoCurrency    = "No currency found"
	NoDiscount    = "No discount found"
	NoProductURL  = ""
	NoNameOrDescr = "No product name or description found"
)

// Product is one record extracted from a product container.
//
// Price and Discount hold either the first decimal number found in the
// marked text or their sentinel default, so callers must not assume they parse
// as numbers.
type Product struct {
	ImageURL           string `json:"image_url"`
	HotSaleLabel       string `json:"hotsale_label"`
	Price              string `json:"price"`
	Currency           string `json:"currency"`
	Discount           string `json:"discount"`
	ProductURL         string `json:"product_url"`
	NameAndDescription string `json:"name_and_description"`
}

// MarkupStatus tells an empty page apart from a failed read
type MarkupStatus string

const (
	MarkupOK     MarkupStatus = "ok"
	MarkupEmpty  MarkupStatus = "empty"
	MarkupFailed MarkupStatus = "failed"
)

// Markup is the result of reading the serialized page content
type Markup struct {
	HTML string
	Err  error
}

// Status classifies the read
func (m Markup) Status() MarkupStatus {
	switch {
	case m.Err != nil:
		return MarkupFailed
	case m.HTML == "":
		return MarkupEmpty
	default:
		return MarkupOK
	}
}

// ScrollSummary reports how the scroll-to-stable loop ended
type ScrollSummary struct {
	Outcome string `json:"outcome"`
	Scrolls int    `json:"scrolls"`
	Height  int64  `json:"height"`
}

// PageResult is everything produced for one scraped URL
type PageResult struct {
	PageID      string        `json:"page_id"`
	Site        string        `json:"site"`
	URL         string        `json:"url"`
	StatusCode  int           `json:"status_code,omitempty"`
	MarkerFound bool          `json:"marker_found"`
	Scroll      ScrollSummary `json:"scroll"`
	Markup      MarkupStatus  `json:"markup"`
	MarkupError string        `json:"markup_error,omitempty"`
	Products    []Product     `json:"products"`
	Cached      bool          `json:"cached,omitempty"`
	FetchedAt   time.Time     `json:"fetched_at"`
	DurationMS  int64         `json:"duration_ms"`
}
