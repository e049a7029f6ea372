// Package extract turns a rendered catalog page into product records.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/catalog/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

var decimalPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// FirstDecimal returns the first digits[.digits] run in text
func FirstDecimal(text string) (string, bool) {
	m := decimalPattern.FindString(text)
	return m, m != ""
}

// ParseMarkup parses serialized page content into a queryable document
func ParseMarkup(markup string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// Extract returns one Product per container in document order. A nil document
// or one without containers yields an empty slice.
func Extract(doc *goquery.Document, layout Layout) []models.Product {
	products := []models.Product{}
	if doc == nil {
		return products
	}

	doc.Find(layout.Container).Each(func(i int, container *goquery.Selection) {
		products = append(products, extractProduct(container, layout))
	})

	log.Debug().
		Str("container", layout.Container).
		Int("products", len(products)).
		Msg("Extracted products")

	return products
}

// ExtractMarkup parses markup and extracts from it; unparseable markup yields
// no products.
func ExtractMarkup(markup string, layout Layout) []models.Product {
	if strings.TrimSpace(markup) == "" {
		return []models.Product{}
	}
	doc, err := ParseMarkup(markup)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse markup")
		return []models.Product{}
	}
	return Extract(doc, layout)
}

func extractProduct(container *goquery.Selection, layout Layout) models.Product {
	p := models.Product{
		ImageURL:           models.NoImage,
		HotSaleLabel:       models.NoHotSale,
		Price:              models.NoPrice,
		Currency:           models.NoCurrency,
		Discount:           models.NoDiscount,
		ProductURL:         models.NoProductURL,
		NameAndDescription: models.NoNameOrDescr,
	}

	img := first(container, layout.ImageContainer).Find(layout.Image).First()
	if src, ok := img.Attr("src"); ok {
		p.ImageURL = src
	}

	if tag := first(container, layout.HotSale); tag.Length() > 0 {
		p.HotSaleLabel = tag.Text()
	}

	if price := firstOf(container, layout.Price); price.Length() > 0 {
		if v, ok := FirstDecimal(strings.TrimSpace(price.Text())); ok {
			p.Price = v
		}
		if cur := first(price, layout.Currency); cur.Length() > 0 {
			p.Currency = strings.TrimSpace(cur.Text())
		}
	}

	if disc := first(container, layout.Discount); disc.Length() > 0 {
		if v, ok := FirstDecimal(disc.Text()); ok {
			p.Discount = v
		}
	}

	if href, ok := first(container, layout.Link).Attr("href"); ok {
		p.ProductURL = href
	}

	if name := first(container, layout.NameAndDescr); name.Length() > 0 {
		p.NameAndDescription = name.Text()
	}

	return p
}

func first(s *goquery.Selection, selector string) *goquery.Selection {
	return s.Find(selector).First()
}

// firstOf tries each selector in order and returns the first non-empty match
func firstOf(s *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if m := first(s, sel); m.Length() > 0 {
			return m
		}
	}
	return s.Slice(0, 0)
}
