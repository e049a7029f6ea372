package extract

import (
	"strings"
	"testing"

	"github.com/law-makers/catalog/pkg/models"
)

const fullCard = `
<article class="sc-brPLxw klioUI">
	<div class="sc-gmPhUn pIiLW imagen-producto false"><img src="https://cdn.example.com/p1.jpg"></div>
	<div class="sc-hknOHE jxmMoG">HOT SALE</div>
	<div class="sc-ihgnxF YylJn">$ 1234.50 <span> ARS </span></div>
	<div class="sc-jMakVo eimOBf">25% OFF</div>
	<a class="sc-iHbSHJ fbBSuk" href="/producto/remera-1">ver</a>
	<div class="sc-bBeLUv itxppj">Remera lisa algodón</div>
</article>`

func page(cards ...string) string {
	return "<!DOCTYPE html><html><head><title>Catalog</title></head><body><main>" +
		strings.Join(cards, "\n") + "</main></body></html>"
}

func mustExtract(t *testing.T, markup string) []models.Product {
	t.Helper()
	doc, err := ParseMarkup(markup)
	if err != nil {
		t.Fatalf("ParseMarkup failed: %v", err)
	}
	return Extract(doc, DefaultLayout())
}

func TestExtract_FullyPopulated(t *testing.T) {
	products := mustExtract(t, page(fullCard))

	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(products))
	}

	want := models.Product{
		ImageURL:           "https://cdn.example.com/p1.jpg",
		HotSaleLabel:       "HOT SALE",
		Price:              "1234.50",
		Currency:           "ARS",
		Discount:           "25",
		ProductURL:         "/producto/remera-1",
		NameAndDescription: "Remera lisa algodón",
	}
	if products[0] != want {
		t.Errorf("Unexpected product:\n got %+v\nwant %+v", products[0], want)
	}
}

func TestExtract_MissingFieldIndependence(t *testing.T) {
	tests := []struct {
		name   string
		remove string
		check  func(p models.Product) bool
	}{
		{"image", `<div class="sc-gmPhUn pIiLW imagen-producto false"><img src="https://cdn.example.com/p1.jpg"></div>`,
			func(p models.Product) bool { return p.ImageURL == models.NoImage }},
		{"hot sale", `<div class="sc-hknOHE jxmMoG">HOT SALE</div>`,
			func(p models.Product) bool { return p.HotSaleLabel == models.NoHotSale }},
		{"discount", `<div class="sc-jMakVo eimOBf">25% OFF</div>`,
			func(p models.Product) bool { return p.Discount == models.NoDiscount }},
		{"link", `<a class="sc-iHbSHJ fbBSuk" href="/producto/remera-1">ver</a>`,
			func(p models.Product) bool { return p.ProductURL == "" }},
		{"name", `<div class="sc-bBeLUv itxppj">Remera lisa algodón</div>`,
			func(p models.Product) bool { return p.NameAndDescription == models.NoNameOrDescr }},
	}

	complete := mustExtract(t, page(fullCard))[0]

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := strings.Replace(fullCard, tt.remove, "", 1)
			if card == fullCard {
				t.Fatalf("fixture does not contain %q", tt.remove)
			}

			products := mustExtract(t, page(card))
			if len(products) != 1 {
				t.Fatalf("Expected 1 product, got %d", len(products))
			}
			p := products[0]
			if !tt.check(p) {
				t.Errorf("Expected %s to fall back to its default, got %+v", tt.name, p)
			}

			// every other field keeps its populated value
			same := 0
			for _, pair := range [][2]string{
				{p.ImageURL, complete.ImageURL},
				{p.HotSaleLabel, complete.HotSaleLabel},
				{p.Price, complete.Price},
				{p.Currency, complete.Currency},
				{p.Discount, complete.Discount},
				{p.ProductURL, complete.ProductURL},
				{p.NameAndDescription, complete.NameAndDescription},
			} {
				if pair[0] == pair[1] {
					same++
				}
			}
			if same != 6 {
				t.Errorf("Expected 6 untouched fields, got %d: %+v", same, p)
			}
		})
	}
}

func TestExtract_MissingPriceNode(t *testing.T) {
	card := strings.Replace(fullCard, `<div class="sc-ihgnxF YylJn">$ 1234.50 <span> ARS </span></div>`, "", 1)
	p := mustExtract(t, page(card))[0]

	if p.Price != models.NoPrice {
		t.Errorf("Expected price default, got %q", p.Price)
	}
	if p.Currency != models.NoCurrency {
		t.Errorf("Expected currency default when price node is absent, got %q", p.Currency)
	}
	if p.NameAndDescription != "Remera lisa algodón" {
		t.Errorf("Expected name to survive, got %q", p.NameAndDescription)
	}
}

func TestExtract_FallbackPriceMarker(t *testing.T) {
	card := strings.Replace(fullCard,
		`<div class="sc-ihgnxF YylJn">$ 1234.50 <span> ARS </span></div>`,
		`<p class="sc-bypJrT bHSdcL">$ 999 <span>USD</span></p>`, 1)
	p := mustExtract(t, page(card))[0]

	if p.Price != "999" {
		t.Errorf("Expected fallback price 999, got %q", p.Price)
	}
	if p.Currency != "USD" {
		t.Errorf("Expected currency USD, got %q", p.Currency)
	}
}

func TestExtract_PriceWithoutDigits(t *testing.T) {
	card := strings.Replace(fullCard, `$ 1234.50 <span> ARS </span>`, `Consultar <span>ARS</span>`, 1)
	p := mustExtract(t, page(card))[0]

	if p.Price != models.NoPrice {
		t.Errorf("Expected price sentinel, got %q", p.Price)
	}
	if p.Currency != "ARS" {
		t.Errorf("Expected currency ARS, got %q", p.Currency)
	}
}

func TestExtract_ImageWithoutSrc(t *testing.T) {
	card := strings.Replace(fullCard, `<img src="https://cdn.example.com/p1.jpg">`, `<img alt="x">`, 1)
	p := mustExtract(t, page(card))[0]
	if p.ImageURL != models.NoImage {
		t.Errorf("Expected image default, got %q", p.ImageURL)
	}
}

func TestExtract_DocumentOrder(t *testing.T) {
	second := strings.Replace(fullCard, "Remera lisa algodón", "Buzo canguro", 1)
	third := strings.Replace(fullCard, "Remera lisa algodón", "Campera", 1)

	products := mustExtract(t, page(fullCard, second, third))
	if len(products) != 3 {
		t.Fatalf("Expected 3 products, got %d", len(products))
	}
	names := []string{products[0].NameAndDescription, products[1].NameAndDescription, products[2].NameAndDescription}
	want := []string{"Remera lisa algodón", "Buzo canguro", "Campera"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("product %d: got %q, want %q", i, names[i], want[i])
		}
	}
}

func TestExtract_EmptyContainer(t *testing.T) {
	products := mustExtract(t, page(`<article class="sc-brPLxw klioUI"></article>`))
	if len(products) != 1 {
		t.Fatalf("Expected 1 record for an empty container, got %d", len(products))
	}
	want := models.Product{
		ImageURL:           models.NoImage,
		HotSaleLabel:       models.NoHotSale,
		Price:              models.NoPrice,
		Currency:           models.NoCurrency,
		Discount:           models.NoDiscount,
		ProductURL:         "",
		NameAndDescription: models.NoNameOrDescr,
	}
	if products[0] != want {
		t.Errorf("got %+v, want %+v", products[0], want)
	}
}

func TestExtract_NoContainers(t *testing.T) {
	products := mustExtract(t, page(`<div class="banner">Sin productos</div>`))
	if products == nil || len(products) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", products)
	}

	if got := Extract(nil, DefaultLayout()); got == nil || len(got) != 0 {
		t.Errorf("Expected empty slice for nil document, got %#v", got)
	}
}

func TestExtractMarkup_EmptyMarkup(t *testing.T) {
	if got := ExtractMarkup("", DefaultLayout()); len(got) != 0 {
		t.Errorf("Expected no products for empty markup, got %d", len(got))
	}
	if got := ExtractMarkup(page(fullCard), DefaultLayout()); len(got) != 1 {
		t.Errorf("Expected 1 product, got %d", len(got))
	}
}

func TestFirstDecimal(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"$ 1234.50 ARS", "1234.50", true},
		{"25% OFF", "25", true},
		{"1.234,56", "1.234", true},
		{"USD 12.", "12", true},
		{"Consultar", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := FirstDecimal(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FirstDecimal(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLayout_MergeAndValidate(t *testing.T) {
	custom := Layout{Container: "li.product", Price: []string{"span.price"}}
	merged := custom.Merge(DefaultLayout())

	if merged.Container != "li.product" {
		t.Errorf("Expected custom container, got %q", merged.Container)
	}
	if merged.Link != DefaultLayout().Link {
		t.Errorf("Expected default link selector, got %q", merged.Link)
	}
	if len(merged.Price) != 1 || merged.Price[0] != "span.price" {
		t.Errorf("Expected custom price selectors, got %v", merged.Price)
	}
	if err := merged.Validate(); err != nil {
		t.Errorf("Expected merged layout to validate: %v", err)
	}

	bad := DefaultLayout()
	bad.HotSale = "div[["
	if err := bad.Validate(); err == nil {
		t.Error("Expected invalid selector to fail validation")
	}
}
