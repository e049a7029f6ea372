package extract

import (
	"fmt"

	"github.com/andybalholm/cascadia"
)

// Layout names the CSS markers that locate each product field inside a
// container. Every selector is matched relative to the container, first match
// wins.
type Layout struct {
	Container      string   `yaml:"container"`
	ImageContainer string   `yaml:"image_container"`
	Image          string   `yaml:"image"`
	HotSale        string   `yaml:"hot_sale"`
	Price          []string `yaml:"price"`
	Currency       string   `yaml:"currency"`
	Discount       string   `yaml:"discount"`
	Link           string   `yaml:"link"`
	NameAndDescr   string   `yaml:"name_and_description"`
}

// DefaultLayout returns the class markers of the styled-components catalog
// the scraper was first written against.
func DefaultLayout() Layout {
	return Layout{
		Container:      "article.sc-brPLxw.klioUI",
		ImageContainer: "div.sc-gmPhUn.pIiLW.imagen-producto.false",
		Image:          "img",
		HotSale:        "div.sc-hknOHE.jxmMoG",
		Price:          []string{"div.sc-ihgnxF.YylJn", "p.sc-bypJrT.bHSdcL"},
		Currency:       "span",
		Discount:       "div.sc-jMakVo.eimOBf",
		Link:           "a.sc-iHbSHJ.fbBSuk",
		NameAndDescr:   "div.sc-bBeLUv.itxppj",
	}
}

// Merge returns l with every empty field taken from base
func (l Layout) Merge(base Layout) Layout {
	pick := func(v, fallback string) string {
		if v != "" {
			return v
		}
		return fallback
	}

	out := Layout{
		Container:      pick(l.Container, base.Container),
		ImageContainer: pick(l.ImageContainer, base.ImageContainer),
		Image:          pick(l.Image, base.Image),
		HotSale:        pick(l.HotSale, base.HotSale),
		Price:          l.Price,
		Currency:       pick(l.Currency, base.Currency),
		Discount:       pick(l.Discount, base.Discount),
		Link:           pick(l.Link, base.Link),
		NameAndDescr:   pick(l.NameAndDescr, base.NameAndDescr),
	}
	if len(out.Price) == 0 {
		out.Price = append([]string(nil), base.Price...)
	}
	return out
}

// Validate compiles every selector in the layout
func (l Layout) Validate() error {
	fields := []struct {
		name string
		sel  string
	}{
		{"container", l.Container},
		{"image_container", l.ImageContainer},
		{"image", l.Image},
		{"hot_sale", l.HotSale},
		{"currency", l.Currency},
		{"discount", l.Discount},
		{"link", l.Link},
		{"name_and_description", l.NameAndDescr},
	}
	for i, p := range l.Price {
		fields = append(fields, struct {
			name string
			sel  string
		}{fmt.Sprintf("price[%d]", i), p})
	}

	for _, f := range fields {
		if f.sel == "" {
			return fmt.Errorf("layout %s selector is empty", f.name)
		}
		if _, err := cascadia.Compile(f.sel); err != nil {
			return fmt.Errorf("layout %s selector %q: %w", f.name, f.sel, err)
		}
	}
	if len(l.Price) == 0 {
		return fmt.Errorf("layout needs at least one price selector")
	}
	return nil
}
