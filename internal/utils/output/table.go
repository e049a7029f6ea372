package output

import (
	"strconv"
	"strings"

	"github.com/law-makers/catalog/pkg/models"
	"golang.org/x/net/html"
)

var tableColumns = []string{"#", "Name and description", "Price", "Currency", "Discount", "Hot sale", "Image", "Link"}

// productTable renders products as an escaped HTML table
func productTable(products []models.Product) string {
	var sb strings.Builder

	sb.WriteString("<table><thead><tr>")
	for _, c := range tableColumns {
		sb.WriteString("<th>" + html.EscapeString(c) + "</th>")
	}
	sb.WriteString("</tr></thead><tbody>")

	for i, p := range products {
		sb.WriteString("<tr>")
		cell(&sb, strconv.Itoa(i+1))
		cell(&sb, p.NameAndDescription)
		cell(&sb, p.Price)
		cell(&sb, p.Currency)
		cell(&sb, p.Discount)
		cell(&sb, p.HotSaleLabel)
		cell(&sb, p.ImageURL)
		if p.ProductURL != "" {
			sb.WriteString(`<td><a href="` + html.EscapeString(p.ProductURL) + `">link</a></td>`)
		} else {
			sb.WriteString("<td></td>")
		}
		sb.WriteString("</tr>")
	}

	sb.WriteString("</tbody></table>")
	return sb.String()
}

func cell(sb *strings.Builder, text string) {
	sb.WriteString("<td>" + html.EscapeString(strings.Join(strings.Fields(text), " ")) + "</td>")
}
