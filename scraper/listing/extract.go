// Package listing fetches rental listing pages and pulls out the fields
// the audit scores: price, neighborhood and description.
package listing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"housingbridge/models"
)

var (
	// dollarRegexp matches a dollar amount inside a price element.
	dollarRegexp = regexp.MustCompile(`\$[\d,]+`)
	// pageRentRegexp matches a rent-sized amount ($1,000 to $99,999) anywhere on the page.
	pageRentRegexp = regexp.MustCompile(`\$(\d{1,2},?\d{3})`)
)

// priceSelectors are tried in order; the first with a dollar amount wins.
var priceSelectors = []string{".price", ".postingtitletext", ".attrgroup"}

// Extract reads the listing fields out of a parsed page.
func Extract(doc *goquery.Document) models.RawListing {
	return models.RawListing{
		Price:        extractPrice(doc),
		Description:  extractDescription(doc),
		Neighborhood: extractNeighborhood(doc),
	}
}

func extractPrice(doc *goquery.Document) int {
	for _, sel := range priceSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if m := dollarRegexp.FindString(node.Text()); m != "" {
			if p, ok := parseAmount(m); ok {
				return p
			}
		}
	}

	if m := pageRentRegexp.FindStringSubmatch(doc.Text()); len(m) == 2 {
		if p, ok := parseAmount(m[1]); ok {
			return p
		}
	}
	return 0
}

func parseAmount(s string) (int, bool) {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func extractDescription(doc *goquery.Document) string {
	desc := doc.Find("#postingbody").First()
	if desc.Length() == 0 {
		desc = doc.Find(".body").First()
	}
	return strings.TrimSpace(desc.Text())
}

func extractNeighborhood(doc *goquery.Document) string {
	if small := doc.Find(".postingtitletext small").First(); small.Length() > 0 {
		if hood := strings.Trim(strings.TrimSpace(small.Text()), "() "); hood != "" {
			return hood
		}
	}

	if addr := strings.TrimSpace(doc.Find(".mapaddress").First().Text()); addr != "" {
		return addr
	}

	if region, ok := doc.Find(`meta[name="geo.region"]`).First().Attr("content"); ok && region != "" {
		return region
	}

	if links := doc.Find(".breadcrumbs").First().Find("a"); links.Length() >= 2 {
		if last := strings.TrimSpace(links.Last().Text()); last != "" {
			return last
		}
	}

	return models.UnknownNeighborhood
}
