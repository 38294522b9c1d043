package listing

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingbridge/models"
)

const craigslistPage = `<html><head><title>$1,850 / 1br - Bright suite</title></head><body>
<h1 class="postingtitle"><span class="postingtitletext">
  <span class="price">$1,850</span> Bright suite near the beach <small> (Kitsilano) </small>
</span></h1>
<div class="mapaddress">2100 W 4th Ave</div>
<section id="postingbody">
  QR Code Link to This Post
  Lovely suite. Contact me on WhatsApp, I am currently out of town.
</section>
</body></html>`

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractCraigslistPage(t *testing.T) {
	l := Extract(parse(t, craigslistPage))

	assert.Equal(t, 1850, l.Price)
	assert.Equal(t, "Kitsilano", l.Neighborhood)
	assert.Contains(t, l.Description, "WhatsApp")
	assert.True(t, strings.HasPrefix(l.Description, "QR Code"))
}

func TestExtractPriceSelectorOrder(t *testing.T) {
	html := `<div class="attrgroup">$900</div><div class="postingtitletext">no price here</div>`
	assert.Equal(t, 900, Extract(parse(t, html)).Price)
}

func TestExtractPriceFallsBackToPageText(t *testing.T) {
	html := `<p>Rent is $2,400 per month, deposit $50.</p>`
	assert.Equal(t, 2400, Extract(parse(t, html)).Price)
}

func TestExtractPriceMissing(t *testing.T) {
	assert.Equal(t, 0, Extract(parse(t, `<p>Ask for price</p>`)).Price)
}

func TestExtractNeighborhoodFallbacks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"map address", `<div class="mapaddress"> Main St </div>`, "Main St"},
		{"geo region", `<html><head><meta name="geo.region" content="CA-BC"></head><body></body></html>`, "CA-BC"},
		{"breadcrumbs", `<ul class="breadcrumbs"><a>vancouver</a><a>apts</a><a>Burnaby</a></ul>`, "Burnaby"},
		{"single breadcrumb", `<ul class="breadcrumbs"><a>vancouver</a></ul>`, models.UnknownNeighborhood},
		{"nothing", `<p>hello</p>`, models.UnknownNeighborhood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(parse(t, tt.html)).Neighborhood)
		})
	}
}

func TestExtractDescriptionFallsBackToBody(t *testing.T) {
	html := `<div class="body"> Wire transfer only </div>`
	assert.Equal(t, "Wire transfer only", Extract(parse(t, html)).Description)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://x.test/apa/1.html", NormalizeURL("  https://x.test/apa/1.html#map "))
	assert.Equal(t, "https://x.test/apa", NormalizeURL("https://x.test/apa/"))
}
