package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingbridge/models"
)

type stubFetcher struct {
	raw   *models.RawListing
	err   error
	calls []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (*models.RawListing, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	r := *f.raw
	r.URL = url
	return &r, nil
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		l    models.RawListing
		want int
	}{
		{"clean listing", models.RawListing{Price: 1850, Description: "Bright one bedroom near the beach."}, 100},
		{"one keyword", models.RawListing{Price: 1850, Description: "Contact me on WhatsApp"}, 85},
		{"low price", models.RawListing{Price: 450, Description: "cozy"}, 70},
		{"zero price is not low", models.RawListing{Price: 0}, 100},
		{"price at ceiling", models.RawListing{Price: 500}, 100},
		{"keywords and low price", models.RawListing{Price: 300, Description: "Urgent! I am currently out of the country, wire transfer the deposit first"}, 10},
		{"clamped at zero", models.RawListing{Price: 100, Description: "whatsapp western union shipping urgent wire transfer money order overseas"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(&tt.l))
		})
	}
}

func TestScoreCountsEachKeywordOnce(t *testing.T) {
	l := &models.RawListing{Description: "urgent urgent urgent"}
	assert.Equal(t, 85, Score(l))
}

func TestInspect(t *testing.T) {
	f := &stubFetcher{raw: &models.RawListing{Price: 2000, Neighborhood: "(Downtown)", Description: "send money first"}}
	a := NewAuditor(f, newTestLogger())

	resp, raw := a.Inspect(context.Background(), "https://vancouver.craigslist.org/apa/1.html")

	assert.Equal(t, 2000.0, resp.Price)
	assert.Equal(t, "Downtown", resp.Neighborhood)
	assert.Equal(t, 85, resp.ScamScore)
	assert.Equal(t, 0.0, resp.TransitScore)
	assert.Equal(t, "N/A", resp.WifiSpeed)
	assert.Equal(t, "send money first", resp.Description)
	assert.Empty(t, raw.FetchError)
}

func TestInspectScoresKeywordsPastDescriptionCap(t *testing.T) {
	long := strings.Repeat("nice flat ", 250) + "pay by western union"
	f := &stubFetcher{raw: &models.RawListing{Price: 1850, Neighborhood: "Kitsilano", Description: long}}
	a := NewAuditor(f, newTestLogger())

	resp, raw := a.Inspect(context.Background(), "https://x.test/long")

	assert.Equal(t, 85, resp.ScamScore)
	assert.Len(t, []rune(resp.Description), maxDescriptionRunes)
	assert.NotContains(t, raw.Description, "western union")
}

func TestInspectFetchFailureDegrades(t *testing.T) {
	f := &stubFetcher{err: errors.New("connection refused")}
	a := NewAuditor(f, newTestLogger())

	resp, raw := a.Inspect(context.Background(), "https://gone.example")

	assert.Equal(t, 0.0, resp.Price)
	assert.Equal(t, models.UnknownNeighborhood, resp.Neighborhood)
	assert.Equal(t, 100, resp.ScamScore)
	assert.Equal(t, "connection refused", raw.FetchError)
}

func TestAuditRejectsEmptyURL(t *testing.T) {
	f := &stubFetcher{raw: &models.RawListing{}}
	a := NewAuditor(f, newTestLogger())

	_, err := a.Audit(context.Background(), models.AuditRequest{URL: "  "})

	assert.ErrorIs(t, err, ErrEmptyURL)
	assert.Empty(t, f.calls)
}

func TestAuditReturnsResult(t *testing.T) {
	f := &stubFetcher{raw: &models.RawListing{Price: 1200, Neighborhood: "Fairview"}}
	a := NewAuditor(f, newTestLogger())

	res, err := a.Audit(context.Background(), models.AuditRequest{URL: "https://x.test/1"})

	require.NoError(t, err)
	assert.Equal(t, models.AuditResult{Price: 1200, Neighborhood: "Fairview", ScamScore: 100}, res)
}
