package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"housingbridge/models"
	"housingbridge/utils"
)

var (
	// ErrEmptyURL is returned when an audit is requested without a listing URL.
	ErrEmptyURL = errors.New("audit: listing url is empty")
)

const (
	keywordPenalty  = 15
	lowPricePenalty = 30
	lowPriceCeiling = 500
)

// scamKeywords are phrases common in rental scam listings.
var scamKeywords = []string{
	"whatsapp", "western union", "shipping", "urgent",
	"wire transfer", "money order", "overseas", "nigeria",
	"send money", "deposit first", "cant meet", "can't meet",
	"god bless", "currently out", "out of town", "out of country",
}

// ListingFetcher loads a listing page and extracts its raw fields.
type ListingFetcher interface {
	Fetch(ctx context.Context, url string) (*models.RawListing, error)
}

// Auditor runs the scam analysis over a fetched listing.
type Auditor struct {
	fetcher ListingFetcher
	cleaner *Cleaner
	logger  *utils.Logger
}

// NewAuditor creates an Auditor backed by fetcher.
func NewAuditor(fetcher ListingFetcher, logger *utils.Logger) *Auditor {
	return &Auditor{
		fetcher: fetcher,
		cleaner: NewCleaner(logger),
		logger:  logger,
	}
}

// Inspect fetches, cleans and scores the listing at url. A listing that
// cannot be fetched is still scored, with price 0 and neighborhood
// "Unknown"; the fetch error is kept on the returned RawListing.
func (a *Auditor) Inspect(ctx context.Context, url string) (models.AuditResponse, *models.RawListing) {
	raw, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		a.logger.Warn("[audit] Fetch failed for %s: %v", url, err)
		raw = &models.RawListing{
			URL:          url,
			Neighborhood: models.UnknownNeighborhood,
			FetchError:   err.Error(),
			FetchedAt:    time.Now(),
		}
	}

	clean := a.cleaner.Clean(raw)

	// Score the whole description; the cleaned copy is truncated.
	scored := *clean
	scored.Description = normaliseText(raw.Description)
	score := Score(&scored)

	a.logger.Info("[audit] %s: price=%d neighborhood=%q score=%d", url, clean.Price, clean.Neighborhood, score)

	return models.AuditResponse{
		Price:        float64(clean.Price),
		Neighborhood: clean.Neighborhood,
		ScamScore:    score,
		TransitScore: 0,
		WifiSpeed:    "N/A",
		Description:  clean.Description,
	}, clean
}

// Audit runs an in-process audit. It lets the wizard use the engine
// directly instead of going through HTTP.
func (a *Auditor) Audit(ctx context.Context, req models.AuditRequest) (models.AuditResult, error) {
	if strings.TrimSpace(req.URL) == "" {
		return models.AuditResult{}, ErrEmptyURL
	}
	resp, _ := a.Inspect(ctx, req.URL)
	if err := ctx.Err(); err != nil {
		return models.AuditResult{}, err
	}
	return resp.Result(), nil
}

// Score computes the safety score of a listing: 100 minus a penalty for
// each scam keyword in the description and for a suspiciously low price,
// clamped to [0,100]. Higher is safer.
func Score(l *models.RawListing) int {
	score := 100

	description := strings.ToLower(l.Description)
	for _, word := range scamKeywords {
		if strings.Contains(description, word) {
			score -= keywordPenalty
		}
	}

	if l.Price > 0 && l.Price < lowPriceCeiling {
		score -= lowPricePenalty
	}

	return models.ClampScore(score)
}
