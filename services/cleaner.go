package services

import (
	"strings"
	"unicode"

	"housingbridge/models"
	"housingbridge/utils"
)

// maxDescriptionRunes caps the description carried into the audit response.
const maxDescriptionRunes = 2000

// Cleaner normalises scraped listing fields before scoring.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean returns a normalised copy of raw. Empty or bracket-only
// neighborhoods become "Unknown"; negative prices become 0.
func (c *Cleaner) Clean(raw *models.RawListing) *models.RawListing {
	out := *raw

	out.URL = strings.TrimSpace(raw.URL)
	out.Description = truncateRunes(normaliseText(raw.Description), maxDescriptionRunes)

	hood := strings.Trim(normaliseText(raw.Neighborhood), "() ")
	if hood == "" {
		hood = models.UnknownNeighborhood
	}
	out.Neighborhood = hood

	if out.Price < 0 {
		c.logger.Debug("[cleaner] Negative price %d for %s reset to 0", out.Price, out.URL)
		out.Price = 0
	}

	return &out
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
