package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"housingbridge/models"
	"housingbridge/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func TestCleanerNeighborhood(t *testing.T) {
	c := NewCleaner(newTestLogger())

	tests := []struct {
		raw  string
		want string
	}{
		{" (Kitsilano) ", "Kitsilano"},
		{"Mount\n  Pleasant", "Mount Pleasant"},
		{"()", models.UnknownNeighborhood},
		{"", models.UnknownNeighborhood},
		{"Unknown", "Unknown"},
	}

	for _, tt := range tests {
		got := c.Clean(&models.RawListing{Neighborhood: tt.raw})
		assert.Equal(t, tt.want, got.Neighborhood, "neighborhood %q", tt.raw)
	}
}

func TestCleanerCollapsesDescription(t *testing.T) {
	c := NewCleaner(newTestLogger())
	got := c.Clean(&models.RawListing{Description: "  Bright\n\n suite \t near   UBC "})
	assert.Equal(t, "Bright suite near UBC", got.Description)
}

func TestCleanerTruncatesLongDescription(t *testing.T) {
	c := NewCleaner(newTestLogger())
	got := c.Clean(&models.RawListing{Description: strings.Repeat("あ", maxDescriptionRunes+10)})
	assert.Len(t, []rune(got.Description), maxDescriptionRunes)
}

func TestCleanerNegativePrice(t *testing.T) {
	c := NewCleaner(newTestLogger())
	got := c.Clean(&models.RawListing{Price: -5})
	assert.Equal(t, 0, got.Price)
}

func TestCleanerDoesNotMutateInput(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := &models.RawListing{URL: " https://x.test/1 ", Neighborhood: "(Fairview)"}
	_ = c.Clean(raw)
	assert.Equal(t, " https://x.test/1 ", raw.URL)
	assert.Equal(t, "(Fairview)", raw.Neighborhood)
}
