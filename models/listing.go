package models

import "time"

// RawListing holds the fields scraped from a listing page before scoring.
// A fetch failure still yields a RawListing with FetchError set and the
// fallback values (price 0, neighborhood "Unknown").
type RawListing struct {
	URL          string
	Price        int
	Neighborhood string
	Description  string
	FetchError   string
	FetchedAt    time.Time
}

// UnknownNeighborhood is reported when no location could be extracted.
const UnknownNeighborhood = "Unknown"
