package models

import "time"

// Finding is one line of the report's audit findings section.
type Finding struct {
	Title string
	Body  string
}

// Report is the derived view of an AuditRecord that renderers draw.
type Report struct {
	CaseNumber string
	Lang       string
	Record     AuditRecord

	// Safety ring geometry; the arc is RingLength long and RingOffset of it is hidden.
	RingLength float64
	RingOffset float64

	PriceLabel   string
	TransitLabel string
	TechLabel    string
	Findings     []Finding
}

// AuditedListing is one listing scored by a batch scan.
type AuditedListing struct {
	URL       string
	Response  AuditResponse
	Error     string
	AuditedAt time.Time
}

// ScanInsights summarises a batch scan.
type ScanInsights struct {
	TotalListings int
	Flagged       int
	Unreachable   int

	AveragePrice float64
	MinPrice     float64
	MaxPrice     float64

	Riskiest       []AuditedListing
	ByNeighborhood map[string]int
}
