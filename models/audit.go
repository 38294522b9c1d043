package models

// AuditRequest is the body of POST /api/audit.
type AuditRequest struct {
	URL string `json:"url"`
}

// AuditResult is the part of an audit response the wizard consumes.
type AuditResult struct {
	Price        float64 `json:"price"`
	Neighborhood string  `json:"neighborhood"`
	ScamScore    int     `json:"scamScore"`
}

// AuditResponse is the full body the audit service returns. Clients only
// rely on the AuditResult fields; the rest are informational.
type AuditResponse struct {
	Price        float64 `json:"price"`
	Neighborhood string  `json:"neighborhood"`
	ScamScore    int     `json:"scamScore"`
	TransitScore float64 `json:"transitScore"`
	WifiSpeed    string  `json:"wifiSpeed"`
	Description  string  `json:"description"`
}

// Result narrows the response to what the wizard merges.
func (r AuditResponse) Result() AuditResult {
	return AuditResult{Price: r.Price, Neighborhood: r.Neighborhood, ScamScore: r.ScamScore}
}

// AuditRecord is the session's working set of metrics, edited in the
// configure step and rendered in the report.
type AuditRecord struct {
	Price            float64 `json:"price"`
	Neighborhood     string  `json:"neighborhood"`
	ScamScore        int     `json:"scamScore"`
	TransitScore     float64 `json:"transitScore"`
	WifiSpeed        string  `json:"wifiSpeed"`
	LandlordVerified bool    `json:"landlordVerified"`
	RulesExplained   bool    `json:"rulesExplained"`
}

// DefaultAuditRecord returns the placeholder record a new session starts with.
func DefaultAuditRecord() AuditRecord {
	return AuditRecord{
		Price:            1850,
		Neighborhood:     "Kitsilano",
		ScamScore:        92,
		TransitScore:     8.5,
		WifiSpeed:        "150 Mbps",
		LandlordVerified: true,
		RulesExplained:   true,
	}
}

// Merge overwrites the service-owned fields with r and leaves the rest alone.
func (rec *AuditRecord) Merge(r AuditResult) {
	rec.Price = r.Price
	rec.Neighborhood = r.Neighborhood
	rec.ScamScore = r.ScamScore
}

// ClampScore bounds a scam score to [0,100].
func ClampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
