package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"housingbridge/models"
	"housingbridge/utils"
)

// FlagThreshold is the safety score below which a listing is flagged.
const FlagThreshold = 50

const riskiestLimit = 5

// InsightService summarises batch scan results.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []models.AuditedListing) *models.ScanInsights {
	report := &models.ScanInsights{
		ByNeighborhood: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var priced, reachable []models.AuditedListing
	for _, l := range listings {
		if l.Error != "" {
			report.Unreachable++
			continue
		}
		reachable = append(reachable, l)
		if l.Response.ScamScore < FlagThreshold {
			report.Flagged++
		}
		if l.Response.Price > 0 {
			priced = append(priced, l)
		}
		if n := l.Response.Neighborhood; n != "" && n != models.UnknownNeighborhood {
			report.ByNeighborhood[n]++
		}
	}

	// Rent stats (only listings with a price)
	if len(priced) > 0 {
		report.MinPrice = priced[0].Response.Price
		report.MaxPrice = priced[0].Response.Price
		var total float64
		for _, l := range priced {
			p := l.Response.Price
			total += p
			if p < report.MinPrice {
				report.MinPrice = p
			}
			if p > report.MaxPrice {
				report.MaxPrice = p
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
	}

	// Lowest safety scores first; ties keep input order.
	sort.SliceStable(reachable, func(i, j int) bool {
		return reachable[i].Response.ScamScore < reachable[j].Response.ScamScore
	})
	if len(reachable) > riskiestLimit {
		reachable = reachable[:riskiestLimit]
	}
	report.Riskiest = reachable

	s.logger.Debug("[insights] %d listings, %d flagged, %d unreachable",
		report.TotalListings, report.Flagged, report.Unreachable)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.ScanInsights) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", headline(sep))
	fmt.Fprintf(w, "%s\n", headline("  HOUSINGBRIDGE SCAN INSIGHTS"))
	fmt.Fprintf(w, "%s\n\n", headline(sep))

	fmt.Fprintf(w, "%s\n  %s\n", section("  Overview"), thin)
	fmt.Fprintf(w, "  Listings audited : %d\n", r.TotalListings)
	flagged := good(fmt.Sprintf("%d", r.Flagged))
	if r.Flagged > 0 {
		flagged = bad(fmt.Sprintf("%d", r.Flagged))
	}
	fmt.Fprintf(w, "  Flagged (<%d%%)   : %s\n", FlagThreshold, flagged)
	fmt.Fprintf(w, "  Unreachable      : %d\n\n", r.Unreachable)

	fmt.Fprintf(w, "%s\n  %s\n", section("  Rent (per month)"), thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average : $%.2f\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum : $%s\n", FormatNumber(r.MinPrice))
		fmt.Fprintf(w, "  Maximum : $%s\n", FormatNumber(r.MaxPrice))
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n  %s\n", section("  Riskiest Listings"), thin)
	if len(r.Riskiest) == 0 {
		fmt.Fprintf(w, "  No listings could be scored\n")
	}
	for i, l := range r.Riskiest {
		fmt.Fprintf(w, "  %d. %-40s %s\n", i+1, truncate(l.URL, 40), scoreColor(l.Response.ScamScore))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n  %s\n", section("  Listings by Neighborhood"), thin)
	if len(r.ByNeighborhood) == 0 {
		fmt.Fprintf(w, "  No neighborhood data\n")
	} else {
		type hoodCount struct {
			name  string
			count int
		}
		var hoods []hoodCount
		for n, c := range r.ByNeighborhood {
			hoods = append(hoods, hoodCount{n, c})
		}
		sort.Slice(hoods, func(i, j int) bool {
			if hoods[i].count != hoods[j].count {
				return hoods[i].count > hoods[j].count
			}
			return hoods[i].name < hoods[j].name
		})
		for _, h := range hoods {
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(h.name, 28), strings.Repeat("█", h.count), h.count)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", headline(sep))
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
