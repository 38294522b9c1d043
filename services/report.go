package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"housingbridge/i18n"
	"housingbridge/models"
	"housingbridge/utils"
)

// RingLength is the circumference of the report's safety ring (r=62).
const RingLength = 389.5

var (
	headline = color.New(color.FgHiMagenta, color.Bold).SprintFunc()
	section  = color.New(color.FgHiYellow, color.Bold).SprintFunc()
	good     = color.New(color.FgHiGreen, color.Bold).SprintFunc()
	warn     = color.New(color.FgHiYellow, color.Bold).SprintFunc()
	bad      = color.New(color.FgHiRed, color.Bold).SprintFunc()
	dim      = color.New(color.Faint).SprintFunc()
)

// ReportService derives report views from audit records and prints them.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Build derives the report view for rec in lang. The record is copied.
func (s *ReportService) Build(rec models.AuditRecord, lang i18n.Lang, caseNumber string) *models.Report {
	t := i18n.For(lang)
	return &models.Report{
		CaseNumber:   caseNumber,
		Lang:         string(lang),
		Record:       rec,
		RingLength:   RingLength,
		RingOffset:   RingOffset(rec.ScamScore),
		PriceLabel:   fmt.Sprintf("$%s / month", FormatNumber(rec.Price)),
		TransitLabel: fmt.Sprintf("%s/10 Score", FormatNumber(rec.TransitScore)),
		TechLabel:    "Verified Fiber",
		Findings: []models.Finding{
			{Title: "Digital Forensics: PASS", Body: t.ForensicsFinding},
			{Title: "Landlord Credibility: HIGH", Body: t.LandlordFinding},
		},
	}
}

// RingOffset is the hidden part of the safety ring for score.
func RingOffset(score int) float64 {
	return RingLength - (RingLength*float64(score))/100
}

// FormatNumber prints a number without a trailing ".0" for whole values.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Print writes a terminal rendition of r to w.
func (s *ReportService) Print(w io.Writer, r *models.Report) error {
	t := i18n.For(i18n.Lang(r.Lang))
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", headline(sep))
	fmt.Fprintf(w, "%s\n", headline("  HOUSINGBRIDGE AUDIT  ·  "+t.ReportTitle))
	fmt.Fprintf(w, "  %s\n", dim(t.ClientType))
	fmt.Fprintf(w, "  Case Number: %s\n", r.CaseNumber)
	fmt.Fprintf(w, "%s\n\n", headline(sep))

	fmt.Fprintf(w, "%s\n  %s\n", section("  "+t.SafetyRating), thin)
	fmt.Fprintf(w, "  %s  %s\n\n", scoreColor(r.Record.ScamScore), good(t.Recommended))

	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "  ", Right: "  "}),
	)
	table.Header([]string{t.Area, "Tech Audit", "Pricing", "Transit"})
	if err := table.Append([]string{r.Record.Neighborhood, r.TechLabel, r.PriceLabel, r.TransitLabel}); err != nil {
		return fmt.Errorf("report: table row: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("report: render table: %w", err)
	}

	fmt.Fprintf(w, "\n%s\n  %s\n", section("  "+t.Findings), thin)
	for _, f := range r.Findings {
		fmt.Fprintf(w, "  %s\n    %s\n", good(f.Title), f.Body)
	}

	fmt.Fprintf(w, "\n  %s: Kazuma Kunogi (Full-Stack Engineer, BCIT CST)\n", t.AuthBy)
	fmt.Fprintf(w, "%s\n\n", headline(sep))

	s.logger.Debug("[report] Printed case %s", r.CaseNumber)
	return nil
}

func scoreColor(score int) string {
	label := fmt.Sprintf("%d%% SECURE", score)
	switch {
	case score >= 80:
		return good(label)
	case score >= 50:
		return warn(label)
	default:
		return bad(label)
	}
}
