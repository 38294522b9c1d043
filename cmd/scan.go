package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"housingbridge/models"
	"housingbridge/scraper/listing"
	"housingbridge/services"
	"housingbridge/storage"
	"housingbridge/utils"
)

var scanCSV string

var scanCmd = &cobra.Command{
	Use:   "scan <url>...",
	Short: "Audit many listings concurrently and print a summary",
	Long: `Fetch and score every listing URL given. Duplicate URLs are audited
once. Fetches share the worker pool set by MAX_CONCURRENCY and
RATE_LIMIT_MS.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		auditor := services.NewAuditor(listing.New(cfg, logger), logger)
		results := scanListings(cmd.Context(), auditor, args)

		if err := printScan(cmd.OutOrStdout(), results); err != nil {
			return err
		}
		if scanCSV == "" {
			return nil
		}
		rows := make([]storage.Row, len(results))
		for i, r := range results {
			rows[i] = rowFor(r)
		}
		if err := writeRows(scanCSV, rows); err != nil {
			return err
		}
		logger.Info("[scan] %d rows saved to %s", len(rows), scanCSV)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanCSV, "csv", "", "write the results to this CSV file")
}

// inspector scores a single listing.
type inspector interface {
	Inspect(ctx context.Context, url string) (models.AuditResponse, *models.RawListing)
}

func rowFor(a models.AuditedListing) storage.Row {
	return storage.Row{
		URL: a.URL,
		Record: models.AuditRecord{
			Price:        a.Response.Price,
			Neighborhood: a.Response.Neighborhood,
			ScamScore:    a.Response.ScamScore,
			TransitScore: a.Response.TransitScore,
			WifiSpeed:    a.Response.WifiSpeed,
		},
		Error:     a.Error,
		AuditedAt: a.AuditedAt,
	}
}

// scanListings audits each distinct URL once, in input order.
func scanListings(ctx context.Context, in inspector, urls []string) []models.AuditedListing {
	seen := utils.NewURLSet()
	var unique []string
	for _, u := range urls {
		n := listing.NormalizeURL(u)
		if n == "" {
			continue
		}
		if !seen.Add(n) {
			logger.Debug("[scan] Skipping duplicate %s", n)
			continue
		}
		unique = append(unique, n)
	}
	logger.Info("[scan] Auditing %d listings (%d given)", seen.Size(), len(urls))

	results := make([]models.AuditedListing, len(unique))
	var wg sync.WaitGroup
	for i, u := range unique {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, raw := in.Inspect(ctx, u)
			results[i] = models.AuditedListing{URL: u, Response: resp, AuditedAt: time.Now().UTC()}
			if raw != nil {
				results[i].Error = raw.FetchError
			}
		}()
	}
	wg.Wait()
	return results
}

func printScan(w io.Writer, results []models.AuditedListing) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)
	table.Header([]string{"URL", "Price", "Neighborhood", "Score", "Error"})

	for _, r := range results {
		row := []string{
			r.URL,
			"$" + services.FormatNumber(r.Response.Price),
			r.Response.Neighborhood,
			fmt.Sprintf("%d%%", r.Response.ScamScore),
			r.Error,
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("scan: table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("scan: render table: %w", err)
	}

	insights := services.NewInsightService(logger)
	insights.Print(w, insights.Generate(results))
	return nil
}
