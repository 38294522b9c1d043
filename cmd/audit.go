package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"housingbridge/i18n"
	"housingbridge/scraper/listing"
	"housingbridge/services"
	"housingbridge/storage"
	"housingbridge/wizard"
)

var (
	auditLang  string
	auditLocal bool
	auditCSV   string
)

var auditCmd = &cobra.Command{
	Use:   "audit <url>",
	Short: "Audit one listing and print the client report",
	Long: `Run the audit wizard without a browser: submit the listing URL to the
audit service, accept the returned metrics, and print the report.
With --local the listing is fetched and scored in-process instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang := auditLang
		if lang == "" {
			lang = cfg.DefaultLang
		}
		l, err := i18n.Parse(lang)
		if err != nil {
			return err
		}

		var svc wizard.AuditService
		if auditLocal {
			svc = services.NewAuditor(listing.New(cfg, logger), logger)
		} else {
			svc = services.NewAuditClient(cfg.AuditEndpoint, cfg.AuditTimeout, logger)
		}

		return runAudit(cmd.Context(), cmd.OutOrStdout(), svc, l, args[0], auditCSV)
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditLang, "lang", "", "report language: ja or en (default from DEFAULT_LANG)")
	auditCmd.Flags().BoolVar(&auditLocal, "local", false, "fetch and score the listing in-process")
	auditCmd.Flags().StringVar(&auditCSV, "csv", "", "also write the audited record to this CSV file")
}

// runAudit drives one wizard session from submit to export.
func runAudit(ctx context.Context, w io.Writer, svc wizard.AuditService, lang i18n.Lang, url, csvPath string) error {
	ctl := wizard.New(svc, logger, wizard.Options{Lang: lang, KeepStaleResults: cfg.KeepStaleResults})
	ctl.SetPropertyURL(url)

	if err := ctl.Submit(ctx); err != nil {
		_, _ = color.New(color.FgRed).Fprintln(w, ctl.Notice())
		return err
	}
	ctl.Generate()

	reports := services.NewReportService(logger)
	err := ctl.Export(wizard.PrinterFunc(func(snap wizard.Snapshot) error {
		if err := reports.Print(w, reports.Build(snap.Record, snap.Lang, snap.CaseNumber)); err != nil {
			return err
		}
		if csvPath == "" {
			return nil
		}
		return writeRows(csvPath, []storage.Row{{
			CaseNumber: snap.CaseNumber,
			URL:        snap.PropertyURL,
			Record:     snap.Record,
			AuditedAt:  time.Now().UTC(),
		}})
	}))
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	if csvPath != "" {
		logger.Info("[audit] Record saved to %s", csvPath)
	}
	return nil
}

func writeRows(path string, rows []storage.Row) error {
	out, err := storage.CreateCSVFile(path)
	if err != nil {
		return err
	}
	return flushRows(out, rows)
}

func flushRows(out storage.RowWriter, rows []storage.Row) error {
	if err := out.Write(rows); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
