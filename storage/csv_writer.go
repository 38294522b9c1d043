package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"housingbridge/models"
)

var header = []string{
	"case_number", "url", "price", "neighborhood", "scam_score",
	"transit_score", "wifi_speed", "landlord_verified", "rules_explained",
	"error", "audited_at",
}

// CSVWriter writes audit rows as CSV. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter writes the header row to w and returns a writer for the rows.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	return &CSVWriter{writer: cw}, nil
}

// CreateCSVFile creates (or truncates) the CSV file at path. Intermediate
// directories are created automatically.
func CreateCSVFile(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w, err := NewCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// Write appends rows and flushes.
func (c *CSVWriter) Write(rows []Row) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range rows {
		if err := c.writer.Write(r.fields()); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if the writer owns one.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	flushErr := c.writer.Error()
	if c.closer != nil {
		if err := c.closer.Close(); err != nil && flushErr == nil {
			return err
		}
	}
	return flushErr
}

// Row is one audited listing.
type Row struct {
	CaseNumber string
	URL        string
	Record     models.AuditRecord
	Error      string
	AuditedAt  time.Time
}

func (r Row) fields() []string {
	return []string{
		r.CaseNumber,
		r.URL,
		strconv.FormatFloat(r.Record.Price, 'f', -1, 64),
		r.Record.Neighborhood,
		strconv.Itoa(r.Record.ScamScore),
		strconv.FormatFloat(r.Record.TransitScore, 'f', -1, 64),
		r.Record.WifiSpeed,
		strconv.FormatBool(r.Record.LandlordVerified),
		strconv.FormatBool(r.Record.RulesExplained),
		r.Error,
		r.AuditedAt.Format(time.RFC3339),
	}
}
