package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingbridge/config"
	"housingbridge/i18n"
	"housingbridge/models"
	"housingbridge/utils"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	cfg = &config.Config{DefaultLang: "ja"}
	logger = utils.NewNopLogger()
	os.Exit(m.Run())
}

type fakeService struct {
	result models.AuditResult
	err    error
}

func (f *fakeService) Audit(_ context.Context, _ models.AuditRequest) (models.AuditResult, error) {
	return f.result, f.err
}

func TestRunAuditPrintsReport(t *testing.T) {
	var out bytes.Buffer
	csvPath := filepath.Join(t.TempDir(), "audit.csv")
	svc := &fakeService{result: models.AuditResult{Price: 2100, Neighborhood: "Mount Pleasant", ScamScore: 64}}

	require.NoError(t, runAudit(context.Background(), &out, svc, i18n.English, "https://x.test/1", csvPath))

	text := out.String()
	assert.Contains(t, text, "Property Security Report")
	assert.Contains(t, text, "64% SECURE")
	assert.Contains(t, text, "Mount Pleasant")
	assert.Contains(t, text, "$2100 / month")
	assert.Regexp(t, `Case Number: HB-\d{4}-[0-9A-Z]{8}`, text)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://x.test/1,2100,Mount Pleasant,64,8.5,150 Mbps,true,true")
}

func TestRunAuditFailureShowsNotice(t *testing.T) {
	var out bytes.Buffer
	svc := &fakeService{err: errors.New("audit failed: status 502")}

	err := runAudit(context.Background(), &out, svc, i18n.English, "https://x.test/1", "")
	require.Error(t, err)
	assert.Contains(t, out.String(), "Failed to audit listing: audit failed: status 502")
}

type stubInspector struct {
	mu    sync.Mutex
	calls []string
}

func (s *stubInspector) Inspect(_ context.Context, url string) (models.AuditResponse, *models.RawListing) {
	s.mu.Lock()
	s.calls = append(s.calls, url)
	s.mu.Unlock()

	if strings.Contains(url, "gone") {
		return models.AuditResponse{Neighborhood: models.UnknownNeighborhood, ScamScore: 100, WifiSpeed: "N/A"},
			&models.RawListing{URL: url, FetchError: "status HTTP 404"}
	}
	return models.AuditResponse{Price: 450, Neighborhood: "Downtown", ScamScore: 40, WifiSpeed: "N/A"},
		&models.RawListing{URL: url}
}

func TestScanListingsDeduplicates(t *testing.T) {
	in := &stubInspector{}
	results := scanListings(context.Background(), in, []string{
		"https://x.test/a",
		"https://x.test/a/",
		"https://x.test/a#photos",
		"  ",
		"https://x.test/gone",
	})

	require.Len(t, results, 2)
	assert.Len(t, in.calls, 2)
	assert.Equal(t, "https://x.test/a", results[0].URL)
	assert.Equal(t, 40, results[0].Response.ScamScore)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, "status HTTP 404", results[1].Error)

	row := rowFor(results[1])
	assert.Equal(t, models.UnknownNeighborhood, row.Record.Neighborhood)
	assert.Equal(t, "status HTTP 404", row.Error)
}

func TestPrintScanSummary(t *testing.T) {
	var out bytes.Buffer
	results := scanListings(context.Background(), &stubInspector{}, []string{"https://x.test/a", "https://x.test/gone"})

	require.NoError(t, printScan(&out, results))
	assert.Contains(t, out.String(), "Downtown")
	assert.Contains(t, out.String(), "$450")
	assert.Contains(t, out.String(), "Listings audited : 2")
	assert.Contains(t, out.String(), "Unreachable      : 1")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "housingbridge dev")
}
