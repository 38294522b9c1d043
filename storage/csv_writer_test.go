package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingbridge/models"
)

func TestCSVWriterRows(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCSVWriter(&buf)
	require.NoError(t, err)

	at := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	require.NoError(t, w.Write([]Row{{
		CaseNumber: "HB-2026-ABCDEFGH",
		URL:        "https://x.test/1",
		Record:     models.DefaultAuditRecord(),
		AuditedAt:  at,
	}}))
	require.NoError(t, w.Close())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{
		"HB-2026-ABCDEFGH", "https://x.test/1", "1850", "Kitsilano", "92",
		"8.5", "150 Mbps", "true", "true", "", "2026-10-16T09:30:00Z",
	}, records[1])
}

func TestCreateCSVFileMakesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "scan.csv")

	w, err := CreateCSVFile(path)
	require.NoError(t, err)
	require.NoError(t, w.Write([]Row{{URL: "a", Error: "status HTTP 404"}}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "status HTTP 404")
}

// failAfterFirst accepts the header write and fails every later one.
type failAfterFirst struct {
	writes int
	closed bool
}

func (f *failAfterFirst) Write(p []byte) (int, error) {
	f.writes++
	if f.writes > 1 {
		return 0, errors.New("disk full")
	}
	return len(p), nil
}

func (f *failAfterFirst) Close() error {
	f.closed = true
	return nil
}

func TestCloseReportsFlushError(t *testing.T) {
	out := &failAfterFirst{}
	w, err := NewCSVWriter(out)
	require.NoError(t, err)
	w.closer = out

	require.Error(t, w.Write([]Row{{URL: "https://x.test/1"}}))

	err = w.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, out.closed)
}
