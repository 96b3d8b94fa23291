package codec

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanledger/internal/common"
	"scanledger/internal/models"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestExportCSV_ExactLineFormat(t *testing.T) {
	entries := []models.Entry{{Code: "X1", Date: "2024-01-01", Timestamp: "2024-01-01T00:00:00Z"}}

	got := ExportCSV(entries)
	assert.Equal(t, `"2024-01-01T00:00:00Z","X1"`, string(got))
}

func TestExportCSV_MultipleLinesPreserveOrder(t *testing.T) {
	entries := []models.Entry{
		{Code: "B", Timestamp: "2024-01-02T00:00:00Z"},
		{Code: "A", Timestamp: "2024-01-01T00:00:00Z"},
	}

	got := string(ExportCSV(entries))
	assert.Equal(t, "\"2024-01-02T00:00:00Z\",\"B\"\n\"2024-01-01T00:00:00Z\",\"A\"", got)
}

func TestExportCSV_QuotesAreDoubled(t *testing.T) {
	entries := []models.Entry{{Code: `A"B`, Timestamp: "ts"}}
	assert.Equal(t, `"ts","A""B"`, string(ExportCSV(entries)))
}

func TestEnvelope_RoundTrip(t *testing.T) {
	active := []models.Entry{
		{Code: "B", Date: "2024-01-02", Timestamp: "2024-01-02T10:00:00Z"},
		{Code: "A", Date: "2024-01-01", Timestamp: "2024-01-01T10:00:00Z"},
	}
	removed := []string{"C", "C"}

	blob, err := ExportEnvelope(active, removed, testNow)
	require.NoError(t, err)

	res, err := Import("transfer.json", blob, testNow)
	require.NoError(t, err)

	if diff := cmp.Diff(active, res.Entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(removed, res.Removed); diff != "" {
		t.Fatalf("removed mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_BareEntryArray(t *testing.T) {
	data := []byte(`[{"code":"A","date":"2024-01-01","ts":"2024-01-01T00:00:00Z"}]`)

	res, err := Import("barcodes.json", data, testNow)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "A", res.Entries[0].Code)
	assert.Empty(t, res.Removed)
}

func TestImport_LegacyStringArrayIsUpgraded(t *testing.T) {
	res, err := Import("barcodes.json", []byte(`["X1","X2"]`), testNow)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, models.Entry{Code: "X1", Date: "2024-06-01", Timestamp: "2024-06-01T12:00:00Z"}, res.Entries[0])
}

func TestImport_CSVWithTimestamps(t *testing.T) {
	data := []byte("\"2024-01-01T00:00:00Z\",\"X1\"\n\"2024-01-02T00:00:00Z\",\"X2\"")

	res, err := Import("barcodes.csv", data, testNow)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, models.Entry{Code: "X1", Date: "2024-01-01", Timestamp: "2024-01-01T00:00:00Z"}, res.Entries[0])
	assert.Equal(t, "2024-01-02", res.Entries[1].Date)
}

func TestImport_CSVBareCodesWithHeader(t *testing.T) {
	data := []byte("Barcode\nX1\nX2\n")

	res, err := Import("scans.csv", data, testNow)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "X1", res.Entries[0].Code)
	assert.Equal(t, "2024-06-01", res.Entries[0].Date)
}

func TestImport_UnknownExtensionRejected(t *testing.T) {
	_, err := Import("scans.xlsx", []byte("whatever"), testNow)
	assert.ErrorIs(t, err, common.ErrBadFormat)
}

func TestImport_MalformedJSONRejected(t *testing.T) {
	_, err := Import("scans.json", []byte(`{"nope":`), testNow)
	assert.ErrorIs(t, err, common.ErrBadFormat)
}

func TestImport_EnvelopeWithoutScannedBarcodesRejected(t *testing.T) {
	_, err := Import("scans.json", []byte(`{"deletedBarcodes":[]}`), testNow)
	assert.ErrorIs(t, err, common.ErrBadFormat)
}

func TestImport_EmptyFileRejected(t *testing.T) {
	_, err := Import("scans.json", []byte("  "), testNow)
	assert.ErrorIs(t, err, common.ErrBadFormat)
}

func TestImport_CSVTooManyColumnsRejected(t *testing.T) {
	_, err := Import("scans.csv", []byte(`"a","b","c"`), testNow)
	assert.ErrorIs(t, err, common.ErrBadFormat)
}

func TestExportJSON_PrettyArray(t *testing.T) {
	data, err := ExportJSON([]models.Entry{{Code: "A", Date: "2024-01-01", Timestamp: "2024-01-01T00:00:00Z"}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"code\": \"A\"")

	// exported JSON is importable as-is
	res, err := Import("export.json", data, testNow)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
}
