// Package codec serializes the ledger for file export and cross-device
// transfer, and parses the formats back, upgrading legacy shapes on the way
// in. A malformed blob rejects the whole import; there are no partial
// imports.
package codec

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"scanledger/internal/common"
	"scanledger/internal/models"
)

// EnvelopeVersion is the current cross-device transfer format version.
const EnvelopeVersion = 1

// Envelope is the transfer blob: the full ledger state plus provenance.
type Envelope struct {
	ScannedBarcodes []models.Entry `json:"scannedBarcodes"`
	DeletedBarcodes []string       `json:"deletedBarcodes"`
	ExportDate      string         `json:"exportDate"`
	Version         int            `json:"version"`
}

// ImportResult is what a successful import yields: entries to merge into the
// ledger and removed codes to append.
type ImportResult struct {
	Entries []models.Entry
	Removed []string
}

// ExportEnvelope serializes active and removed into the transfer envelope.
func ExportEnvelope(active []models.Entry, removed []string, now time.Time) ([]byte, error) {
	if active == nil {
		active = []models.Entry{}
	}
	if removed == nil {
		removed = []string{}
	}
	env := Envelope{
		ScannedBarcodes: active,
		DeletedBarcodes: removed,
		ExportDate:      now.Format(time.RFC3339),
		Version:         EnvelopeVersion,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return data, nil
}

// ExportJSON serializes entries as a pretty-printed array.
func ExportJSON(entries []models.Entry) ([]byte, error) {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode entries: %w", err)
	}
	return data, nil
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportCSV writes one `"timestamp","code"` line per entry, no header,
// preserving entry order.
func ExportCSV(entries []models.Entry) []byte {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, quoteCSV(e.Timestamp)+","+quoteCSV(e.Code))
	}
	return []byte(strings.Join(lines, "\n"))
}

// Import parses data according to the file extension of name (.json or
// .csv). Anything else, and any malformed payload, is rejected with
// common.ErrBadFormat.
func Import(name string, data []byte, now time.Time) (*ImportResult, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return importJSON(data, now)
	case ".csv":
		return importCSV(data, now)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", common.ErrBadFormat, filepath.Ext(name))
	}
}

// envelopeProbe distinguishes the transfer envelope from a bare array
// without committing to entry shapes yet.
type envelopeProbe struct {
	ScannedBarcodes json.RawMessage `json:"scannedBarcodes"`
	DeletedBarcodes json.RawMessage `json:"deletedBarcodes"`
}

func importJSON(data []byte, now time.Time) (*ImportResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty file", common.ErrBadFormat)
	}

	// bare array: entries or legacy code strings
	if trimmed[0] == '[' {
		entries, err := models.DecodeEntries(trimmed, now)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrBadFormat, err)
		}
		return &ImportResult{Entries: entries}, nil
	}

	var probe envelopeProbe
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFormat, err)
	}
	if probe.ScannedBarcodes == nil {
		return nil, fmt.Errorf("%w: missing scannedBarcodes", common.ErrBadFormat)
	}

	entries, err := models.DecodeEntries(probe.ScannedBarcodes, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFormat, err)
	}

	var removed []string
	if probe.DeletedBarcodes != nil {
		removed, err = models.DecodeRemoved(probe.DeletedBarcodes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrBadFormat, err)
		}
	}

	return &ImportResult{Entries: entries, Removed: removed}, nil
}

func isCSVHeader(record []string) bool {
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "barcode" || first == "timestamp" || first == "ts" || first == "code"
}

// importCSV accepts both export shapes: `"timestamp","code"` rows and bare
// one-code-per-line rows, with an optional header. Bare codes are upgraded
// with the import instant.
func importCSV(data []byte, now time.Time) (*ImportResult, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var entries []models.Entry
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrBadFormat, err)
		}
		if first {
			first = false
			if isCSVHeader(record) {
				continue
			}
		}

		switch len(record) {
		case 1:
			code := strings.TrimSpace(record[0])
			if code == "" {
				continue
			}
			entries = append(entries, models.NewEntry(code, now))
		case 2:
			ts := strings.TrimSpace(record[0])
			code := strings.TrimSpace(record[1])
			if code == "" {
				continue
			}
			date := now.Format(models.DateLayout)
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				date = t.Format(models.DateLayout)
			}
			entries = append(entries, models.Entry{Code: code, Date: date, Timestamp: ts})
		default:
			return nil, fmt.Errorf("%w: unexpected column count %d", common.ErrBadFormat, len(record))
		}
	}

	return &ImportResult{Entries: entries}, nil
}
