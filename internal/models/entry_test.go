package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry_DateAndTimestampAgree(t *testing.T) {
	now := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	e := NewEntry("ABC123", now)

	assert.Equal(t, "ABC123", e.Code)
	assert.Equal(t, "2024-01-02", e.Date)
	assert.Equal(t, "2024-01-02T15:04:05Z", e.Timestamp)
}

func TestDecodeEntries_StructuredShape(t *testing.T) {
	data := []byte(`[{"code":"A1","date":"2024-01-01","ts":"2024-01-01T00:00:00Z"}]`)

	got, err := DecodeEntries(data, time.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Entry{Code: "A1", Date: "2024-01-01", Timestamp: "2024-01-01T00:00:00Z"}, got[0])
}

func TestDecodeEntries_UpgradesLegacyStrings(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	data := []byte(`["X1",{"code":"A1","date":"2024-01-01","ts":"2024-01-01T00:00:00Z"}]`)

	got, err := DecodeEntries(data, now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Entry{Code: "X1", Date: "2024-06-01", Timestamp: "2024-06-01T12:00:00Z"}, got[0])
	assert.Equal(t, "A1", got[1].Code)
}

func TestDecodeEntries_RejectsNonArray(t *testing.T) {
	_, err := DecodeEntries([]byte(`{"code":"A1"}`), time.Now())
	require.Error(t, err)
}

func TestDecodeRemoved_NormalizesMixedShapes(t *testing.T) {
	data := []byte(`["X1",{"code":"A1","date":"2024-01-01","ts":"2024-01-01T00:00:00Z"},"X1"]`)

	got, err := DecodeRemoved(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"X1", "A1", "X1"}, got)
}
