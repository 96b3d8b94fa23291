package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanledger/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMultiTierStore_SaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryTier("primary")
	secondary := NewMemoryTier("secondary")
	s := NewMultiTierStore(discardLogger(), primary, secondary)

	s.Save(ctx, KeyScanned, []byte(`["A"]`))

	assert.Equal(t, []byte(`["A"]`), s.Load(ctx, KeyScanned))
	assert.Equal(t, 0, s.ErrCount())

	// fan-out: both tiers hold the blob
	p, err := primary.Get(ctx, KeyScanned)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["A"]`), p)
	sec, err := secondary.Get(ctx, KeyScanned)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["A"]`), sec)
}

func TestMultiTierStore_LoadFallsBackToSecondary(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryTier("primary")
	secondary := NewMemoryTier("secondary")
	require.NoError(t, secondary.Set(ctx, KeyScanned, []byte(`["B"]`)))

	s := NewMultiTierStore(discardLogger(), primary, secondary)
	assert.Equal(t, []byte(`["B"]`), s.Load(ctx, KeyScanned))
}

func TestMultiTierStore_LoadSkipsFailingTier(t *testing.T) {
	ctx := context.Background()
	broken := NewMemoryTier("primary")
	broken.FailGet = errors.New("quota exceeded")
	secondary := NewMemoryTier("secondary")
	require.NoError(t, secondary.Set(ctx, KeyScanned, []byte(`["B"]`)))

	s := NewMultiTierStore(discardLogger(), broken, secondary)
	assert.Equal(t, []byte(`["B"]`), s.Load(ctx, KeyScanned))
	assert.Equal(t, 1, s.ErrCount())
}

func TestMultiTierStore_SaveSurvivesFailingTier(t *testing.T) {
	ctx := context.Background()
	broken := NewMemoryTier("primary")
	broken.FailSet = errors.New("disk full")
	secondary := NewMemoryTier("secondary")

	s := NewMultiTierStore(discardLogger(), broken, secondary)
	s.Save(ctx, KeyDeleted, []byte(`["X"]`))

	// the write still reached the healthy tier
	got, err := secondary.Get(ctx, KeyDeleted)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["X"]`), got)
	assert.Equal(t, 1, s.ErrCount())
}

func TestMultiTierStore_LoadAllEmptyReturnsNil(t *testing.T) {
	s := NewMultiTierStore(discardLogger(), NewMemoryTier("primary"))
	assert.Nil(t, s.Load(context.Background(), KeyScanned))
}
