package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTier_RoundTrip(t *testing.T) {
	ctx := context.Background()
	tier, err := NewFileTier("file", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "file", tier.Name())

	require.NoError(t, tier.Set(ctx, KeyScanned, []byte(`[{"code":"A"}]`)))

	got, err := tier.Get(ctx, KeyScanned)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"code":"A"}]`), got)
}

func TestFileTier_MissingKeyIsNotAnError(t *testing.T) {
	tier, err := NewFileTier("file", t.TempDir())
	require.NoError(t, err)

	got, err := tier.Get(context.Background(), KeyScanned)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileTier_OverwriteReplacesBlob(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tier, err := NewFileTier("file", dir)
	require.NoError(t, err)

	require.NoError(t, tier.Set(ctx, KeyScanned, []byte(`["old"]`)))
	require.NoError(t, tier.Set(ctx, KeyScanned, []byte(`["new"]`)))

	got, err := tier.Get(ctx, KeyScanned)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["new"]`), got)

	// no temp file left behind
	_, err = os.Stat(filepath.Join(dir, KeyScanned+".json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewFileTier_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileTier("file", dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
