package heartbeat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/autocore/internal/logger"
)

func TestDocumentMissingFileReadsEmpty(t *testing.T) {
	loader := NewLoader(t.TempDir(), logger.Discard())
	assert.Empty(t, loader.Document())
}

func TestDocumentReturnsTrimmedContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Filename),
		[]byte("\n\ncheck the garden sensors\n"), 0644))

	loader := NewLoader(dir, logger.Discard())
	assert.Equal(t, "check the garden sensors", loader.Document())
}

func TestDocumentWhitespaceOnlyReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Filename), []byte("  \n\t\n"), 0644))

	loader := NewLoader(dir, logger.Discard())
	assert.Empty(t, loader.Document())
}

func TestDocumentPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, Filename)
	loader := NewLoader(dir, logger.Discard())

	require.NoError(t, os.WriteFile(path, []byte("water the plants"), 0644))
	assert.Equal(t, "water the plants", loader.Document())

	require.NoError(t, os.Remove(path))
	assert.Empty(t, loader.Document(), "removing the document pauses heartbeat runs")
}
