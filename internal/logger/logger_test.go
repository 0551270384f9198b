package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"text stdout", Config{Level: "info", Format: "text", Output: "stdout"}, true},
		{"json stderr", Config{Level: "debug", Format: "json", Output: "stderr"}, true},
		{"level case insensitive", Config{Level: "WARN", Format: "text", Output: "stdout"}, true},
		{"bad level", Config{Level: "verbose", Format: "text", Output: "stdout"}, false},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.ok {
				require.NoError(t, err)
				assert.NotNil(t, log)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "core.log")
	log, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("started", Field{Key: "version", Value: "1.0.0"})
	log.Error("probe failed", errors.New("timeout"), Field{Key: "probe", Value: "cpu"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"started"`)
	assert.Contains(t, string(data), `"version":"1.0.0"`)
	assert.Contains(t, string(data), `"error":"timeout"`)
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core.log")
	log, err := New(Config{Level: "warn", Format: "text", Output: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("visible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestWithAttachesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core.log")
	log, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.With(Field{Key: "component", Value: "cron"}).Info("job added")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"cron"`)
}

func TestDiscardDropsEverything(t *testing.T) {
	log := Discard()
	log.Info("nobody hears this")
	log.Error("not even this", errors.New("boom"))
}
