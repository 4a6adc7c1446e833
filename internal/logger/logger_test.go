package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drivequiz/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, err := New(config.LogConfig{File: path, Level: "info", MaxSizeMB: 1}, false)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Warn("weights reset")
	require.NoError(t, log.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, `"msg":"weights reset"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.False(t, strings.Contains(out, "hidden"), "debug lines must be filtered at info level")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestNew_NoSinksIsNop(t *testing.T) {
	log, err := New(config.LogConfig{Level: "info"}, false)
	require.NoError(t, err)
	log.Info("discarded")
}
