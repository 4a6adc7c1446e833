package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "questions.json", cfg.QuestionsPath)
	assert.Equal(t, "weights.csv", cfg.WeightsPath)
	assert.Equal(t, "history.jsonl", cfg.HistoryPath)
	assert.Equal(t, "videos", cfg.Media.CacheDir)
	assert.Equal(t, 30*time.Second, cfg.Media.Timeout)
	assert.True(t, cfg.Media.Probe)
	assert.Equal(t, "0.5", cfg.Quiz.DefaultCertainty)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `
questions_path: pools/theory.yaml
media:
  cache_dir: cache/videos
  timeout: 5s
quiz:
  default_certainty: "0.8"
  seed: 99
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("DRIVEQUIZ_WEIGHTS_PATH", "/tmp/w.csv")
	t.Setenv("DRIVEQUIZ_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "pools/theory.yaml", cfg.QuestionsPath)
	assert.Equal(t, "/tmp/w.csv", cfg.WeightsPath)
	assert.Equal(t, "cache/videos", cfg.Media.CacheDir)
	assert.Equal(t, 5*time.Second, cfg.Media.Timeout)
	assert.Equal(t, "0.8", cfg.Quiz.DefaultCertainty)
	assert.Equal(t, uint64(99), cfg.Quiz.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{QuestionsPath: "q.json", WeightsPath: "w.csv", Media: MediaConfig{Timeout: time.Second}}
	assert.NoError(t, cfg.Validate())

	cfg.Media.Timeout = 0
	assert.Error(t, cfg.Validate())

	cfg.Media.Timeout = time.Second
	cfg.WeightsPath = ""
	assert.Error(t, cfg.Validate())
}
