package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DRIVEQUIZ_WEIGHTS_PATH.
const EnvPrefix = "DRIVEQUIZ"

type Config struct {
	QuestionsPath string      `mapstructure:"questions_path"`
	WeightsPath   string      `mapstructure:"weights_path"`
	HistoryPath   string      `mapstructure:"history_path"`
	Media         MediaConfig `mapstructure:"media"`
	Quiz          QuizConfig  `mapstructure:"quiz"`
	Log           LogConfig   `mapstructure:"log"`
}

type MediaConfig struct {
	CacheDir string        `mapstructure:"cache_dir"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Probe    bool          `mapstructure:"probe"`
}

type QuizConfig struct {
	DefaultCertainty string `mapstructure:"default_certainty"`
	Seed             uint64 `mapstructure:"seed"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("questions_path", "questions.json")
	v.SetDefault("weights_path", "weights.csv")
	v.SetDefault("history_path", "history.jsonl")

	v.SetDefault("media.cache_dir", "videos")
	v.SetDefault("media.timeout", "30s")
	v.SetDefault("media.probe", true)

	v.SetDefault("quiz.default_certainty", "0.5")
	v.SetDefault("quiz.seed", 0)

	v.SetDefault("log.file", filepath.Join("logs", "drivequiz.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 30)
}

// Load reads configuration into v and decodes it. When configFile is empty,
// drivequiz.yaml is looked up in the working directory and in
// $XDG_CONFIG_HOME/drivequiz; a missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("drivequiz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configHome(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "drivequiz"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	if c.QuestionsPath == "" {
		return errors.New("config: questions_path must be set")
	}
	if c.WeightsPath == "" {
		return errors.New("config: weights_path must be set")
	}
	if c.Media.Timeout <= 0 {
		return fmt.Errorf("config: media.timeout must be positive, got %s", c.Media.Timeout)
	}
	return nil
}

// configHome returns $XDG_CONFIG_HOME, falling back to ~/.config.
func configHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}
