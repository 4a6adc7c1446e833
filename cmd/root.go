package cmd

import (
	"fmt"
	"math/rand/v2"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abhisek/drivequiz/internal/config"
	"github.com/abhisek/drivequiz/internal/logger"
	"github.com/abhisek/drivequiz/internal/media"
	"github.com/abhisek/drivequiz/internal/pool"
	"github.com/abhisek/drivequiz/internal/store"
)

var (
	v   = viper.New()
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "drivequiz",
	Short: "Weighted driving-theory quiz",
	Long: "drivequiz is a terminal quiz for driving-theory practice. Questions you answer\n" +
		"correctly and confidently come up less often; the rest keep coming back.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	RunE: runPlay,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (default: ./drivequiz.yaml or $XDG_CONFIG_HOME/drivequiz/drivequiz.yaml)")
	pf.String("questions", "", "Path to the question pool (.json, .yaml)")
	pf.String("weights", "", "Path to the weight file")
	pf.String("history", "", "Path to the answer history file")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")

	_ = v.BindPFlag("questions_path", pf.Lookup("questions"))
	_ = v.BindPFlag("weights_path", pf.Lookup("weights"))
	_ = v.BindPFlag("history_path", pf.Lookup("history"))
	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(mediaCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and the logger before any command runs. The
// interactive quiz logs to the file only; other commands also log to stderr.
func setup(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	configFile, _ := cmd.Flags().GetString("config")
	c, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	cfg = c

	interactive := cmd == rootCmd || cmd == playCmd
	l, err := logger.New(cfg.Log, !interactive)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = l
	log.Debug("config loaded", zap.String("file", v.ConfigFileUsed()), zap.String("questions", cfg.QuestionsPath))
	return nil
}

// loadPool reads the configured question pool.
func loadPool() (*pool.Pool, error) {
	p, err := pool.Load(cfg.QuestionsPath, log)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return p, nil
}

// openHistory opens the answer history. It returns nil without error when
// history is disabled by an empty path.
func openHistory() (*store.Store, error) {
	if cfg.HistoryPath == "" {
		return nil, nil
	}
	st, err := store.Open(cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return st, nil
}

// newFetcher builds the media fetcher from config.
func newFetcher() *media.Fetcher {
	f := media.NewFetcher(cfg.Media.CacheDir, &http.Client{Timeout: cfg.Media.Timeout}, log)
	if cfg.Media.Probe {
		f.Probe = media.Probe
	}
	return f
}

// newRand returns a seeded source when quiz.seed is set, nil otherwise.
func newRand() *rand.Rand {
	if cfg.Quiz.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(cfg.Quiz.Seed, cfg.Quiz.Seed))
}
