package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/drivequiz/internal/app"
	"github.com/abhisek/drivequiz/internal/quiz"
	quizscreen "github.com/abhisek/drivequiz/internal/screens/quiz"
	"github.com/abhisek/drivequiz/internal/store"
	"github.com/abhisek/drivequiz/internal/weights"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz (default command)",
	RunE:  runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(c *cobra.Command) {
	c.Flags().Bool("direct", false, "Skip the home menu and start the quiz immediately")
	c.Flags().Bool("no-media", false, "Do not resolve or download question media")
}

// runPlay loads the pool and weights, builds the engine and launches the TUI.
func runPlay(cmd *cobra.Command, args []string) error {
	direct, _ := cmd.Flags().GetBool("direct")
	noMedia, _ := cmd.Flags().GetBool("no-media")

	if _, err := quiz.ParseCertainty(cfg.Quiz.DefaultCertainty); err != nil {
		return fmt.Errorf("config quiz.default_certainty: %w", err)
	}

	p, err := loadPool()
	if err != nil {
		return err
	}

	ws := weights.NewFileStore(cfg.WeightsPath, log)
	w, err := ws.Load(p.Len())
	if err != nil {
		return fmt.Errorf("load weights: %w", err)
	}

	// History is auxiliary; the quiz runs without it.
	var (
		events  store.EventRepo
		queries store.QueryRepo
	)
	hist, err := openHistory()
	if err != nil {
		log.Warn("history unavailable", zap.Error(err))
	} else if hist != nil {
		defer hist.Close()
		events, queries = hist, hist
	}

	eng, err := quiz.NewEngine(quiz.Options{
		Pool:    p,
		Weights: w,
		Store:   ws,
		Events:  events,
		Rand:    newRand(),
		Logger:  log,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	opts := app.Options{
		Engine:  eng,
		History: queries,
		Quiz: quizscreen.Config{
			DefaultCertainty: cfg.Quiz.DefaultCertainty,
			MediaTimeout:     cfg.Media.Timeout,
		},
		SkipHome: direct,
	}
	if !noMedia {
		opts.Fetcher = newFetcher()
	}

	log.Info("quiz started",
		zap.String("session", eng.SessionID()),
		zap.Int("questions", p.Len()),
		zap.String("pool_version", p.Version))

	if err := app.Run(opts); err != nil {
		return err
	}

	sum := eng.Summary()
	fmt.Printf("Answered %d/%d correctly in %s.\n",
		sum.SolvedCorrectly, sum.Solved, sum.Duration.Round(time.Second))
	return nil
}
