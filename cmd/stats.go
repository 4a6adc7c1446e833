package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivequiz/internal/store"
	"github.com/abhisek/drivequiz/internal/weights"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show weights and answer statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionLimit, _ := cmd.Flags().GetInt("sessions")
		questionLimit, _ := cmd.Flags().GetInt("questions-limit")

		p, err := loadPool()
		if err != nil {
			return err
		}

		version := p.Version
		if version == "" {
			version = "legacy"
		}
		fmt.Printf("Pool: %d questions (%s) from %s\n", p.Len(), version, cfg.QuestionsPath)

		// Read without recovery so stats never rewrites the weight file.
		w, werr := readWeights(cfg.WeightsPath)
		switch {
		case werr != nil:
			fmt.Printf("Weights: unavailable (%v)\n", werr)
			w = nil
		case len(w) != p.Len():
			fmt.Printf("Weights: %d entries for %d questions; they will be reset on the next quiz\n", len(w), p.Len())
			w = nil
		default:
			printWeightSummary(w)
		}

		hist, err := openHistory()
		if err != nil {
			return err
		}
		if hist == nil {
			fmt.Println("\nHistory is disabled (history_path is empty).")
			return nil
		}
		defer hist.Close()

		ctx := context.Background()
		sessions, err := hist.QuerySessionSummaries(ctx, store.QueryOpts{Limit: sessionLimit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		stats, err := hist.QuestionStats(ctx)
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}

		fmt.Println()
		if len(sessions) == 0 {
			fmt.Println("No finished quizzes yet.")
		} else {
			fmt.Println("Recent quizzes")
			fmt.Printf("%-16s  %-8s  %-8s  %s\n", "Date", "Duration", "Score", "Accuracy")
			fmt.Println(strings.Repeat("─", 48))
			for _, s := range sessions {
				var acc float64
				if s.Solved > 0 {
					acc = float64(s.SolvedCorrectly) / float64(s.Solved) * 100
				}
				fmt.Printf("%-16s  %-8s  %-8s  %.0f%%\n",
					s.Timestamp.Local().Format("2006-01-02 15:04"),
					fmt.Sprintf("%d:%02d", s.DurationSecs/60, s.DurationSecs%60),
					fmt.Sprintf("%d/%d", s.SolvedCorrectly, s.Solved),
					acc,
				)
			}
		}

		hardest := hardestQuestions(stats, p.Len(), questionLimit)
		if len(hardest) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Println("Hardest questions")
		fmt.Printf("%-5s  %-8s  %-8s  %-7s  %s\n", "#", "Attempts", "Accuracy", "Weight", "Prompt")
		fmt.Println(strings.Repeat("─", 80))
		for _, st := range hardest {
			weight := "-"
			if w != nil {
				weight = fmt.Sprintf("%.3g", w[st.QuestionIndex])
			}
			prompt := p.Questions[st.QuestionIndex].Prompt
			if r := []rune(prompt); len(r) > 48 {
				prompt = string(r[:47]) + "…"
			}
			fmt.Printf("%-5d  %-8d  %-8s  %-7s  %s\n",
				st.QuestionIndex+1, st.Attempts, fmt.Sprintf("%.0f%%", st.Accuracy()*100), weight, prompt)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("sessions", 10, "Number of recent quizzes to list (0 = all)")
	statsCmd.Flags().Int("questions-limit", 10, "Number of hardest questions to list")
}

func readWeights(path string) (weights.Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return weights.Parse(f)
}

func printWeightSummary(w weights.Vector) {
	var sum float64
	var low, zero int
	for _, x := range w {
		sum += x
		if x == 0 {
			zero++
		} else if x < 0.25 {
			low++
		}
	}
	mean := 0.0
	if len(w) > 0 {
		mean = sum / float64(len(w))
	}
	fmt.Printf("Weights: mean %.3g, %d below 0.25, %d at zero\n", mean, low, zero)
}

// hardestQuestions returns stats for questions still in the pool, lowest
// accuracy first, ties broken by more attempts.
func hardestQuestions(stats map[int]*store.QuestionStat, poolSize, limit int) []*store.QuestionStat {
	var out []*store.QuestionStat
	for _, st := range stats {
		if st.QuestionIndex < poolSize && st.Attempts > 0 {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].Accuracy(), out[j].Accuracy()
		if ai != aj {
			return ai < aj
		}
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts > out[j].Attempts
		}
		return out[i].QuestionIndex < out[j].QuestionIndex
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
