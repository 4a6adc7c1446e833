package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/drivequiz/internal/weights"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset every question weight to 1",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		withHistory, _ := cmd.Flags().GetBool("history-too")

		p, err := loadPool()
		if err != nil {
			return err
		}

		if !yes {
			what := fmt.Sprintf("%d weights in %s", p.Len(), cfg.WeightsPath)
			if withHistory {
				what += " and the history in " + cfg.HistoryPath
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %s? [y/N] ", what)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if _, err := weights.NewFileStore(cfg.WeightsPath, log).Reset(p.Len()); err != nil {
			return err
		}
		log.Info("weights reset", zap.String("path", cfg.WeightsPath), zap.Int("questions", p.Len()))
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %d weights.\n", p.Len())

		if withHistory {
			hist, err := openHistory()
			if err != nil {
				return err
			}
			if hist != nil {
				defer hist.Close()
				if err := hist.Truncate(); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared history.")
			}
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	resetCmd.Flags().Bool("history-too", false, "Also clear the answer history")
}
