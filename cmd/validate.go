package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivequiz/internal/pool"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check question pools against the schema",
	Long:  "Validate loads each question pool (the configured one by default) and reports\nschema violations, unsupported versions and inconsistent answer counts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			paths = []string{cfg.QuestionsPath}
		}

		failed := 0
		for _, path := range paths {
			p, err := pool.Load(path, log)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n    %v\n", path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n    %s\n", path, describePool(p))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d pool(s) invalid", failed, len(paths))
		}
		return nil
	},
}

// describePool summarizes a pool in one line.
func describePool(p *pool.Pool) string {
	var images, imageOptions, options int
	for _, q := range p.Questions {
		if q.Image != "" {
			images++
		}
		options += len(q.Options)
		for _, o := range q.Options {
			if o.IsImage() {
				imageOptions++
			}
		}
	}
	version := p.Version
	if version == "" {
		version = "legacy"
	}
	return fmt.Sprintf("%s, %d questions, %d options (%d image), %d images, %d videos",
		version, p.Len(), options, imageOptions, images, len(p.Videos()))
}
