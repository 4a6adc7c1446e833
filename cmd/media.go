package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/drivequiz/internal/media"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage question media",
}

var mediaPrefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Download every video in the pool into the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		probe, _ := cmd.Flags().GetBool("probe")

		p, err := loadPool()
		if err != nil {
			return err
		}
		refs := p.Videos()
		if len(refs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "The pool has no videos.")
			return nil
		}

		fetcher := newFetcher()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var cached, fetched, failed int
		for i, ref := range refs {
			before := alreadyCached(fetcher, ref)

			rctx, cancel := context.WithTimeout(ctx, cfg.Media.Timeout)
			path, err := fetcher.Resolve(rctx, ref)
			cancel()
			if err != nil {
				failed++
				log.Warn("prefetch failed", zap.String("ref", ref), zap.Error(err))
				fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] ✗ %s: %v\n", i+1, len(refs), ref, err)
				continue
			}

			status := "fetched"
			if before {
				status = "cached"
				cached++
			} else {
				fetched++
			}
			line := fmt.Sprintf("[%d/%d] ✓ %s (%s)", i+1, len(refs), path, status)
			if probe {
				if info, err := media.Probe(path); err == nil {
					line += "  " + info.String()
				} else {
					log.Debug("probe failed", zap.String("path", path), zap.Error(err))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%d fetched, %d already cached, %d failed\n", fetched, cached, failed)
		if failed > 0 {
			return fmt.Errorf("%d video(s) could not be fetched", failed)
		}
		return nil
	},
}

func init() {
	mediaPrefetchCmd.Flags().Bool("probe", false, "Print duration and size of each video (needs ffprobe)")
	mediaCmd.AddCommand(mediaPrefetchCmd)
}

// alreadyCached reports whether a remote ref is in the cache or a local ref
// exists.
func alreadyCached(f *media.Fetcher, ref string) bool {
	path := ref
	if media.IsRemote(ref) {
		path = f.CachePath(ref)
	}
	st, err := os.Stat(path)
	return err == nil && st.Size() > 0
}
