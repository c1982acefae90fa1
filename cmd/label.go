package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/config"
	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/worker"
)

var (
	labelSplits     []string
	labelConcurrent int
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Build per-frame, per-person label documents for segmented clips",
	Long: `Label rebuilds the per-clip label skeletons from the frame files on
disk, then populates every (frame, person) slot from the split's global
annotation file. Both passes fully regenerate their outputs, so the
command is safe to re-run over partial or corrupted results.`,
	RunE: runLabel,
}

func init() {
	labelCmd.Flags().StringSliceVar(&labelSplits, "splits", []string{"val", "train"}, "dataset splits to process")
	labelCmd.Flags().IntVarP(&labelConcurrent, "max-concurrent", "j", 0, "max clip groups aligned in parallel (0 = config default)")

	rootCmd.AddCommand(labelCmd)
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if labelConcurrent > 0 {
		cfg.MaxConcurrent = labelConcurrent
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return worker.Label(ctx, worker.Options{
		Config:   cfg,
		Splits:   labelSplits,
		Progress: !quiet,
	})
}
