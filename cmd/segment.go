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
	splits        []string
	clipSize      int
	fps           float64
	sampleRate    int
	maxConcurrent int
	copyRateLimit int
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Split videos into fixed-size clips of frames and audio",
	Long: `Segment reads the split lists, and for every listed video copies its
frame files into per-clip directories and exports the matching mono
16 kHz audio slice for each clip. Videos with missing inputs are skipped
and logged; the batch continues.`,
	RunE: runSegment,
}

func init() {
	defaults := config.Default()

	segmentCmd.Flags().StringSliceVar(&splits, "splits", []string{"train", "val"}, "dataset splits to process")
	segmentCmd.Flags().IntVar(&clipSize, "clip-size", defaults.ClipSize, "frames per clip")
	segmentCmd.Flags().Float64Var(&fps, "fps", defaults.FPS, "assumed video frame rate")
	segmentCmd.Flags().IntVar(&sampleRate, "sample-rate", defaults.SampleRate, "target audio sample rate in Hz")
	segmentCmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", defaults.MaxConcurrent, "max videos processed in parallel")
	segmentCmd.Flags().IntVar(&copyRateLimit, "copy-rate-limit", defaults.CopyRateLimit, "frame copies per second, 0 = unlimited")

	rootCmd.AddCommand(segmentCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	// Flags set on the command line win over the config file.
	if cmd.Flags().Changed("clip-size") {
		cfg.ClipSize = clipSize
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = fps
	}
	if cmd.Flags().Changed("sample-rate") {
		cfg.SampleRate = sampleRate
	}
	if cmd.Flags().Changed("max-concurrent") {
		cfg.MaxConcurrent = maxConcurrent
	}
	if cmd.Flags().Changed("copy-rate-limit") {
		cfg.CopyRateLimit = copyRateLimit
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSegment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Graceful cancellation: finish the current work items, start no new ones.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return worker.Segment(ctx, worker.Options{
		Config:   cfg,
		Splits:   splits,
		Progress: !quiet,
	})
}
