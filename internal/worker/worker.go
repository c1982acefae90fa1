// Package worker orchestrates the dataset preparation passes: clip
// segmentation over the split lists, then label indexing and annotation
// alignment over the segmented output.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"

	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/config"
	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/dataset"
	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/label"
	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/segment"
)

// Options configures a pipeline run.
type Options struct {
	Config   *config.Config
	Splits   []string // processed in order, e.g. ["train", "val"]
	Progress bool     // render progress bars
}

// SegmentSummary aggregates one split's segmentation results.
type SegmentSummary struct {
	Split         string
	Videos        int
	Processed     int
	Skipped       int
	Failed        int
	FramesCopied  int
	FramesMissing int
	AudioSkipped  int
}

// Segment runs the clip segmenter for every video in every split list.
// An unreadable split list is non-fatal: that split runs with zero
// videos. Only all split lists yielding zero videos aborts the run.
func Segment(ctx context.Context, opts Options) error {
	cfg := opts.Config

	idsBySplit := make(map[string][]string, len(opts.Splits))
	total := 0
	for _, split := range opts.Splits {
		path := filepath.Join(cfg.SplitDir, split+".list")
		ids, err := dataset.ReadSplitList(path)
		if err != nil {
			slog.Error("split list unreadable, processing zero videos for split",
				"split", split, "path", path, "err", err)
			continue
		}
		slog.Info("loaded split list", "split", split, "videos", len(ids))
		idsBySplit[split] = ids
		total += len(ids)
	}
	if total == 0 {
		return errors.New("no video ids loaded from any split list")
	}

	for _, split := range opts.Splits {
		ids := idsBySplit[split]
		if len(ids) == 0 {
			continue
		}
		summary, err := segmentSplit(ctx, cfg, split, ids, opts.Progress)
		if err != nil {
			return err
		}
		slog.Info("split segmentation complete",
			"split", summary.Split,
			"processed", summary.Processed,
			"skipped", summary.Skipped,
			"failed", summary.Failed,
			"frames_copied", summary.FramesCopied,
			"frames_missing", summary.FramesMissing,
			"audio_skipped", summary.AudioSkipped)
	}
	return nil
}

// segmentSplit runs a bounded worker pool over one split's videos. Videos
// are independent: each worker reads only its own inputs and writes only
// its own output subtree.
func segmentSplit(ctx context.Context, cfg *config.Config, split string, ids []string, progress bool) (SegmentSummary, error) {
	summary := SegmentSummary{Split: split, Videos: len(ids)}
	seg := segment.New(cfg)

	var bar *mpb.Bar
	var p *mpb.Progress
	if progress {
		p = mpb.New(mpb.WithWidth(64))
		bar = p.AddBar(int64(len(ids)),
			mpb.PrependDecorators(
				decor.Name(split+": "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrent)

	for _, id := range ids {
		g.Go(func() error {
			res, err := seg.Segment(gctx, id, split)
			if bar != nil {
				bar.Increment()
			}
			if err != nil {
				// Per-video processing errors are contained; only
				// cancellation stops the batch.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slog.Error("video failed", "video", id, "err", err)
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if res.Skipped {
				summary.Skipped++
			} else {
				summary.Processed++
			}
			summary.FramesCopied += res.FramesCopied
			summary.FramesMissing += res.FramesMissing
			summary.AudioSkipped += res.AudioSkipped
			return nil
		})
	}

	err := g.Wait()
	if p != nil {
		if err != nil {
			bar.Abort(true)
		}
		p.Wait()
	}
	return summary, err
}

// LabelSummary aggregates one split's indexing and alignment results.
type LabelSummary struct {
	Split         string
	ClipsIndexed  int
	IndexFailures int
	Groups        int
	DocsWritten   int
	DocsRecovered int
	DocsFailed    int
}

// Label rebuilds label skeletons and aligns annotations for every split.
// Both passes are idempotent over already-segmented output. A missing or
// unreadable global annotation file aborts the affected split only; the
// run fails if every split aborted that way.
func Label(ctx context.Context, opts Options) error {
	cfg := opts.Config

	aligned := 0
	for _, split := range opts.Splits {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary, err := labelSplit(ctx, cfg, split, opts.Progress)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			slog.Error("aligner aborted for split", "split", split, "err", err)
			continue
		}
		aligned++
		slog.Info("split labeling complete",
			"split", summary.Split,
			"clips_indexed", summary.ClipsIndexed,
			"index_failures", summary.IndexFailures,
			"clip_groups", summary.Groups,
			"docs_written", summary.DocsWritten,
			"docs_recovered", summary.DocsRecovered,
			"docs_failed", summary.DocsFailed)
	}
	if aligned == 0 {
		return fmt.Errorf("labeling failed for all splits: %v", opts.Splits)
	}
	return nil
}

func labelSplit(ctx context.Context, cfg *config.Config, split string, progress bool) (LabelSummary, error) {
	summary := LabelSummary{Split: split}
	splitDir := filepath.Join(cfg.OutputDir, split)

	slog.Info("rebuilding label skeletons", "split", split)
	summary.ClipsIndexed, summary.IndexFailures = label.IndexSplit(splitDir)

	annPath := filepath.Join(cfg.OutputDir, "av_"+split+".json")
	ann, err := label.LoadAnnotation(annPath)
	if err != nil {
		return summary, err
	}

	groups := label.MatchGroups(ann, splitDir)
	summary.Groups = len(groups)
	slog.Info("aligning annotations", "split", split, "clip_groups", len(groups))

	var bar *mpb.Bar
	var p *mpb.Progress
	if progress && len(groups) > 0 {
		p = mpb.New(mpb.WithWidth(64))
		bar = p.AddBar(int64(len(groups)),
			mpb.PrependDecorators(
				decor.Name(split+" align: "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	// Clip groups own disjoint label documents; the annotation is shared
	// read-only, so the pool needs no locking beyond the stats.
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrent)

	for _, grp := range groups {
		g.Go(func() error {
			stats, err := label.AlignGroup(gctx, grp)
			if bar != nil {
				bar.Increment()
			}
			if err != nil {
				return err
			}
			mu.Lock()
			summary.DocsWritten += stats.DocsWritten
			summary.DocsRecovered += stats.DocsRecovered
			summary.DocsFailed += stats.DocsFailed
			mu.Unlock()
			return nil
		})
	}

	err = g.Wait()
	if p != nil {
		if err != nil {
			bar.Abort(true)
		}
		p.Wait()
	}
	return summary, err
}
