// Package segment splits a video's frame sequence and audio track into
// fixed-size, time-aligned clips.
package segment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/audio"
	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/config"
	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/dataset"
)

// Missing-input conditions. These skip the affected video without failing
// the batch.
var (
	ErrNoFrameDir  = errors.New("frame directory not found")
	ErrNoAudioFile = errors.New("audio file not found")
	ErrNoFrames    = errors.New("no frame files found")
)

// ClipRange is a half-open range [Start, End) of 0-based frame indices.
type ClipRange struct {
	Index int
	Start int
	End   int
}

// Frames returns the number of frames covered by the range.
func (r ClipRange) Frames() int { return r.End - r.Start }

// ClipRanges partitions [0, totalFrames) into contiguous, non-overlapping
// ranges of at most clipSize frames. Only the final range may be shorter.
func ClipRanges(totalFrames, clipSize int) []ClipRange {
	if totalFrames <= 0 || clipSize <= 0 {
		return nil
	}
	numClips := (totalFrames + clipSize - 1) / clipSize
	ranges := make([]ClipRange, 0, numClips)
	for k := 0; k < numClips; k++ {
		start := k * clipSize
		end := start + clipSize
		if end > totalFrames {
			end = totalFrames
		}
		ranges = append(ranges, ClipRange{Index: k, Start: start, End: end})
	}
	return ranges
}

// Result reports what one video's segmentation produced.
type Result struct {
	VideoID       string
	Skipped       bool
	SkipReason    error
	TotalFrames   int
	ClipsWritten  int
	FramesCopied  int
	FramesMissing int
	AudioSkipped  int
}

// Segmenter splits videos into clip directories under the output root.
type Segmenter struct {
	cfg     *config.Config
	limiter *rate.Limiter // optional throttle on frame copies
}

// New returns a Segmenter for the given configuration.
func New(cfg *config.Config) *Segmenter {
	s := &Segmenter{cfg: cfg}
	if cfg.CopyRateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.CopyRateLimit), cfg.CopyRateLimit)
	}
	return s
}

// Segment processes one video for one split. Missing inputs are soft
// failures: the result is marked skipped and the error is nil. Per-clip
// problems (missing source frames, zero-length audio) are logged and
// counted but never abort the video.
func (s *Segmenter) Segment(ctx context.Context, videoID, split string) (Result, error) {
	res := Result{VideoID: videoID}

	framesDir := filepath.Join(s.cfg.FramesDir, videoID)
	audioPath := filepath.Join(s.cfg.AudioDir, videoID+".wav")

	if fi, err := os.Stat(framesDir); err != nil || !fi.IsDir() {
		slog.Warn("frame directory missing, skipping video", "video", videoID)
		res.Skipped, res.SkipReason = true, ErrNoFrameDir
		return res, nil
	}
	if fi, err := os.Stat(audioPath); err != nil || fi.IsDir() {
		slog.Warn("audio file missing, skipping video", "video", videoID)
		res.Skipped, res.SkipReason = true, ErrNoAudioFile
		return res, nil
	}

	totalFrames, err := lastFrameNumber(framesDir)
	if err != nil {
		slog.Warn("no frames found, skipping video", "video", videoID, "err", err)
		res.Skipped, res.SkipReason = true, ErrNoFrames
		return res, nil
	}
	res.TotalFrames = totalFrames
	slog.Info("segmenting video", "video", videoID, "split", split, "frames", totalFrames)

	track, err := audio.Load(audioPath, s.cfg.SampleRate)
	if err != nil {
		return res, fmt.Errorf("load audio for %s: %w", videoID, err)
	}

	outVideoDir := filepath.Join(s.cfg.OutputDir, split, videoID)
	if err := os.MkdirAll(outVideoDir, 0o755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	msPerFrame := 1000 / s.cfg.FPS
	for _, r := range ClipRanges(totalFrames, s.cfg.ClipSize) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if r.Frames() <= 0 {
			slog.Warn("empty clip range, skipping", "video", videoID, "clip", r.Index)
			continue
		}

		clipDir := filepath.Join(outVideoDir, dataset.ClipDirName(r.Start))
		framesOut := filepath.Join(clipDir, dataset.FramesSubdir)
		if err := os.MkdirAll(framesOut, 0o755); err != nil {
			return res, fmt.Errorf("create clip dir: %w", err)
		}

		copied := 0
		for frame := r.Start + 1; frame <= r.End; frame++ { // source names are 1-based
			name := dataset.FrameFileName(frame)
			src := filepath.Join(framesDir, name)
			if _, err := os.Stat(src); err != nil {
				slog.Warn("source frame missing", "video", videoID, "frame", name)
				res.FramesMissing++
				continue
			}
			if s.limiter != nil {
				if err := s.limiter.Wait(ctx); err != nil {
					return res, err
				}
			}
			if err := copyFile(src, filepath.Join(framesOut, name)); err != nil {
				slog.Warn("frame copy failed", "video", videoID, "frame", name, "err", err)
				res.FramesMissing++
				continue
			}
			copied++
		}
		res.FramesCopied += copied
		res.ClipsWritten++

		if copied == 0 {
			slog.Warn("no frames copied for clip, skipping audio export",
				"video", videoID, "clip", dataset.ClipDirName(r.Start))
			res.AudioSkipped++
			continue
		}

		slice := track.Slice(float64(r.Start)*msPerFrame, float64(r.End)*msPerFrame)
		if slice.Len() == 0 {
			slog.Warn("audio slice has zero length, skipping export",
				"video", videoID, "clip", dataset.ClipDirName(r.Start))
			res.AudioSkipped++
			continue
		}
		audioOut := filepath.Join(clipDir, dataset.AudioFileName(r.Start, r.End-1))
		if err := slice.Export(audioOut); err != nil {
			slog.Error("audio export failed", "video", videoID, "path", audioOut, "err", err)
			res.AudioSkipped++
		}
	}

	return res, nil
}

// lastFrameNumber infers the 1-based frame count from the highest numbered
// frame filename. Gaps in the numbering do not affect the count.
func lastFrameNumber(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n, ok := dataset.ParseFrameNumber(e.Name()); ok && n > max {
			max = n
		}
	}
	if max == 0 {
		return 0, errors.New("no files match frame pattern")
	}
	return max, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
