package label

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/dataset"
)

// BuildSkeleton enumerates the frame files in a clip's frames directory
// and returns a document with one empty entry per frame number.
func BuildSkeleton(framesDir string) (Document, error) {
	entries, err := os.ReadDir(framesDir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}
	doc := Document{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n, ok := dataset.ParseFrameNumber(e.Name()); ok {
			doc[strconv.Itoa(n)] = map[string]PersonLabel{}
		}
	}
	return doc, nil
}

// IndexClip regenerates the label document skeleton for one clip
// directory, overwriting any existing document. A clip without a frames
// subdirectory is skipped silently; the first return value reports
// whether a document was written.
func IndexClip(clipDir string) (bool, error) {
	framesDir := filepath.Join(clipDir, dataset.FramesSubdir)
	if fi, err := os.Stat(framesDir); err != nil || !fi.IsDir() {
		return false, nil
	}
	doc, err := BuildSkeleton(framesDir)
	if err != nil {
		return false, err
	}
	if err := doc.WriteDocument(dataset.LabelFilePath(clipDir)); err != nil {
		return false, err
	}
	return true, nil
}

// IndexSplit rebuilds the label skeletons for every clip directory under
// one split directory. Per-clip failures are logged and counted, never
// fatal.
func IndexSplit(splitDir string) (indexed, failed int) {
	videos, err := os.ReadDir(splitDir)
	if err != nil {
		slog.Warn("cannot read split directory", "dir", splitDir, "err", err)
		return 0, 0
	}
	for _, v := range videos {
		if !v.IsDir() {
			continue
		}
		videoDir := filepath.Join(splitDir, v.Name())
		clips, err := os.ReadDir(videoDir)
		if err != nil {
			slog.Warn("cannot read video directory", "dir", videoDir, "err", err)
			failed++
			continue
		}
		for _, c := range clips {
			if !c.IsDir() || !dataset.IsClipDir(c.Name()) {
				continue
			}
			ok, err := IndexClip(filepath.Join(videoDir, c.Name()))
			if err != nil {
				slog.Warn("indexing clip failed", "video", v.Name(), "clip", c.Name(), "err", err)
				failed++
				continue
			}
			if ok {
				indexed++
			}
		}
	}
	return indexed, failed
}
