// Package frames holds the one-time fix-up for off-by-one frame filenames.
package frames

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/dataset"
)

// Renumber shifts every frame filename in every frames directory under
// root down by one (img_00001.jpg -> img_00000.jpg). Renames go through a
// temporary name first so a shifted name never collides with a file that
// has not been renamed yet. Returns the number of files renamed.
func Renumber(root string) (int, error) {
	var framesDirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == dataset.FramesSubdir {
			framesDirs = append(framesDirs, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", root, err)
	}

	renamed := 0
	for _, dir := range framesDirs {
		n, err := renumberDir(dir)
		if err != nil {
			return renamed, err
		}
		renamed += n
	}
	return renamed, nil
}

func renumberDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", dir, err)
	}

	// A frame 0 means the directory is already 0-based; shifting again
	// would clobber every frame with its successor. Skip the whole
	// directory rather than destroy data.
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if num, ok := dataset.ParseFrameNumber(e.Name()); ok && num == 0 {
			slog.Warn("frames already 0-based, skipping directory", "dir", dir, "file", e.Name())
			return 0, nil
		}
	}

	type pending struct {
		tempPath string
		newNum   int
	}
	var temps []pending

	// Pass 1: move matching files out of the way under temp names.
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		num, ok := dataset.ParseFrameNumber(e.Name())
		if !ok {
			continue
		}
		tempPath := filepath.Join(dir, fmt.Sprintf("temp_%05d.jpg", num-1))
		if err := os.Rename(filepath.Join(dir, e.Name()), tempPath); err != nil {
			return 0, fmt.Errorf("rename to temp: %w", err)
		}
		temps = append(temps, pending{tempPath: tempPath, newNum: num - 1})
	}

	// Pass 2: settle temp names into the final shifted names.
	for _, t := range temps {
		final := filepath.Join(dir, dataset.FrameFileName(t.newNum))
		if err := os.Rename(t.tempPath, final); err != nil {
			return 0, fmt.Errorf("rename to final: %w", err)
		}
	}
	if len(temps) > 0 {
		slog.Debug("renumbered frames", "dir", dir, "count", len(temps))
	}
	return len(temps), nil
}
