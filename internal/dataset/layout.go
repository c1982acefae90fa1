package dataset

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// FramesSubdir is the name of the frame image subdirectory inside a
	// clip directory.
	FramesSubdir = "frames"

	clipDirPrefix = "clip_f"
	frameExt      = ".jpg"
	framePrefix   = "img_"
)

// FrameFileName formats a 1-based frame number as its on-disk image name,
// e.g. 37 -> img_00037.jpg.
func FrameFileName(n int) string {
	return fmt.Sprintf("img_%05d.jpg", n)
}

// ParseFrameNumber extracts the frame number from an image filename.
// Returns ok=false for names that do not follow the img_NNNNN.jpg pattern.
func ParseFrameNumber(name string) (int, bool) {
	if !strings.HasPrefix(name, framePrefix) || !strings.HasSuffix(name, frameExt) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, framePrefix), frameExt)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// IsFrameFile reports whether name looks like a frame image file.
func IsFrameFile(name string) bool {
	_, ok := ParseFrameNumber(name)
	return ok
}

// ClipDirName formats a clip's 0-based start frame as its directory name,
// e.g. 450 -> clip_f000450.
func ClipDirName(startFrame int) string {
	return fmt.Sprintf("%s%06d", clipDirPrefix, startFrame)
}

// IsClipDir reports whether name is a clip directory name.
func IsClipDir(name string) bool {
	return strings.HasPrefix(name, clipDirPrefix)
}

// AudioFileName names a clip's audio export by its start and inclusive end
// frame, e.g. audio_f000450_f000899.wav.
func AudioFileName(startFrame, endFrameInclusive int) string {
	return fmt.Sprintf("audio_f%06d_f%06d.wav", startFrame, endFrameInclusive)
}

// LabelFilePath returns the path of the label document for a clip
// directory. The filename is the last four characters of the clip
// directory name plus ".json" (clip_f000450 -> 0450.json).
func LabelFilePath(clipDir string) string {
	base := filepath.Base(clipDir)
	name := base
	if len(base) > 4 {
		name = base[len(base)-4:]
	}
	return filepath.Join(clipDir, name+".json")
}
