package label

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/dataset"
)

func makeClipDir(t *testing.T, root, video, clip string, frameNums ...int) string {
	t.Helper()
	clipDir := filepath.Join(root, video, clip)
	framesDir := filepath.Join(clipDir, dataset.FramesSubdir)
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, n := range frameNums {
		path := filepath.Join(framesDir, dataset.FrameFileName(n))
		if err := os.WriteFile(path, []byte("jpeg"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return clipDir
}

func docKeys(doc Document) map[string]bool {
	keys := make(map[string]bool, len(doc))
	for k := range doc {
		keys[k] = true
	}
	return keys
}

func TestBuildSkeleton_KeysMatchFrames(t *testing.T) {
	clipDir := makeClipDir(t, t.TempDir(), "vid", "clip_f000000", 1, 2, 5, 450)
	framesDir := filepath.Join(clipDir, dataset.FramesSubdir)

	// Non-frame files are ignored.
	if err := os.WriteFile(filepath.Join(framesDir, "thumbs.db"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := BuildSkeleton(framesDir)
	if err != nil {
		t.Fatalf("BuildSkeleton: %v", err)
	}
	want := map[string]bool{"1": true, "2": true, "5": true, "450": true}
	if !reflect.DeepEqual(docKeys(doc), want) {
		t.Errorf("keys = %v, want %v", docKeys(doc), want)
	}
	for k, persons := range doc {
		if len(persons) != 0 {
			t.Errorf("frame %s: skeleton has %d persons, want 0", k, len(persons))
		}
	}
}

func TestIndexClip_OverwritesAndIsIdempotent(t *testing.T) {
	clipDir := makeClipDir(t, t.TempDir(), "vid", "clip_f000000", 1, 2, 3)
	labelPath := dataset.LabelFilePath(clipDir)

	// Pre-existing content is discarded, even populated entries.
	stale := Document{"99": {"p1": {Voice: 1}}}
	if err := stale.WriteDocument(labelPath); err != nil {
		t.Fatal(err)
	}

	ok, err := IndexClip(clipDir)
	if err != nil || !ok {
		t.Fatalf("IndexClip = (%v, %v)", ok, err)
	}
	first, err := ReadDocument(labelPath)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"1": true, "2": true, "3": true}
	if !reflect.DeepEqual(docKeys(first), want) {
		t.Errorf("keys after first index = %v, want %v", docKeys(first), want)
	}

	// Running again yields the same key set.
	if _, err := IndexClip(clipDir); err != nil {
		t.Fatal(err)
	}
	second, err := ReadDocument(labelPath)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(docKeys(second), docKeys(first)) {
		t.Errorf("indexing is not idempotent: %v vs %v", docKeys(second), docKeys(first))
	}
}

func TestIndexClip_SkipsWithoutFramesDir(t *testing.T) {
	clipDir := filepath.Join(t.TempDir(), "vid", "clip_f000000")
	if err := os.MkdirAll(clipDir, 0o755); err != nil {
		t.Fatal(err)
	}
	ok, err := IndexClip(clipDir)
	if err != nil {
		t.Fatalf("IndexClip: %v", err)
	}
	if ok {
		t.Error("expected silent skip for clip without frames dir")
	}
	if _, err := os.Stat(dataset.LabelFilePath(clipDir)); !os.IsNotExist(err) {
		t.Error("no label document should be written for skipped clip")
	}
}

func TestIndexSplit(t *testing.T) {
	splitDir := t.TempDir()
	makeClipDir(t, splitDir, "vid-a", "clip_f000000", 1, 2)
	makeClipDir(t, splitDir, "vid-a", "clip_f000450", 451)
	makeClipDir(t, splitDir, "vid-b", "clip_f000000", 1)
	// A clip directory without frames is skipped, not counted as failure.
	if err := os.MkdirAll(filepath.Join(splitDir, "vid-b", "clip_f000450"), 0o755); err != nil {
		t.Fatal(err)
	}

	indexed, failed := IndexSplit(splitDir)
	if indexed != 3 {
		t.Errorf("indexed = %d, want 3", indexed)
	}
	if failed != 0 {
		t.Errorf("failed = %d, want 0", failed)
	}
}
