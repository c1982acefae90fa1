package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSplitList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.list")
	content := "video-a\n\n  video-b  \nvideo-a\n\t\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := ReadSplitList(path)
	if err != nil {
		t.Fatalf("ReadSplitList: %v", err)
	}

	want := []string{"video-a", "video-b", "video-a"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d: %v", len(ids), len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestReadSplitList_Missing(t *testing.T) {
	ids, err := ReadSplitList(filepath.Join(t.TempDir(), "absent.list"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if ids != nil {
		t.Errorf("expected nil ids, got %v", ids)
	}
}

func TestReadSplitList_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "val.list")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ids, err := ReadSplitList(path)
	if err != nil {
		t.Fatalf("ReadSplitList: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no ids, got %v", ids)
	}
}
