package dataset

import (
	"path/filepath"
	"testing"
)

func TestFrameFileName(t *testing.T) {
	if got := FrameFileName(37); got != "img_00037.jpg" {
		t.Errorf("FrameFileName(37) = %q", got)
	}
	if got := FrameFileName(123456); got != "img_123456.jpg" {
		t.Errorf("FrameFileName(123456) = %q", got)
	}
}

func TestParseFrameNumber(t *testing.T) {
	cases := []struct {
		name string
		num  int
		ok   bool
	}{
		{"img_00001.jpg", 1, true},
		{"img_00450.jpg", 450, true},
		{"img_123456.jpg", 123456, true},
		{"img_00001.png", 0, false},
		{"frame_00001.jpg", 0, false},
		{"img_.jpg", 0, false},
		{"img_abc.jpg", 0, false},
		{"audio_f000000_f000449.wav", 0, false},
	}
	for _, c := range cases {
		n, ok := ParseFrameNumber(c.name)
		if ok != c.ok || n != c.num {
			t.Errorf("ParseFrameNumber(%q) = (%d, %v), want (%d, %v)", c.name, n, ok, c.num, c.ok)
		}
	}
}

func TestClipDirName(t *testing.T) {
	if got := ClipDirName(0); got != "clip_f000000" {
		t.Errorf("ClipDirName(0) = %q", got)
	}
	if got := ClipDirName(450); got != "clip_f000450" {
		t.Errorf("ClipDirName(450) = %q", got)
	}
	if !IsClipDir("clip_f000450") {
		t.Error("IsClipDir(clip_f000450) = false")
	}
	if IsClipDir("frames") {
		t.Error("IsClipDir(frames) = true")
	}
}

func TestAudioFileName(t *testing.T) {
	if got := AudioFileName(450, 899); got != "audio_f000450_f000899.wav" {
		t.Errorf("AudioFileName(450, 899) = %q", got)
	}
}

func TestLabelFilePath(t *testing.T) {
	got := LabelFilePath(filepath.Join("dataset", "val", "vid", "clip_f000450"))
	want := filepath.Join("dataset", "val", "vid", "clip_f000450", "0450.json")
	if got != want {
		t.Errorf("LabelFilePath = %q, want %q", got, want)
	}
}
