package label

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const sampleAnnotation = `{
  "videos": [
    {
      "clips": [
        {
          "clip_uid": "clip-abc",
          "persons": [
            {
              "person_id": "1",
              "camera_wearer": false,
              "tracking_paths": [
                {"track": [
                  {"frame": 37, "x": 10, "y": 20, "width": 30, "height": 40},
                  {"frame": 38, "x": 11, "y": 21, "width": 31, "height": 41}
                ]}
              ],
              "voice_segments": [{"start_frame": 10, "end_frame": 20}]
            },
            {
              "person_id": 2,
              "camera_wearer": true,
              "tracking_paths": [],
              "voice_segments": []
            }
          ]
        }
      ]
    }
  ]
}`

func TestLoadAnnotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "av_val.json")
	if err := os.WriteFile(path, []byte(sampleAnnotation), 0o644); err != nil {
		t.Fatal(err)
	}

	ann, err := LoadAnnotation(path)
	if err != nil {
		t.Fatalf("LoadAnnotation: %v", err)
	}
	if len(ann.Videos) != 1 || len(ann.Videos[0].Clips) != 1 {
		t.Fatalf("unexpected shape: %+v", ann)
	}
	clip := ann.Videos[0].Clips[0]
	if clip.ClipUID != "clip-abc" {
		t.Errorf("ClipUID = %q", clip.ClipUID)
	}
	if len(clip.Persons) != 2 {
		t.Fatalf("got %d persons, want 2", len(clip.Persons))
	}
	// String and numeric person ids both map to their string form.
	if clip.Persons[0].PersonID != "1" {
		t.Errorf("person 0 id = %q, want 1", clip.Persons[0].PersonID)
	}
	if clip.Persons[1].PersonID != "2" {
		t.Errorf("person 1 id = %q, want 2", clip.Persons[1].PersonID)
	}
}

func TestLoadAnnotation_Unreadable(t *testing.T) {
	if _, err := LoadAnnotation(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing annotation")
	}
}

func TestPersonID_Unmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want PersonID
	}{
		{`"abc"`, "abc"},
		{`7`, "7"},
		{`null`, ""},
	}
	for _, c := range cases {
		var p PersonID
		if err := json.Unmarshal([]byte(c.in), &p); err != nil {
			t.Errorf("unmarshal %s: %v", c.in, err)
			continue
		}
		if p != c.want {
			t.Errorf("unmarshal %s = %q, want %q", c.in, p, c.want)
		}
	}
}

func TestPerson_SpeakingAt_InclusiveBounds(t *testing.T) {
	p := Person{VoiceSegments: []VoiceSegment{{StartFrame: 10, EndFrame: 20}}}
	cases := []struct {
		frame int
		want  bool
	}{
		{9, false},
		{10, true},
		{15, true},
		{20, true},
		{21, false},
	}
	for _, c := range cases {
		if got := p.SpeakingAt(c.frame); got != c.want {
			t.Errorf("SpeakingAt(%d) = %v, want %v", c.frame, got, c.want)
		}
	}
}

func TestPerson_FacesAt_ExactMatchOnly(t *testing.T) {
	p := Person{
		TrackingPaths: []TrackingPath{
			{Track: []TrackPoint{
				{Frame: 37, X: 10, Y: 20, Width: 30, Height: 40},
				{Frame: 38, X: 11, Y: 21, Width: 31, Height: 41},
			}},
			{Track: []TrackPoint{
				{Frame: 37, X: 50, Y: 60, Width: 70, Height: 80},
			}},
		},
	}

	boxes := p.FacesAt(37)
	if len(boxes) != 2 {
		t.Fatalf("FacesAt(37) returned %d boxes, want 2", len(boxes))
	}
	// Track iteration order, then point order.
	if boxes[0].X != 10 || boxes[1].X != 50 {
		t.Errorf("boxes out of order: %v", boxes)
	}

	if got := p.FacesAt(36); got != nil {
		t.Errorf("FacesAt(36) = %v, want nil", got)
	}
}

func TestPerson_CameraWearerHasNoFaces(t *testing.T) {
	p := Person{
		CameraWearer: true,
		TrackingPaths: []TrackingPath{
			{Track: []TrackPoint{{Frame: 5, X: 1, Y: 2, Width: 3, Height: 4}}},
		},
	}
	if got := p.FacesAt(5); got != nil {
		t.Errorf("camera wearer FacesAt(5) = %v, want nil", got)
	}
	l := p.LabelAt(5)
	if !l.CameraWearer || l.Face != nil {
		t.Errorf("camera wearer label = %+v", l)
	}
}
