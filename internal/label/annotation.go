// Package label builds per-frame, per-person label documents for clips by
// aligning the global annotation file with the segmented output on disk.
package label

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Annotation is the global per-split annotation file (av_<split>.json).
type Annotation struct {
	Videos []AnnotatedVideo `json:"videos"`
}

// AnnotatedVideo groups the annotation clips of one source video.
type AnnotatedVideo struct {
	Clips []AnnotatedClip `json:"clips"`
}

// AnnotatedClip is one annotation clip. Its clip_uid names the clip-group
// directory produced by the segmenter.
type AnnotatedClip struct {
	ClipUID string   `json:"clip_uid"`
	Persons []Person `json:"persons"`
}

// Person is one annotated person within a clip.
type Person struct {
	PersonID      PersonID       `json:"person_id"`
	CameraWearer  bool           `json:"camera_wearer"`
	TrackingPaths []TrackingPath `json:"tracking_paths"`
	VoiceSegments []VoiceSegment `json:"voice_segments"`
}

// TrackingPath is one face track: an ordered sequence of per-frame boxes.
type TrackingPath struct {
	Track []TrackPoint `json:"track"`
}

// TrackPoint is a face bounding box observed at one absolute frame number.
type TrackPoint struct {
	Frame  int     `json:"frame"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// VoiceSegment is an inclusive [StartFrame, EndFrame] range during which
// the person is speaking.
type VoiceSegment struct {
	StartFrame int `json:"start_frame"`
	EndFrame   int `json:"end_frame"`
}

// PersonID accepts both string and numeric ids from the annotation file.
// It is used as a JSON object key in label documents, so it always
// round-trips as its string form.
type PersonID string

// UnmarshalJSON decodes a string, number, or null person id.
func (p *PersonID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PersonID(s)
		return nil
	}
	// Numeric id: keep its literal text.
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("person_id: unsupported value %s", data)
	}
	*p = PersonID(data)
	return nil
}

// FacesAt returns every bounding box recorded at exactly the given frame,
// in track order then point order. Camera wearers never have face data.
func (p *Person) FacesAt(frame int) []Box {
	if p.CameraWearer {
		return nil
	}
	var boxes []Box
	for _, path := range p.TrackingPaths {
		for _, pt := range path.Track {
			if pt.Frame == frame {
				boxes = append(boxes, Box{X: pt.X, Y: pt.Y, Width: pt.Width, Height: pt.Height})
			}
		}
	}
	return boxes
}

// SpeakingAt reports whether the frame falls inside any voice segment.
// Both segment ends are inclusive.
func (p *Person) SpeakingAt(frame int) bool {
	for _, v := range p.VoiceSegments {
		if frame >= v.StartFrame && frame <= v.EndFrame {
			return true
		}
	}
	return false
}

// LabelAt computes the person's label for one frame.
func (p *Person) LabelAt(frame int) PersonLabel {
	l := PersonLabel{CameraWearer: p.CameraWearer, Face: p.FacesAt(frame)}
	if p.SpeakingAt(frame) {
		l.Voice = 1
	}
	return l
}

// LoadAnnotation reads and parses a global annotation file. Failure here
// is fatal to the whole aligner run for the split.
func LoadAnnotation(path string) (*Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read annotation: %w", err)
	}
	var ann Annotation
	if err := json.Unmarshal(data, &ann); err != nil {
		return nil, fmt.Errorf("parse annotation %s: %w", path, err)
	}
	return &ann, nil
}
