package label

import (
	"encoding/json"
	"fmt"
	"os"
)

// Box is a face bounding box.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FaceBoxes is the "face" field of a label: a list of boxes, or the
// sentinel 0 when there is no face data for the frame. The sentinel also
// covers camera wearers and persons without any track point at the frame;
// the upstream format does not distinguish those cases.
type FaceBoxes []Box

// MarshalJSON writes 0 for an empty list, matching the sentinel encoding.
func (f FaceBoxes) MarshalJSON() ([]byte, error) {
	if len(f) == 0 {
		return []byte("0"), nil
	}
	return json.Marshal([]Box(f))
}

// UnmarshalJSON accepts either the sentinel 0 or a list of boxes.
func (f *FaceBoxes) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || data[0] != '[' {
		*f = nil
		return nil
	}
	var boxes []Box
	if err := json.Unmarshal(data, &boxes); err != nil {
		return err
	}
	*f = boxes
	return nil
}

// PersonLabel is the per-frame, per-person label record.
type PersonLabel struct {
	CameraWearer bool      `json:"camera_wearer"`
	Face         FaceBoxes `json:"face"`
	Voice        int       `json:"voice"`
}

// Document maps a frame-number key to a per-person label map. The indexer
// creates the frame keys; the aligner fills in the person entries.
type Document map[string]map[string]PersonLabel

// ReadDocument loads a clip's label document from disk.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse label document %s: %w", path, err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// WriteDocument persists a label document, fully replacing the file.
func (d Document) WriteDocument(path string) error {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return fmt.Errorf("encode label document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write label document: %w", err)
	}
	return nil
}
