package label

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/dataset"
)

// ClipGroup pairs one annotation clip with its on-disk clip-group
// directory. Each group owns a disjoint set of label documents, so groups
// can be aligned concurrently.
type ClipGroup struct {
	UID     string
	Dir     string
	Persons []Person
}

// MatchGroups returns the annotation clips whose clip_uid has a matching
// directory under splitDir. Annotation clips without segmented output are
// skipped. Clips sharing a clip_uid collapse into one group (their
// persons merged) so no two groups ever target the same directory.
func MatchGroups(ann *Annotation, splitDir string) []ClipGroup {
	var groups []ClipGroup
	byUID := map[string]int{}
	for _, video := range ann.Videos {
		for _, clip := range video.Clips {
			if i, ok := byUID[clip.ClipUID]; ok {
				groups[i].Persons = append(groups[i].Persons, clip.Persons...)
				continue
			}
			dir := filepath.Join(splitDir, clip.ClipUID)
			if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
				continue
			}
			byUID[clip.ClipUID] = len(groups)
			groups = append(groups, ClipGroup{UID: clip.ClipUID, Dir: dir, Persons: clip.Persons})
		}
	}
	return groups
}

// GroupStats counts the aligner's work for one clip group.
type GroupStats struct {
	DocsWritten   int
	DocsRecovered int
	DocsFailed    int
}

// AlignGroup populates every label document inside one clip-group
// directory. All persons are applied in a single read-modify-write per
// document, so no person's entries can be lost to a later write. A
// document that fails to parse is rebuilt from an empty one.
func AlignGroup(ctx context.Context, g ClipGroup) (GroupStats, error) {
	var stats GroupStats

	entries, err := os.ReadDir(g.Dir)
	if err != nil {
		slog.Warn("cannot read clip group directory", "clip_uid", g.UID, "err", err)
		return stats, nil
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if !e.IsDir() || !dataset.IsClipDir(e.Name()) {
			continue
		}
		clipDir := filepath.Join(g.Dir, e.Name())
		labelPath := dataset.LabelFilePath(clipDir)
		if _, err := os.Stat(labelPath); err != nil {
			continue // indexer has not produced a document for this clip
		}

		doc, err := ReadDocument(labelPath)
		if err != nil {
			slog.Warn("label document unreadable, regenerating from empty",
				"clip_uid", g.UID, "clip", e.Name(), "err", err)
			doc = Document{}
			stats.DocsRecovered++
		}

		applyPersons(doc, g.Persons)

		if err := doc.WriteDocument(labelPath); err != nil {
			slog.Error("failed to write label document", "path", labelPath, "err", err)
			stats.DocsFailed++
			continue
		}
		stats.DocsWritten++
	}
	return stats, nil
}

// applyPersons fills in every (frame, person) slot of the document.
// Non-numeric frame keys are ignored.
func applyPersons(doc Document, persons []Person) {
	for key, slot := range doc {
		frame, err := strconv.Atoi(key)
		if err != nil || frame < 0 {
			continue
		}
		if slot == nil {
			slot = map[string]PersonLabel{}
			doc[key] = slot
		}
		for i := range persons {
			p := &persons[i]
			slot[string(p.PersonID)] = p.LabelAt(frame)
		}
	}
}
