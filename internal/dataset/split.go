// Package dataset describes the on-disk layout of the ASD training data:
// split lists, frame image names, clip directories and label documents.
package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadSplitList reads video IDs from a split list file, one per line.
// Blank lines are dropped, surrounding whitespace is trimmed, and file
// order (including duplicates) is preserved.
func ReadSplitList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open split list: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			ids = append(ids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read split list: %w", err)
	}
	return ids, nil
}
