package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReplayArchive stores raw replay payloads on disk, one JSON file per
// replay, named by replay ID.
type ReplayArchive struct {
	dir string
}

// NewReplayArchive creates the archive directory if needed.
func NewReplayArchive(dir string) (*ReplayArchive, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &ReplayArchive{dir: dir}, nil
}

// Store writes the payload exactly as received to <dir>/<replayID>.json,
// replacing any previous file for that replay.
func (a *ReplayArchive) Store(replayID string, raw []byte) error {
	path := filepath.Join(a.dir, replayID+".json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Dir returns the archive directory.
func (a *ReplayArchive) Dir() string {
	return a.dir
}
