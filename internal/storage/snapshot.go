// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/mangaba/internal/directory"
	"github.com/jeranaias/mangaba/internal/model"
	"github.com/jeranaias/mangaba/internal/util"
)

// SnapshotFile is the file name under the data directory.
const SnapshotFile = "state.json"

// SnapshotVersion is bumped when the on-disk shape changes.
const SnapshotVersion = 1

// ErrCorrupt indicates the snapshot file exists but cannot be decoded.
var ErrCorrupt = errors.New("snapshot file is corrupt")

// Snapshot is the complete persisted application state.
type Snapshot struct {
	Version         int              `json:"version"`
	SavedAt         time.Time        `json:"savedAt"`
	Chats           []*model.Chat    `json:"chats"`
	Hubs            []*directory.Hub `json:"hubs"`
	CurrentChatID   string           `json:"currentChatId,omitempty"`
	SelectedHubID   string           `json:"selectedHubId,omitempty"`
	SelectedAgentID string           `json:"selectedAgentId,omitempty"`
}

// SnapshotStore reads and writes the snapshot file.
type SnapshotStore struct {
	// Dir is the data directory the snapshot lives in.
	Dir string
}

// NewSnapshotStore creates a store rooted at dir, creating the directory
// if needed.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &SnapshotStore{Dir: dir}, nil
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string {
	return filepath.Join(s.Dir, SnapshotFile)
}

// Save writes the snapshot atomically.
func (s *SnapshotStore) Save(snap *Snapshot) error {
	snap.Version = SnapshotVersion
	snap.SavedAt = time.Now()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := util.AtomicWriteFile(s.Path(), data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing file returns an empty snapshot with
// no error; an undecodable file returns ErrCorrupt so the caller can
// decide whether to fall back to defaults.
func (s *SnapshotStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{Version: SnapshotVersion}, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if snap.Chats == nil {
		snap.Chats = []*model.Chat{}
	}
	if snap.Hubs == nil {
		snap.Hubs = []*directory.Hub{}
	}
	return &snap, nil
}

// Backup copies the current snapshot aside before a risky operation like
// import. Returns the backup path, or "" when there is nothing to back up.
func (s *SnapshotStore) Backup() (string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read snapshot: %w", err)
	}

	backup := filepath.Join(s.Dir, fmt.Sprintf("state-%s.bak.json", time.Now().Format("20060102-150405")))
	if err := util.AtomicWriteFile(backup, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backup, nil
}
