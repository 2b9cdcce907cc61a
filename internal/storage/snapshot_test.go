// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"testing"

	"github.com/jeranaias/mangaba/internal/directory"
	"github.com/jeranaias/mangaba/internal/model"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSnapshotStore failed: %v", err)
	}
	return store
}

func TestLoadMissingReturnsEmpty(t *testing.T) {
	store := newTestStore(t)
	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Chats) != 0 || len(snap.Hubs) != 0 {
		t.Errorf("expected empty snapshot, got %d chats, %d hubs", len(snap.Chats), len(snap.Hubs))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	chat := model.NewChat()
	chat.Append(model.NewUserMessage("hello there"))
	hub := directory.NewHub("Engineering", "dev work", "development")

	snap := &Snapshot{
		Chats:           []*model.Chat{chat},
		Hubs:            []*directory.Hub{hub},
		CurrentChatID:   chat.ID,
		SelectedHubID:   hub.ID,
		SelectedAgentID: "agent_debugger",
	}
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Chats) != 1 || loaded.Chats[0].ID != chat.ID {
		t.Errorf("chat not round-tripped: %+v", loaded.Chats)
	}
	if loaded.Chats[0].Title != "hello there" {
		t.Errorf("expected derived title, got %q", loaded.Chats[0].Title)
	}
	if len(loaded.Hubs) != 1 || loaded.Hubs[0].Name != "Engineering" {
		t.Errorf("hub not round-tripped: %+v", loaded.Hubs)
	}
	if loaded.SelectedAgentID != "agent_debugger" {
		t.Errorf("selection lost: %q", loaded.SelectedAgentID)
	}
	if loaded.SavedAt.IsZero() {
		t.Error("SavedAt should be set on Save")
	}
}

func TestLoadCorrupt(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestBackup(t *testing.T) {
	store := newTestStore(t)

	// Nothing to back up yet.
	path, err := store.Backup()
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path for missing snapshot, got %q", path)
	}

	if err := store.Save(&Snapshot{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	path, err = store.Backup()
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if path == "" {
		t.Fatal("expected backup path")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("backup file missing: %v", err)
	}
}
