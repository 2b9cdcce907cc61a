// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func openTestRing(t *testing.T, max int) *Ring {
	t.Helper()
	ring, err := Open(filepath.Join(t.TempDir(), "logs.db"), max)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { ring.Close() })
	return ring
}

func TestAppendAndList(t *testing.T) {
	ring := openTestRing(t, 10)

	err := ring.Append(Entry{
		Level:    LevelError,
		Category: "chat",
		Message:  "message send failed",
		ChatID:   "chat_1",
		HubID:    "hub_dev",
		Payload:  json.RawMessage(`{"attempt":2}`),
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := ring.List(Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != LevelError || e.Category != "chat" || e.ChatID != "chat_1" {
		t.Errorf("entry fields lost: %+v", e)
	}
	if string(e.Payload) != `{"attempt":2}` {
		t.Errorf("payload lost: %s", e.Payload)
	}
	if e.Timestamp.IsZero() {
		t.Error("timestamp should be stamped")
	}
}

func TestRingTrimsOldest(t *testing.T) {
	ring := openTestRing(t, 5)

	for i := 0; i < 12; i++ {
		if err := ring.Log(LevelInfo, "test", fmt.Sprintf("entry %d", i)); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	n, err := ring.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 5 {
		t.Errorf("expected ring capped at 5, got %d", n)
	}

	entries, _ := ring.List(Filter{})
	if entries[0].Message != "entry 11" {
		t.Errorf("newest entry should survive, got %q", entries[0].Message)
	}
	if entries[len(entries)-1].Message != "entry 7" {
		t.Errorf("oldest surviving entry wrong: %q", entries[len(entries)-1].Message)
	}
}

func TestListFilters(t *testing.T) {
	ring := openTestRing(t, 20)
	ring.Log(LevelInfo, "sync", "hubs pulled")
	ring.Log(LevelError, "sync", "agents failed")
	ring.Log(LevelError, "chat", "send failed")

	errs, err := ring.List(Filter{Level: LevelError})
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 2 {
		t.Errorf("expected 2 error entries, got %d", len(errs))
	}

	syncErrs, _ := ring.List(Filter{Level: LevelError, Category: "sync"})
	if len(syncErrs) != 1 || syncErrs[0].Message != "agents failed" {
		t.Errorf("combined filter wrong: %+v", syncErrs)
	}
}

func TestExportJSON(t *testing.T) {
	ring := openTestRing(t, 10)
	ring.Log(LevelInfo, "app", "first")
	ring.Log(LevelInfo, "app", "second")

	path := filepath.Join(t.TempDir(), "export.json")
	if err := ring.ExportJSON(path); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(entries) != 2 || entries[0].Message != "first" {
		t.Errorf("export should be oldest first: %+v", entries)
	}
}

func TestClear(t *testing.T) {
	ring := openTestRing(t, 10)
	ring.Log(LevelInfo, "app", "something")
	if err := ring.Clear(); err != nil {
		t.Fatal(err)
	}
	if n, _ := ring.Count(); n != 0 {
		t.Errorf("expected empty ring, got %d", n)
	}
}

func TestClosedRing(t *testing.T) {
	ring := openTestRing(t, 10)
	ring.Close()
	if err := ring.Log(LevelInfo, "app", "late"); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	// Closing twice is fine.
	if err := ring.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs.db")

	ring, err := Open(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	ring.Log(LevelWarn, "app", "survives restart")
	ring.Close()

	reopened, err := Open(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	entries, _ := reopened.List(Filter{})
	if len(entries) != 1 || entries[0].Message != "survives restart" {
		t.Errorf("entries should persist across reopen: %+v", entries)
	}
}
