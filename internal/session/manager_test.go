// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"testing"
	"time"
)

func TestDirtyTracking(t *testing.T) {
	m := NewManager(DefaultConfig())
	if m.IsDirty() {
		t.Error("new session should be clean")
	}
	m.MarkDirty()
	if !m.IsDirty() {
		t.Error("MarkDirty should set dirty")
	}
	m.MarkClean()
	if m.IsDirty() {
		t.Error("MarkClean should clear dirty")
	}
}

func TestShouldAutoSave(t *testing.T) {
	m := NewManager(Config{AutoSaveEnabled: true, AutoSaveInterval: time.Millisecond})
	if m.ShouldAutoSave() {
		t.Error("clean session should not auto-save")
	}
	m.MarkDirty()
	time.Sleep(5 * time.Millisecond)
	if !m.ShouldAutoSave() {
		t.Error("dirty session past interval should auto-save")
	}

	m.SetAutoSaveEnabled(false)
	if m.ShouldAutoSave() {
		t.Error("disabled auto-save should never trigger")
	}
}

func TestCheckRunsCallback(t *testing.T) {
	m := NewManager(Config{AutoSaveEnabled: true, AutoSaveInterval: time.Millisecond})
	var saves int
	m.SetAutoSaveCallback(func() error {
		saves++
		return nil
	})

	m.MarkDirty()
	time.Sleep(5 * time.Millisecond)
	if !m.Check() {
		t.Error("Check should save and report success")
	}
	if saves != 1 {
		t.Errorf("expected 1 save, got %d", saves)
	}
	if m.IsDirty() {
		t.Error("successful save should mark clean")
	}

	// Clean again: no further saves.
	if m.Check() {
		t.Error("clean session should not save")
	}
}

func TestCheckKeepsDirtyOnFailure(t *testing.T) {
	m := NewManager(Config{AutoSaveEnabled: true, AutoSaveInterval: time.Millisecond})
	m.SetAutoSaveCallback(func() error {
		return errors.New("disk full")
	})
	m.MarkDirty()
	time.Sleep(5 * time.Millisecond)

	if m.Check() {
		t.Error("failed save should report false")
	}
	if !m.IsDirty() {
		t.Error("failed save must keep the state dirty")
	}
}

func TestFlush(t *testing.T) {
	m := NewManager(DefaultConfig())
	var saves int
	m.SetAutoSaveCallback(func() error {
		saves++
		return nil
	})

	// Clean: flush is a no-op.
	if err := m.Flush(); err != nil {
		t.Fatal(err)
	}
	if saves != 0 {
		t.Error("clean flush should not save")
	}

	// Dirty: flush saves immediately, ignoring the interval.
	m.MarkDirty()
	if err := m.Flush(); err != nil {
		t.Fatal(err)
	}
	if saves != 1 || m.IsDirty() {
		t.Errorf("flush should save and clean: saves=%d dirty=%v", saves, m.IsDirty())
	}
}

func TestSessionIDFormat(t *testing.T) {
	m := NewManager(DefaultConfig())
	if id := m.SessionID(); len(id) == 0 || id[:5] != "sess_" {
		t.Errorf("unexpected session id %q", id)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{2 * time.Minute, "2m"},
		{90 * time.Second, "1m 30s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
