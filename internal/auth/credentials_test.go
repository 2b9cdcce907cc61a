// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	cred := Credential{
		Token:        "tok123",
		RefreshToken: "ref456",
		UserID:       "u1",
		UserName:     "Ana",
		Email:        "ana@example.com",
	}
	if err := store.Save(cred); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Fresh store forces a disk read.
	loaded, err := NewStore(dir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Token != "tok123" || loaded.Email != "ana@example.com" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if loaded.SavedAt.IsZero() {
		t.Error("SavedAt should be set on Save")
	}
}

func TestTokenNotStoredInPlaintext(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := store.Save(Credential{Token: "super-secret-token"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, credentialFile))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if strings.Contains(string(data), "super-secret-token") {
		t.Error("token appears in plaintext on disk")
	}
}

func TestLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load(); !errors.Is(err, ErrNoCredential) {
		t.Errorf("expected ErrNoCredential, got %v", err)
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := store.Save(Credential{Token: "tok"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoCredential) {
		t.Errorf("expected ErrNoCredential after Clear, got %v", err)
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestTamperedFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := store.Save(Credential{Token: "tok"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(dir, credentialFile)
	data, _ := os.ReadFile(path)
	data[len(data)-1] ^= 0xFF
	os.WriteFile(path, data, 0600)

	if _, err := NewStore(dir).Load(); !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("expected ErrDecryptFailed, got %v", err)
	}
}

func TestTokenSource(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if got := store.Token(); got != "" {
		t.Errorf("expected empty token before login, got %q", got)
	}
	if err := store.Save(Credential{Token: "tok123"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := store.Token(); got != "tok123" {
		t.Errorf("expected tok123, got %q", got)
	}
}
