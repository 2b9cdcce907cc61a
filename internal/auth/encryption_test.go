// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Encryption-layer tests: key derivation determinism, nonce uniqueness
// across saves, and the on-disk file layout.
package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	s := NewStore(t.TempDir())
	salt := []byte("0123456789abcdef0123456789abcdef")

	key1, _, err := s.deriveKey(salt)
	require.NoError(t, err)
	key2, _, err := s.deriveKey(salt)
	require.NoError(t, err)
	require.Equal(t, key1, key2, "same salt must derive the same key")
	require.Len(t, key1, KeySize)

	otherSalt := []byte("ffffffffffffffffffffffffffffffff")
	key3, _, err := s.deriveKey(otherSalt)
	require.NoError(t, err)
	require.NotEqual(t, key1, key3, "different salt must derive a different key")
}

func TestDeriveKeyPerInstallSecret(t *testing.T) {
	salt := []byte("0123456789abcdef0123456789abcdef")

	a := NewStore(t.TempDir())
	b := NewStore(t.TempDir())

	keyA, _, err := a.deriveKey(salt)
	require.NoError(t, err)
	keyB, _, err := b.deriveKey(salt)
	require.NoError(t, err)
	require.NotEqual(t, keyA, keyB, "installs must not share keys")
}

func TestSaveUsesFreshNonce(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	cred := Credential{Token: "tok", SavedAt: time.Now()}

	require.NoError(t, s.Save(cred))
	first, err := os.ReadFile(filepath.Join(dir, credentialFile))
	require.NoError(t, err)

	require.NoError(t, s.Save(cred))
	second, err := os.ReadFile(filepath.Join(dir, credentialFile))
	require.NoError(t, err)

	// Same plaintext, but salt and nonce are random per save.
	require.NotEqual(t, first, second, "identical credentials must not produce identical ciphertext")
	require.NotEqual(t,
		first[SaltSize:SaltSize+NonceSize],
		second[SaltSize:SaltSize+NonceSize],
		"nonce must be fresh on every save")
}

func TestFileLayoutLength(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Save(Credential{Token: "tok"}))

	raw, err := os.ReadFile(filepath.Join(dir, credentialFile))
	require.NoError(t, err)
	require.Greater(t, len(raw), SaltSize+NonceSize, "file must carry salt, nonce, and sealed payload")
}

func TestMachineSecretStable(t *testing.T) {
	s := NewStore(t.TempDir())
	sec1, err := s.machineSecret()
	require.NoError(t, err)
	sec2, err := s.machineSecret()
	require.NoError(t, err)
	require.Equal(t, sec1, sec2, "machine secret must be stable across calls")
	require.Len(t, sec1, 32)
}
