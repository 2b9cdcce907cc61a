// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/mangaba/internal/util"
)

// Key derivation and cipher parameters.
const (
	// KeySize is the AES-256 key size.
	KeySize = 32

	// SaltSize is the key derivation salt size.
	SaltSize = 32

	// NonceSize is the AES-GCM nonce size.
	NonceSize = 12

	// PBKDF2Iterations follows current OWASP guidance for PBKDF2-SHA-256.
	PBKDF2Iterations = 600000

	credentialFile = "credentials.enc"
	secretFile     = "machine.key"
)

var (
	// ErrNoCredential indicates no credential has been stored.
	ErrNoCredential = errors.New("no stored credential")

	// ErrDecryptFailed indicates the stored credential could not be
	// decrypted (tampered file or replaced machine secret).
	ErrDecryptFailed = errors.New("credential decryption failed")
)

// ZeroBytes zeros sensitive byte slices once they are no longer needed.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Credential is the persisted session state for the backend.
type Credential struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	UserID       string    `json:"userId,omitempty"`
	UserName     string    `json:"userName,omitempty"`
	Email        string    `json:"email,omitempty"`
	SavedAt      time.Time `json:"savedAt"`
}

// Store persists one Credential encrypted at rest. Safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string

	// cached after first successful Load
	cred *Credential
}

// NewStore creates a credential store rooted at dir (typically the
// application data directory).
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save encrypts and writes the credential.
func (s *Store) Save(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cred.SavedAt.IsZero() {
		cred.SavedAt = time.Now()
	}

	plaintext, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	defer ZeroBytes(plaintext)

	key, salt, err := s.deriveKey(nil)
	if err != nil {
		return err
	}
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("create GCM: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	// File layout: salt | nonce | ciphertext+tag
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	out := make([]byte, 0, SaltSize+NonceSize+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)

	if err := util.AtomicWriteFile(s.path(), out, 0600); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}

	copied := cred
	s.cred = &copied
	return nil
}

// Load decrypts and returns the stored credential.
func (s *Store) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cred != nil {
		copied := *s.cred
		return &copied, nil
	}

	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredential
		}
		return nil, fmt.Errorf("read credential: %w", err)
	}
	if len(data) < SaltSize+NonceSize+1 {
		return nil, ErrDecryptFailed
	}

	salt := data[:SaltSize]
	nonce := data[SaltSize : SaltSize+NonceSize]
	sealed := data[SaltSize+NonceSize:]

	key, _, err := s.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	defer ZeroBytes(plaintext)

	var cred Credential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}

	copied := cred
	s.cred = &copied
	return &cred, nil
}

// Clear deletes the stored credential. Missing files are not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when not logged in. It
// satisfies the backend client's TokenSource interface.
func (s *Store) Token() string {
	cred, err := s.Load()
	if err != nil {
		return ""
	}
	return cred.Token
}

func (s *Store) path() string {
	return filepath.Join(s.dir, credentialFile)
}

// deriveKey derives the AES key from the machine secret. When salt is
// nil a fresh salt is generated (for Save); otherwise the given salt is
// reused (for Load).
func (s *Store) deriveKey(salt []byte) (key, usedSalt []byte, err error) {
	secret, err := s.machineSecret()
	if err != nil {
		return nil, nil, err
	}
	defer ZeroBytes(secret)

	if salt == nil {
		salt = make([]byte, SaltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, nil, fmt.Errorf("generate salt: %w", err)
		}
	}

	key = pbkdf2.Key(secret, salt, PBKDF2Iterations, KeySize, sha256.New)
	return key, salt, nil
}

// machineSecret loads the per-install random secret, creating it on
// first use.
func (s *Store) machineSecret() ([]byte, error) {
	path := filepath.Join(s.dir, secretFile)

	secret, err := os.ReadFile(path)
	if err == nil && len(secret) == KeySize {
		return secret, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read machine secret: %w", err)
	}

	secret = make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, fmt.Errorf("generate machine secret: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := util.AtomicWriteFile(path, secret, 0600); err != nil {
		return nil, fmt.Errorf("write machine secret: %w", err)
	}
	return secret, nil
}
