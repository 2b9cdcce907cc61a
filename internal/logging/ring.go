// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/mangaba/internal/util"
)

// DefaultMaxEntries caps the ring when the caller passes zero.
const DefaultMaxEntries = 1000

// Level classifies an entry.
type Level string

// Log levels.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("log ring closed")

// Entry is one structured application event.
type Entry struct {
	ID        int64           `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Level     Level           `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	Payload   json.RawMessage `json:"payload,omitempty"`

	// Correlation ids, all optional.
	ChatID  string `json:"chatId,omitempty"`
	HubID   string `json:"hubId,omitempty"`
	AgentID string `json:"agentId,omitempty"`
	UserID  string `json:"userId,omitempty"`
}

// Ring is the persistent bounded event log. Safe for concurrent use.
type Ring struct {
	mu     sync.Mutex
	db     *sql.DB
	max    int
	closed bool
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	ts        INTEGER NOT NULL,
	level     TEXT NOT NULL,
	category  TEXT NOT NULL,
	message   TEXT NOT NULL,
	payload   TEXT,
	chat_id   TEXT,
	hub_id    TEXT,
	agent_id  TEXT,
	user_id   TEXT
);
CREATE INDEX IF NOT EXISTS idx_entries_ts ON entries(ts);
CREATE INDEX IF NOT EXISTS idx_entries_level ON entries(level);
`

// Open creates or opens the log database at path. maxEntries bounds the
// ring; zero means DefaultMaxEntries.
func Open(path string, maxEntries int) (*Ring, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open log database: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Ring{db: db, max: maxEntries}, nil
}

// Append stores an entry, trimming the oldest rows past the cap. The
// entry's timestamp is stamped here if unset.
func (r *Ring) Append(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Level == "" {
		e.Level = LevelInfo
	}

	var payload any
	if len(e.Payload) > 0 {
		payload = string(e.Payload)
	}

	_, err := r.db.Exec(
		`INSERT INTO entries (ts, level, category, message, payload, chat_id, hub_id, agent_id, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp.UnixMilli(), string(e.Level), e.Category, e.Message, payload,
		nullable(e.ChatID), nullable(e.HubID), nullable(e.AgentID), nullable(e.UserID),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	_, err = r.db.Exec(
		`DELETE FROM entries WHERE id NOT IN (SELECT id FROM entries ORDER BY id DESC LIMIT ?)`,
		r.max,
	)
	if err != nil {
		return fmt.Errorf("trim entries: %w", err)
	}
	return nil
}

// Log is the convenience form of Append for plain messages.
func (r *Ring) Log(level Level, category, message string) error {
	return r.Append(Entry{Level: level, Category: category, Message: message})
}

// Errorf appends an error-level entry with formatted message.
func (r *Ring) Errorf(category, format string, args ...any) error {
	return r.Append(Entry{Level: LevelError, Category: category, Message: fmt.Sprintf(format, args...)})
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Level    Level
	Category string
	Limit    int
}

// List returns entries newest first.
func (r *Ring) List(f Filter) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}

	query := `SELECT id, ts, level, category, message, payload, chat_id, hub_id, agent_id, user_id FROM entries`
	var conds []string
	var args []any
	if f.Level != "" {
		conds = append(conds, "level = ?")
		args = append(args, string(f.Level))
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY id DESC"
	limit := f.Limit
	if limit <= 0 || limit > r.max {
		limit = r.max
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		var level string
		var payload, chatID, hubID, agentID, userID sql.NullString
		if err := rows.Scan(&e.ID, &ts, &level, &e.Category, &e.Message, &payload, &chatID, &hubID, &agentID, &userID); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		e.Level = Level(level)
		if payload.Valid {
			e.Payload = json.RawMessage(payload.String)
		}
		e.ChatID = chatID.String
		e.HubID = hubID.String
		e.AgentID = agentID.String
		e.UserID = userID.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of stored entries.
func (r *Ring) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrClosed
	}
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}

// ExportJSON writes all entries (oldest first) to a JSON file.
func (r *Ring) ExportJSON(path string) error {
	entries, err := r.List(Filter{})
	if err != nil {
		return err
	}
	// List is newest first; exports read better oldest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode log export: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write log export: %w", err)
	}
	return nil
}

// Clear deletes every entry.
func (r *Ring) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	_, err := r.db.Exec(`DELETE FROM entries`)
	return err
}

// Close releases the database.
func (r *Ring) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
