// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/mangaba/internal/auth"
	"github.com/jeranaias/mangaba/internal/backend"
	"github.com/jeranaias/mangaba/internal/config"
	"github.com/jeranaias/mangaba/internal/logging"
	"github.com/jeranaias/mangaba/internal/ollama"
	"github.com/jeranaias/mangaba/internal/relay"
	"github.com/jeranaias/mangaba/internal/session"
	"github.com/jeranaias/mangaba/internal/storage"
	"github.com/jeranaias/mangaba/internal/store"
)

// App bundles the collaborators every command handler needs. It is
// constructed once in main and passed explicitly; there are no
// package-level singletons.
type App struct {
	Config    *config.Config
	Store     *store.Store
	Backend   *backend.Client
	Creds     *auth.Store
	Ollama    *ollama.Client
	Logs      *logging.Ring
	Snapshots *storage.SnapshotStore
	Session   *session.Manager
	Relay     *relay.Relay
}

// NewApp wires the application from configuration: credential store,
// backend client, Ollama client, log ring, snapshot store, and the
// state container with persistence hooked to the session manager.
func NewApp(cfg *config.Config) (*App, error) {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	creds := auth.NewStore(dataDir)

	client := backend.NewClient(backend.Config{
		BaseURL:        cfg.Backend.BaseURL,
		Tokens:         creds,
		Timeout:        cfg.BackendTimeout(),
		RequestsPerSec: cfg.Backend.RequestsPerSec,
	})

	ollamaClient := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:      cfg.Ollama.URL,
		DefaultModel: cfg.DefaultModel,
	})

	logs, err := logging.Open(filepath.Join(dataDir, "logs.db"), cfg.Storage.MaxLogEntries)
	if err != nil {
		return nil, fmt.Errorf("open log ring: %w", err)
	}

	snapshots, err := storage.NewSnapshotStore(dataDir)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	sess := session.NewManager(session.Config{
		AutoSaveEnabled:  true,
		AutoSaveInterval: cfg.AutoSaveInterval(),
	})

	st := store.New(store.Options{
		Backend:       client,
		Buckets:       cfg.Sync.AgentBuckets,
		DefaultBucket: cfg.Sync.DefaultBucket,
		OnChange:      sess.MarkDirty,
	})

	app := &App{
		Config:    cfg,
		Store:     st,
		Backend:   client,
		Creds:     creds,
		Ollama:    ollamaClient,
		Logs:      logs,
		Snapshots: snapshots,
		Session:   sess,
		Relay:     relay.New(client, logs, relay.Options{}),
	}
	sess.SetAutoSaveCallback(app.Save)

	// Rehydrate persisted state. A corrupt snapshot falls back to the
	// seed directory rather than refusing to start.
	snap, err := snapshots.Load()
	if err != nil {
		logs.Errorf("storage", "snapshot unreadable, starting from defaults: %v", err)
		snap = &storage.Snapshot{}
	}
	if st.LoadSnapshot(snap) {
		logs.Log(logging.LevelWarn, "storage", "hub directory was empty, restored seed defaults")
	}

	return app, nil
}

// WatchConfig hot-reloads settings while a long-running surface (chat REPL
// or TUI) is on screen. Only settings safe to change mid-session are applied;
// transport changes still need a restart. The caller owns the returned
// watcher and must Close it. A missing config file is not an error.
func (a *App) WatchConfig() *config.Watcher {
	path, err := config.PathTOML()
	if err != nil {
		return nil
	}
	w, err := config.NewWatcher(path, 0, func(fresh *config.Config) {
		if fresh.DefaultModel != "" && fresh.DefaultModel != a.Config.DefaultModel {
			a.Config.DefaultModel = fresh.DefaultModel
			a.Logs.Log(logging.LevelInfo, "config", "default model changed to "+fresh.DefaultModel)
		}
	})
	if err != nil {
		return nil
	}
	if err := w.Watch(); err != nil {
		w.Close()
		return nil
	}
	return w
}

// Save persists the current store state to the snapshot file.
func (a *App) Save() error {
	return a.Snapshots.Save(a.Store.Snapshot())
}

// Close flushes unsaved state and releases resources.
func (a *App) Close() {
	a.Relay.Stop()
	if err := a.Session.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save state: %v\n", err)
	}
	a.Logs.Close()
}

// Fail prints an error and logs it.
func (a *App) Fail(category string, err error) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
	a.Logs.Errorf(category, "%v", err)
}
