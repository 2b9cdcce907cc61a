// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - launches the full-screen chat interface.
package cli

import (
	"fmt"

	"github.com/jeranaias/mangaba/internal/ui/chat"
)

// HandleTUI starts the Bubble Tea chat surface.
func HandleTUI(app *App, args Args) error {
	if !IsTTY() {
		return fmt.Errorf("the TUI needs a terminal; try 'mangaba chat' or 'mangaba help'")
	}

	if watcher := app.WatchConfig(); watcher != nil {
		defer watcher.Close()
	}

	app.Logs.Log("info", "ui", "tui session started")
	err := chat.Run(chat.Deps{
		Config:  app.Config,
		Store:   app.Store,
		Backend: app.Backend,
		Ollama:  app.Ollama,
		Session: app.Session,
		Logs:    app.Logs,
		Relay:   app.Relay,
	})
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return app.Session.Flush()
}
