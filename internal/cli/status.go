// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - overall application status report.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/mangaba/internal/session"
)

// HandleStatus prints a one-screen health report: backend credential,
// Ollama reachability, store counts, and session state.
func HandleStatus(app *App, args Args) error {
	fmt.Println(TitleStyle.Render("Mangaba Status"))
	fmt.Println(RenderSeparator())

	// Backend
	fmt.Println(SectionStyle.Render("Backend"))
	fmt.Println(RenderLabel("  URL:        ") + ValueStyle.Render(app.Config.Backend.BaseURL))
	if app.Backend.HasCredential() {
		cred, err := app.Creds.Load()
		if err == nil {
			fmt.Println(RenderLabel("  Account:    ") + ValueStyle.Render(cred.Email) + " " + RenderStatus("ok"))
		} else {
			fmt.Println(RenderLabel("  Account:    ") + RenderStatus("fail") + " " + DimStyle.Render(err.Error()))
		}
	} else {
		fmt.Println(RenderLabel("  Account:    ") + DimStyle.Render("not logged in"))
	}

	// Ollama
	fmt.Println(SectionStyle.Render("Ollama"))
	fmt.Println(RenderLabel("  URL:        ") + ValueStyle.Render(app.Config.Ollama.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := app.Ollama.CheckRunning(ctx); err != nil {
		fmt.Println(RenderLabel("  Daemon:     ") + RenderStatus("fail"))
	} else {
		fmt.Println(RenderLabel("  Daemon:     ") + RenderStatus("ok"))
		if models, err := app.Ollama.ListModels(ctx); err == nil {
			fmt.Println(RenderLabel("  Models:     ") + ValueStyle.Render(fmt.Sprintf("%d installed", len(models))))
		}
	}
	fmt.Println(RenderLabel("  Default:    ") + ValueStyle.Render(app.Config.DefaultModel))

	// Store
	fmt.Println(SectionStyle.Render("Store"))
	hubs := app.Store.Hubs()
	agents := 0
	for _, hub := range hubs {
		agents += len(hub.Agents)
	}
	fmt.Println(RenderLabel("  Hubs:       ") + ValueStyle.Render(fmt.Sprintf("%d", len(hubs))))
	fmt.Println(RenderLabel("  Agents:     ") + ValueStyle.Render(fmt.Sprintf("%d", agents)))
	fmt.Println(RenderLabel("  Chats:      ") + ValueStyle.Render(fmt.Sprintf("%d", len(app.Store.Chats()))))
	if count, err := app.Logs.Count(); err == nil {
		fmt.Println(RenderLabel("  Log entries:") + ValueStyle.Render(fmt.Sprintf(" %d", count)))
	}

	// Session
	st := app.Session.GetStatus()
	fmt.Println(SectionStyle.Render("Session"))
	fmt.Println(RenderLabel("  ID:         ") + DimStyle.Render(st.SessionID))
	fmt.Println(RenderLabel("  Uptime:     ") + ValueStyle.Render(session.FormatDuration(st.Duration)))
	dirty := "saved"
	if st.IsDirty {
		dirty = "unsaved changes"
	}
	fmt.Println(RenderLabel("  State:      ") + DimStyle.Render(dirty))
	return nil
}

// HandleReset restores the seed hub directory after confirmation.
func HandleReset(app *App, args Args) error {
	if !confirmDestructive(args, "Reset hubs and agents to defaults?") {
		fmt.Println(DimStyle.Render("aborted"))
		return nil
	}
	app.Store.ResetHubsToDefaults()
	app.Logs.Log("info", "store", "hub directory reset to defaults")
	fmt.Println(SuccessStyle.Render("hub directory reset to defaults"))
	return nil
}
