// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sync_cmd.go - backend directory synchronization.
package cli

import (
	"context"
	"fmt"
)

// HandleSync pulls the hub and agent directories from the backend and
// reconciles them into the local store.
func HandleSync(app *App, args Args) error {
	if !app.Backend.HasCredential() {
		fmt.Println(DimStyle.Render("not logged in - run 'mangaba auth login' first"))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.BackendTimeout())
	defer cancel()

	doHubs := args.Subcommand == "all" || args.Subcommand == "hubs"
	doAgents := args.Subcommand == "all" || args.Subcommand == "agents"
	if !doHubs && !doAgents {
		return fmt.Errorf("unknown sync target %q (want hubs, agents, or all)", args.Subcommand)
	}

	if doHubs {
		if err := app.Store.SyncHubs(ctx); err != nil {
			app.Logs.Errorf("sync", "hub sync failed: %v", err)
			return fmt.Errorf("sync hubs: %w", err)
		}
		app.Logs.Log("info", "sync", "hub directory synchronized")
		fmt.Println(SuccessStyle.Render("hubs synchronized ") +
			DimStyle.Render(fmt.Sprintf("(%d total)", len(app.Store.Hubs()))))
	}

	if doAgents {
		if err := app.Store.SyncAgents(ctx); err != nil {
			app.Logs.Errorf("sync", "agent sync failed: %v", err)
			return fmt.Errorf("sync agents: %w", err)
		}
		app.Logs.Log("info", "sync", "agent directory synchronized")
		total := 0
		for _, hub := range app.Store.Hubs() {
			total += len(hub.Agents)
		}
		fmt.Println(SuccessStyle.Render("agents synchronized ") +
			DimStyle.Render(fmt.Sprintf("(%d total)", total)))
	}
	return nil
}
