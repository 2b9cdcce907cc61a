// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// directory_cmd.go - hub and agent management commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/mangaba/internal/util"
)

// HandleHubs dispatches the hubs subcommands.
func HandleHubs(app *App, args Args) error {
	switch args.Subcommand {
	case "list", "":
		return listHubs(app, args)

	case "create":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba hubs create <name> [description] [category]")
		}
		name := args.Raw[0]
		description, category := "", "general"
		if len(args.Raw) > 1 {
			description = args.Raw[1]
		}
		if len(args.Raw) > 2 {
			category = args.Raw[2]
		}
		id := app.Store.CreateHub(name, description, category)
		fmt.Println(SuccessStyle.Render("created hub ") + DimStyle.Render(id))
		return nil

	case "delete", "rm":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba hubs delete <id>")
		}
		if !app.Store.DeleteHub(args.Raw[0]) {
			fmt.Println(WarningStyle.Render("no hub with id " + args.Raw[0]))
			return nil
		}
		fmt.Println(SuccessStyle.Render("deleted hub ") + DimStyle.Render(args.Raw[0]))
		return nil

	case "select":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba hubs select <id>")
		}
		app.Store.SelectHub(args.Raw[0])
		fmt.Println(SuccessStyle.Render("selected hub ") + DimStyle.Render(args.Raw[0]))
		return nil

	default:
		return fmt.Errorf("unknown hubs subcommand %q", args.Subcommand)
	}
}

func listHubs(app *App, args Args) error {
	hubs := app.Store.Hubs()

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(hubs)
	}

	selectedHub, _, _ := app.Store.Selection()
	fmt.Println(TitleStyle.Render("Hubs"))
	for _, hub := range hubs {
		marker := "  "
		if hub.ID == selectedHub {
			marker = HighlightStyle.Render("* ")
		}
		status := RenderStatus("active")
		if !hub.IsActive {
			status = RenderStatus("inactive")
		}
		fmt.Printf("%s%s %s %s %s\n",
			marker,
			ValueStyle.Render(util.PadRight(hub.Name, 20)),
			DimStyle.Render(util.PadRight(hub.ID, 20)),
			status,
			DimStyle.Render(fmt.Sprintf("%d agents, used %d times", len(hub.Agents), hub.UsageCount)),
		)
		if args.Verbose && hub.Description != "" {
			fmt.Println("    " + DimStyle.Render(hub.Description))
		}
	}
	return nil
}

// HandleAgents dispatches the agents subcommands.
func HandleAgents(app *App, args Args) error {
	switch args.Subcommand {
	case "list", "":
		return listAgents(app, args)

	case "create":
		if args.HubID == "" || len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba agents create <name> --hub <id> [-- system prompt words]")
		}
		name := args.Raw[0]
		prompt := strings.Join(sliceAfter(args.Raw, "--"), " ")
		id := app.Store.CreateAgent(args.HubID, name, "", prompt)
		if id == "" {
			fmt.Println(WarningStyle.Render("no hub with id " + args.HubID))
			return nil
		}
		fmt.Println(SuccessStyle.Render("created agent ") + DimStyle.Render(id))
		return nil

	case "delete", "rm":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba agents delete <id>")
		}
		if !app.Store.DeleteAgent(args.Raw[0]) {
			fmt.Println(WarningStyle.Render("no agent with id " + args.Raw[0]))
			return nil
		}
		fmt.Println(SuccessStyle.Render("deleted agent ") + DimStyle.Render(args.Raw[0]))
		return nil

	case "select":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba agents select <id>")
		}
		app.Store.SelectAgent(args.Raw[0])
		fmt.Println(SuccessStyle.Render("selected agent ") + DimStyle.Render(args.Raw[0]))
		return nil

	case "search":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba agents search <query>")
		}
		results := app.Store.SearchAgents(strings.Join(args.Raw, " "))
		for _, agent := range results {
			fmt.Printf("  %s %s %s\n",
				ValueStyle.Render(util.PadRight(agent.Name, 20)),
				DimStyle.Render(util.PadRight(agent.ID, 24)),
				DimStyle.Render(agent.Description))
		}
		if len(results) == 0 {
			fmt.Println(DimStyle.Render("no matches"))
		}
		return nil

	default:
		return fmt.Errorf("unknown agents subcommand %q", args.Subcommand)
	}
}

func listAgents(app *App, args Args) error {
	hubID := args.HubID
	if hubID == "" {
		hubID, _, _ = app.Store.Selection()
	}
	if hubID == "" {
		// No hub context: list agents per hub.
		for _, hub := range app.Store.Hubs() {
			fmt.Println(SectionStyle.Render(hub.Name) + " " + DimStyle.Render(hub.ID))
			printAgentRows(app, hub.ID)
		}
		return nil
	}

	agents := app.Store.ActiveAgents(hubID)
	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(agents)
	}
	printAgentRows(app, hubID)
	return nil
}

func printAgentRows(app *App, hubID string) {
	_, selectedAgent, _ := app.Store.Selection()
	for _, agent := range app.Store.ActiveAgents(hubID) {
		marker := "  "
		if agent.ID == selectedAgent {
			marker = HighlightStyle.Render("* ")
		}
		modelName := agent.Model()
		if modelName == "" {
			modelName = "default"
		}
		fmt.Printf("%s%s %s %s\n",
			marker,
			ValueStyle.Render(util.PadRight(agent.Name, 20)),
			DimStyle.Render(util.PadRight(agent.ID, 24)),
			DimStyle.Render(modelName),
		)
	}
}

// sliceAfter returns the elements following the first occurrence of sep.
func sliceAfter(items []string, sep string) []string {
	for i, item := range items {
		if item == sep {
			return items[i+1:]
		}
	}
	return nil
}
