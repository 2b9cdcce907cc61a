// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models_cmd.go - local Ollama model management.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/mangaba/internal/ollama"
	"github.com/jeranaias/mangaba/internal/util"
)

// HandleModels dispatches the models subcommands against the local
// Ollama daemon.
func HandleModels(app *App, args Args) error {
	switch args.Subcommand {
	case "list", "":
		return listModels(app, args)

	case "pull":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba models pull <name>")
		}
		return pullModel(app, args.Raw[0])

	case "delete", "rm":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba models delete <name>")
		}
		ctx := context.Background()
		if err := app.Ollama.DeleteModel(ctx, args.Raw[0]); err != nil {
			return fmt.Errorf("delete model: %w", err)
		}
		fmt.Println(SuccessStyle.Render("deleted model ") + DimStyle.Render(args.Raw[0]))
		return nil

	default:
		return fmt.Errorf("unknown models subcommand %q", args.Subcommand)
	}
}

func listModels(app *App, args Args) error {
	ctx := context.Background()
	if err := app.Ollama.CheckRunning(ctx); err != nil {
		return fmt.Errorf("ollama is not reachable at %s: %w", app.Config.Ollama.URL, err)
	}

	models, err := app.Ollama.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(models)
	}

	fmt.Println(TitleStyle.Render("Installed Models"))
	defaultModel := app.Config.DefaultModel
	for _, m := range models {
		marker := "  "
		if m.Name == defaultModel {
			marker = HighlightStyle.Render("* ")
		}
		fmt.Printf("%s%s %s %s\n",
			marker,
			ValueStyle.Render(util.PadRight(m.Name, 28)),
			DimStyle.Render(util.PadRight(m.FormatSize(), 10)),
			DimStyle.Render(m.Details.ParameterSize),
		)
	}
	if len(models) == 0 {
		fmt.Println(DimStyle.Render("no models installed - try 'mangaba models pull llama3.2'"))
	}
	return nil
}

func pullModel(app *App, name string) error {
	fmt.Println(ValueStyle.Render("pulling " + name + "..."))
	lastStatus := ""
	err := app.Ollama.PullModel(context.Background(), name, func(p ollama.PullProgress) {
		if p.Total > 0 {
			fmt.Printf("\r%s %5.1f%%  ", DimStyle.Render(p.Status), p.Percent())
		} else if p.Status != lastStatus {
			fmt.Printf("\r%s          \n", DimStyle.Render(p.Status))
			lastStatus = p.Status
		}
	})
	fmt.Println()
	if err != nil {
		return fmt.Errorf("pull model: %w", err)
	}
	fmt.Println(SuccessStyle.Render("pulled ") + ValueStyle.Render(name))
	return nil
}
