// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// logs_cmd.go - activity log inspection.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mangaba/internal/logging"
)

// HandleLogs dispatches the logs subcommands.
func HandleLogs(app *App, args Args) error {
	switch args.Subcommand {
	case "list", "":
		return listLogs(app, args)

	case "export":
		path := "mangaba_logs.json"
		if args.File != "" {
			path = args.File
		} else if len(args.Raw) > 0 {
			path = args.Raw[0]
		}
		if err := app.Logs.ExportJSON(path); err != nil {
			return fmt.Errorf("export logs: %w", err)
		}
		fmt.Println(SuccessStyle.Render("logs exported to ") + ValueStyle.Render(path))
		return nil

	case "clear":
		if !confirmDestructive(args, "Clear all log entries?") {
			fmt.Println(DimStyle.Render("aborted"))
			return nil
		}
		if err := app.Logs.Clear(); err != nil {
			return fmt.Errorf("clear logs: %w", err)
		}
		fmt.Println(SuccessStyle.Render("logs cleared"))
		return nil

	default:
		return fmt.Errorf("unknown logs subcommand %q", args.Subcommand)
	}
}

func listLogs(app *App, args Args) error {
	filter := logging.Filter{Limit: 50}
	for i := 0; i < len(args.Raw); i++ {
		switch args.Raw[i] {
		case "--level":
			if i+1 < len(args.Raw) {
				i++
				filter.Level = logging.Level(args.Raw[i])
			}
		case "--category":
			if i+1 < len(args.Raw) {
				i++
				filter.Category = args.Raw[i]
			}
		case "--limit", "-n":
			if i+1 < len(args.Raw) {
				i++
				if n, err := strconv.Atoi(args.Raw[i]); err == nil {
					filter.Limit = n
				}
			}
		}
	}

	entries, err := app.Logs.List(filter)
	if err != nil {
		return fmt.Errorf("list logs: %w", err)
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	for _, e := range entries {
		level := RenderConditional(levelStyle(e.Level), "["+string(e.Level)+"]")
		fmt.Printf("%s %s %s %s\n",
			DimStyle.Render(e.Timestamp.Format("2006-01-02 15:04:05")),
			level,
			HighlightStyle.Render(e.Category),
			e.Message,
		)
	}
	if len(entries) == 0 {
		fmt.Println(DimStyle.Render("no log entries"))
	}
	return nil
}

func levelStyle(level logging.Level) lipgloss.Style {
	switch level {
	case logging.LevelError:
		return ErrorStyle
	case logging.LevelWarn:
		return WarningStyle
	case logging.LevelDebug:
		return DimStyle
	default:
		return ValueStyle
	}
}
