// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - chat export and portable data import/export.
package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/mangaba/internal/export"
)

// HandleExport writes the current (or named) chat to a file in the
// requested format, or dumps the full portable state with --format data.
func HandleExport(app *App, args Args) error {
	if args.Format == "data" {
		return exportPortable(app, args)
	}

	chat := app.Store.CurrentChat()
	if args.Query != "" {
		chat = app.Store.ChatByID(args.Query)
	}
	if chat == nil {
		return fmt.Errorf("no chat to export - select one with 'mangaba chats select <id>'")
	}

	opts := export.DefaultOptions()
	if args.File != "" {
		opts.OutputDir = args.File
	}

	var exporter export.Exporter
	switch args.Format {
	case "md", "markdown", "":
		exporter = export.NewMarkdownExporter(opts)
	case "json":
		exporter = export.NewJSONExporter()
	case "html":
		exporter = export.NewHTMLExporter(opts)
	default:
		return fmt.Errorf("unknown export format %q (want md, json, html, or data)", args.Format)
	}

	path, err := export.ExportToFile(chat, exporter, opts)
	if err != nil {
		return fmt.Errorf("export chat: %w", err)
	}
	app.Logs.Log("info", "export", "exported chat "+chat.ID+" to "+path)
	fmt.Println(SuccessStyle.Render("exported to ") + ValueStyle.Render(path))
	return nil
}

// exportPortable writes the {chats, hubs} JSON payload.
func exportPortable(app *App, args Args) error {
	data, err := app.Store.ExportData()
	if err != nil {
		return fmt.Errorf("export data: %w", err)
	}

	path := args.File
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Println(SuccessStyle.Render("exported data to ") + ValueStyle.Render(path))
	return nil
}

// HandleImport replaces the local chats and hubs from a portable JSON
// payload. The previous snapshot is backed up first.
func HandleImport(app *App, args Args) error {
	if args.File == "" {
		return fmt.Errorf("usage: mangaba import <file>")
	}

	data, err := os.ReadFile(args.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", args.File, err)
	}

	backup, err := app.Snapshots.Backup()
	if err != nil {
		return fmt.Errorf("backup before import: %w", err)
	}
	if backup != "" && !args.Quiet {
		fmt.Println(DimStyle.Render("previous state backed up to " + backup))
	}

	if err := app.Store.ImportData(data); err != nil {
		return fmt.Errorf("import %s: %w", args.File, err)
	}

	app.Logs.Log("info", "import", "imported data from "+args.File)
	fmt.Println(SuccessStyle.Render("imported ") +
		DimStyle.Render(fmt.Sprintf("%d chats, %d hubs", len(app.Store.Chats()), len(app.Store.Hubs()))))
	return nil
}
