// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - configuration inspection and updates.
package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/mangaba/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(app *App, args Args) error {
	switch args.Subcommand {
	case "show", "":
		return showConfig(app)
	case "set":
		if args.ConfigKey == "" {
			return fmt.Errorf("usage: mangaba config set <key> <value>")
		}
		return setConfig(app, args.ConfigKey, args.ConfigVal)
	case "path":
		path, err := config.PathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q", args.Subcommand)
	}
}

func showConfig(app *App) error {
	cfg := app.Config
	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Println(RenderLabel("default_model:            ") + ValueStyle.Render(cfg.DefaultModel))
	fmt.Println(RenderLabel("ollama.url:               ") + ValueStyle.Render(cfg.Ollama.URL))
	fmt.Println(RenderLabel("backend.base_url:         ") + ValueStyle.Render(cfg.Backend.BaseURL))
	fmt.Println(RenderLabel("backend.timeout_secs:     ") + ValueStyle.Render(strconv.Itoa(cfg.Backend.TimeoutSecs)))
	fmt.Println(RenderLabel("storage.auto_save_secs:   ") + ValueStyle.Render(strconv.Itoa(cfg.Storage.AutoSaveSecs)))
	fmt.Println(RenderLabel("storage.max_log_entries:  ") + ValueStyle.Render(strconv.Itoa(cfg.Storage.MaxLogEntries)))
	fmt.Println(RenderLabel("sync.default_bucket:      ") + ValueStyle.Render(cfg.Sync.DefaultBucket))
	if len(cfg.Sync.AgentBuckets) > 0 {
		fmt.Println(RenderLabel("sync.agent_buckets:"))
		for category, hubID := range cfg.Sync.AgentBuckets {
			fmt.Printf("  %s %s\n", DimStyle.Render(category+" ->"), ValueStyle.Render(hubID))
		}
	}
	return nil
}

// setConfig updates one key and persists the file. Only a small set of
// keys is settable from the command line.
func setConfig(app *App, key, value string) error {
	cfg := app.Config
	switch key {
	case "default_model":
		cfg.DefaultModel = value
	case "ollama.url":
		cfg.Ollama.URL = value
	case "backend.base_url":
		cfg.Backend.BaseURL = value
	case "backend.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("backend.timeout_secs wants an integer, got %q", value)
		}
		cfg.Backend.TimeoutSecs = n
	case "storage.auto_save_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("storage.auto_save_secs wants an integer, got %q", value)
		}
		cfg.Storage.AutoSaveSecs = n
	case "storage.max_log_entries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("storage.max_log_entries wants an integer, got %q", value)
		}
		cfg.Storage.MaxLogEntries = n
	case "sync.default_bucket":
		cfg.Sync.DefaultBucket = value
	default:
		return fmt.Errorf("unknown or read-only config key %q", key)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid value for %s: %v", key, errs[0])
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Println(SuccessStyle.Render("set ") + ValueStyle.Render(key) + " = " + ValueStyle.Render(value))
	return nil
}
