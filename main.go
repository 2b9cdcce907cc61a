// mangaba - hub-organized AI chat for local models.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/mangaba/internal/cli"
	"github.com/jeranaias/mangaba/internal/config"
)

func main() {
	cmd, args := cli.Parse()

	// Help and version need no wiring.
	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	for _, warn := range cfg.Validate() {
		if !args.Quiet {
			fmt.Fprintf(os.Stderr, "config warning: %v\n", warn)
		}
	}
	if args.Model != "" {
		cfg.DefaultModel = args.Model
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mangaba: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := dispatch(cmd, app, args); err != nil {
		app.Fail("cli", err)
		app.Close()
		os.Exit(1)
	}
}

func dispatch(cmd cli.Command, app *cli.App, args cli.Args) error {
	switch cmd {
	case cli.CmdTUI:
		return cli.HandleTUI(app, args)
	case cli.CmdChat:
		return cli.HandleChat(app, args)
	case cli.CmdHubs:
		return cli.HandleHubs(app, args)
	case cli.CmdAgents:
		return cli.HandleAgents(app, args)
	case cli.CmdChats:
		return cli.HandleChats(app, args)
	case cli.CmdAuth:
		return cli.HandleAuth(app, args)
	case cli.CmdSync:
		return cli.HandleSync(app, args)
	case cli.CmdModels:
		return cli.HandleModels(app, args)
	case cli.CmdExport:
		return cli.HandleExport(app, args)
	case cli.CmdImport:
		return cli.HandleImport(app, args)
	case cli.CmdLogs:
		return cli.HandleLogs(app, args)
	case cli.CmdStatus:
		return cli.HandleStatus(app, args)
	case cli.CmdConfig:
		return cli.HandleConfig(app, args)
	case cli.CmdReset:
		return cli.HandleReset(app, args)
	default:
		cli.PrintUsage()
		return nil
	}
}
