// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for mangaba.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdHubs
	CmdAgents
	CmdChats
	CmdAuth
	CmdSync
	CmdModels
	CmdExport
	CmdImport
	CmdLogs
	CmdStatus
	CmdConfig
	CmdReset
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Model   string

	// Command-specific
	Subcommand string
	Query      string
	HubID      string
	AgentID    string
	File       string
	Format     string
	ConfigKey  string
	ConfigVal  string

	// Raw args remaining after parsing
	Raw []string
}

const usageText = `mangaba - hub-organized AI chat for local models

Mangaba keeps a directory of hubs and agents (configured personas), a
chat history synced with an optional backend, and a local Ollama server
for generation.

Usage:
  mangaba                        Start TUI (default)
  mangaba chat [--hub id] [--agent id]   Interactive chat REPL
  mangaba hubs [list|create|delete|select]     Hub directory
  mangaba agents [list|create|delete|select]   Agents within hubs
  mangaba chats [list|delete|clear|search]     Chat history
  mangaba auth [login|register|logout|whoami]  Backend account
  mangaba sync [hubs|agents|all]               Pull directory from backend
  mangaba models [list|pull|rm]                Ollama model management
  mangaba export [--format md|json|html]       Export the current chat
  mangaba import <file>                        Import {chats, hubs} JSON
  mangaba logs [list|export|clear]             Application event log
  mangaba status                               Backend/Ollama/store status
  mangaba config [show|set <key> <value>]      Configuration
  mangaba reset                                Restore the seed hub directory
  mangaba version                              Version information

Global flags:
  --model <name>    Override the default model
  --json            Machine-readable output where supported
  --quiet, -q       Suppress informational output
  --verbose, -v     Extra diagnostics

Environment:
  MANGABA_BACKEND_URL   Backend API base URL
  MANGABA_OLLAMA_URL    Ollama server URL
  MANGABA_MODEL         Default model
  MANGABA_DATA_DIR      Data directory (default ~/.mangaba)
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("mangaba version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "chat":
		parseChatArgs(&args, remaining)
		return CmdChat, args

	case "hub", "hubs":
		parseEntityArgs(&args, remaining)
		return CmdHubs, args

	case "agent", "agents":
		parseEntityArgs(&args, remaining)
		return CmdAgents, args

	case "chats", "history":
		parseEntityArgs(&args, remaining)
		return CmdChats, args

	case "auth", "login", "logout", "register", "whoami":
		if cmd != "auth" {
			args.Subcommand = cmd
		} else if len(remaining) > 0 {
			args.Subcommand = remaining[0]
			args.Raw = remaining[1:]
		}
		return CmdAuth, args

	case "sync":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		} else {
			args.Subcommand = "all"
		}
		return CmdSync, args

	case "model", "models":
		parseEntityArgs(&args, remaining)
		return CmdModels, args

	case "export":
		parseExportArgs(&args, remaining)
		return CmdExport, args

	case "import":
		if len(remaining) > 0 {
			args.File = remaining[0]
		}
		return CmdImport, args

	case "logs", "log":
		parseEntityArgs(&args, remaining)
		return CmdLogs, args

	case "status", "s":
		return CmdStatus, args

	case "config":
		parseConfigArgs(&args, remaining)
		return CmdConfig, args

	case "reset":
		return CmdReset, args

	case "version", "--version", "-V":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		// Unknown command: show help.
		return CmdHelp, args
	}
}

// parseGlobalFlags strips recognized global flags from argv.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "--quiet", "-q":
			args.Quiet = true
		case "--verbose", "-v":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "--model", "-m":
			if i+1 < len(argv) {
				i++
				args.Model = argv[i]
			}
		default:
			remaining = append(remaining, argv[i])
		}
	}
	return remaining, args
}

// parseChatArgs handles chat-specific flags.
func parseChatArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "--hub":
			if i+1 < len(remaining) {
				i++
				args.HubID = remaining[i]
			}
		case "--agent":
			if i+1 < len(remaining) {
				i++
				args.AgentID = remaining[i]
			}
		default:
			// Leftover words form an initial question.
			if args.Query == "" {
				args.Query = remaining[i]
			} else {
				args.Query += " " + remaining[i]
			}
		}
	}
}

// parseEntityArgs handles the common subcommand-plus-positional shape
// of the hubs/agents/chats/models/logs commands.
func parseEntityArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "list"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	args.Raw = remaining[1:]

	for i := 0; i < len(args.Raw); i++ {
		switch args.Raw[i] {
		case "--hub":
			if i+1 < len(args.Raw) {
				i++
				args.HubID = args.Raw[i]
			}
		}
	}
}

// parseExportArgs handles export flags.
func parseExportArgs(args *Args, remaining []string) {
	args.Format = "md"
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "--format", "-f":
			if i+1 < len(remaining) {
				i++
				args.Format = strings.ToLower(remaining[i])
			}
		case "--output", "-o":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		default:
			if args.Query == "" {
				args.Query = remaining[i]
			}
		}
	}
}

// parseConfigArgs handles config show/set.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	if args.Subcommand == "set" && len(remaining) >= 3 {
		args.ConfigKey = remaining[1]
		args.ConfigVal = remaining[2]
	}
}
