// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the mangaba command surface: argument parsing,
// the interactive chat REPL, and the management commands for hubs,
// agents, chats, models, sync, and export.
package cli
