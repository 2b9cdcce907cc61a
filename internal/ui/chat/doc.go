// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the Bubble Tea chat surface: a hub/agent sidebar, a
// scrolling conversation viewport, and a streaming input line wired to
// the local Ollama server and the shared store.
package chat
