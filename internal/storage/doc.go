// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the whole application state as a single JSON
// snapshot: every chat, the hub directory, and the current selection.
// Writes are atomic so a crash mid-save never corrupts the file.
package storage
