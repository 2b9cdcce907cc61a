// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared utilities for mangaba.
//
// The package is deliberately dependency-light: atomic file writes used by
// every persistence layer, and rune/width-aware string helpers used by the
// CLI and TUI for safe truncation of user content.
package util
