// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the live application state: the hub directory,
// every chat, and the current selection. It is the single source of
// truth the CLI and TUI render from.
//
// All mutation goes through Store methods under one mutex, and every
// mutation fires the change hook so state reaches disk without callers
// remembering to save.
package store
