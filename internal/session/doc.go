// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks dirty state and drives periodic auto-save of
// the application snapshot, with Bubble Tea tick integration for the
// interactive surfaces.
package session
