// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides a bounded ring of structured application
// events backed by SQLite. Entries carry a level, a category, and
// optional correlation ids (chat, hub, agent, user); once the ring is
// full the oldest entries are dropped.
package logging
