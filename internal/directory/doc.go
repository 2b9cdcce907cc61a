// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory defines the hub/agent directory entities.
//
// A Hub is a named category owning an ordered list of Agents; an Agent is a
// persona configuration (system prompt plus model parameters) bound to
// exactly one hub. Hub identifiers are unique within the directory and
// agent identifiers are unique across the whole directory, which is what
// makes delete-by-agent-id work without knowing the parent hub.
//
// The package also ships the seed directory restored whenever persisted
// state yields an empty hub list, so the application never observes zero
// hubs.
package directory
