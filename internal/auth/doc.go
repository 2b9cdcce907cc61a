// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth stores the backend credential at rest.
//
// Tokens are encrypted with AES-256-GCM under a key derived from a
// machine-local secret via PBKDF2-SHA-256, so a casual read of the data
// directory does not expose the session.
package auth
