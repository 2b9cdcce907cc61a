// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
//
// A Chat is an ordered conversation thread of Messages, optionally tagged
// with the hub/agent context it was created under. Messages are append-only
// from the application's point of view; role alternation is not enforced.
//
// # Key Types
//
//   - Chat: one conversation thread with derived title and timestamps
//   - Message: one user or assistant turn, with optional attachments
//   - Role: the sender of a message
//
// Titles are derived from the first message: a chat that has zero prior
// messages adopts a truncated prefix of the incoming content as its title,
// and later messages never change it.
package model
