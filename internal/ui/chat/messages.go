// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// messages.go - Bubble Tea messages exchanged inside the chat view.
package chat

import "github.com/jeranaias/mangaba/internal/ollama"

// StreamChunkMsg carries one chunk from the Ollama stream.
type StreamChunkMsg struct {
	Chunk ollama.StreamChunk
}

// StreamClosedMsg signals that the stream channel drained.
type StreamClosedMsg struct{}

// StreamErrMsg reports a failed generation.
type StreamErrMsg struct {
	Err error
}

// SyncDoneMsg reports the result of a background directory sync.
type SyncDoneMsg struct {
	Err error
}

// StatusMsg sets a transient status bar note.
type StatusMsg struct {
	Text string
}
