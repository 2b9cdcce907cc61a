// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// streaming.go - token batching for flicker-free streaming renders.
//
// Chunks arrive far faster than the terminal can usefully repaint, so
// they are accumulated in a buffer and flushed at a capped frame rate.
package chat

import (
	"strings"
	"sync"
	"time"
)

const (
	streamBatchSize = 12
	streamMaxFPS    = 30
)

// StreamBuffer accumulates streamed tokens between repaints. Writes come
// from the streaming goroutine; flushes happen on the Bubble Tea loop.
type StreamBuffer struct {
	mu         sync.Mutex
	buf        strings.Builder
	tokenCount int
	lastFlush  time.Time
	minFlush   time.Duration
}

// NewStreamBuffer returns a buffer flushing at most streamMaxFPS times
// per second.
func NewStreamBuffer() *StreamBuffer {
	return &StreamBuffer{
		minFlush:  time.Second / streamMaxFPS,
		lastFlush: time.Now(),
	}
}

// Write appends one token.
func (b *StreamBuffer) Write(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.WriteString(token)
	b.tokenCount++
}

// Flush returns the pending content when a batch or time threshold has
// been crossed. The second result is false when nothing should render
// yet.
func (b *StreamBuffer) Flush() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.buf.Len() == 0 {
		return "", false
	}
	if b.tokenCount < streamBatchSize && time.Since(b.lastFlush) < b.minFlush {
		return "", false
	}
	return b.drainLocked(), true
}

// ForceFlush returns whatever is buffered regardless of thresholds.
func (b *StreamBuffer) ForceFlush() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf.Len() == 0 {
		return "", false
	}
	return b.drainLocked(), true
}

// Reset discards pending content.
func (b *StreamBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
	b.tokenCount = 0
	b.lastFlush = time.Now()
}

func (b *StreamBuffer) drainLocked() string {
	content := b.buf.String()
	b.buf.Reset()
	b.tokenCount = 0
	b.lastFlush = time.Now()
	return content
}
