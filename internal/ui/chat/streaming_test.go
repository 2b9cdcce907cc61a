// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"
)

func TestStreamBufferBatchThreshold(t *testing.T) {
	b := NewStreamBuffer()

	// Below the batch size and inside the frame window nothing flushes.
	b.Write("hello")
	if _, ok := b.Flush(); ok {
		t.Error("single token should not flush immediately")
	}

	for i := 0; i < streamBatchSize; i++ {
		b.Write("x")
	}
	content, ok := b.Flush()
	if !ok {
		t.Fatal("batch threshold should trigger a flush")
	}
	if content != "hello"+strings.Repeat("x", streamBatchSize) {
		t.Errorf("unexpected content %q", content)
	}

	// Buffer is drained after a flush.
	if _, ok := b.Flush(); ok {
		t.Error("flush should drain the buffer")
	}
}

func TestStreamBufferTimeThreshold(t *testing.T) {
	b := NewStreamBuffer()
	b.Write("late")

	// Force the frame window open.
	b.mu.Lock()
	b.lastFlush = time.Now().Add(-time.Second)
	b.mu.Unlock()

	content, ok := b.Flush()
	if !ok || content != "late" {
		t.Errorf("time threshold flush = %q, %v", content, ok)
	}
}

func TestStreamBufferForceFlush(t *testing.T) {
	b := NewStreamBuffer()
	if _, ok := b.ForceFlush(); ok {
		t.Error("empty buffer should not force-flush")
	}

	b.Write("partial")
	content, ok := b.ForceFlush()
	if !ok || content != "partial" {
		t.Errorf("force flush = %q, %v", content, ok)
	}
}

func TestStreamBufferReset(t *testing.T) {
	b := NewStreamBuffer()
	b.Write("discard me")
	b.Reset()
	if _, ok := b.ForceFlush(); ok {
		t.Error("reset should discard pending content")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("a very long sidebar line", 10); len([]rune(got)) != 10 {
		t.Errorf("truncate should cap at 10 runes, got %q", got)
	}
}
