// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/jeranaias/mangaba/internal/model"
)

func sampleChat() *model.Chat {
	chat := model.NewChat()
	chat.HubID = "hub_dev"
	chat.AgentID = "agent_debugger"
	chat.Append(model.NewUserMessage("Why does my goroutine leak?"))
	chat.Append(model.NewAssistantMessage("Check that every channel send has a receiver.\n\nA blocked send pins the goroutine forever."))
	return chat
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleChat())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	content := string(out)

	for _, want := range []string{
		"title:", "hub: hub_dev", "agent: agent_debugger",
		"## Conversation", "### You", "### Assistant",
		"Why does my goroutine leak?",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownRejectsEmptyChat(t *testing.T) {
	if _, err := NewMarkdownExporter(nil).Export(model.NewChat()); err == nil {
		t.Error("expected error for chat with no messages")
	}
	if _, err := NewMarkdownExporter(nil).Export(nil); err == nil {
		t.Error("expected error for nil chat")
	}
}

func TestJSONExportRoundTrip(t *testing.T) {
	chat := sampleChat()
	out, err := NewJSONExporter().Export(chat)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var env struct {
		Generator string      `json:"generator"`
		Chat      *model.Chat `json:"chat"`
	}
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if env.Generator != "mangaba" {
		t.Errorf("unexpected generator %q", env.Generator)
	}
	if env.Chat.ID != chat.ID || len(env.Chat.Messages) != 2 {
		t.Errorf("chat not round-tripped: %+v", env.Chat)
	}
}

func TestHTMLExportEscapes(t *testing.T) {
	chat := model.NewChat()
	chat.Append(model.NewUserMessage("<script>alert(1)</script>"))

	out, err := NewHTMLExporter(nil).Export(chat)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	content := string(out)
	if strings.Contains(content, "<script>alert") {
		t.Error("content must be HTML-escaped")
	}
	if !strings.Contains(content, "&lt;script&gt;") {
		t.Error("escaped form missing")
	}
	if !strings.Contains(content, "<!DOCTYPE html>") {
		t.Error("not a standalone document")
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := ExportMarkdown(sampleChat(), opts)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("unexpected extension: %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"with space", "with_space"},
		{"a/b\\c:d", "a-b-c-d"},
		{"", "chat"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
