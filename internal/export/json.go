// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/mangaba/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter renders chats as indented JSON with an export envelope.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// jsonEnvelope wraps the chat with export provenance.
type jsonEnvelope struct {
	Generator  string      `json:"generator"`
	ExportedAt time.Time   `json:"exportedAt"`
	Chat       *model.Chat `json:"chat"`
}

// Export converts a chat to JSON.
func (e *JSONExporter) Export(chat *model.Chat) ([]byte, error) {
	if chat == nil {
		return nil, fmt.Errorf("chat is nil")
	}
	data, err := json.MarshalIndent(jsonEnvelope{
		Generator:  "mangaba",
		ExportedAt: time.Now(),
		Chat:       chat,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode chat: %w", err)
	}
	return data, nil
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns the JSON MIME type.
func (e *JSONExporter) MimeType() string { return "application/json" }
