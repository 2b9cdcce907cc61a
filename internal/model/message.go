// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jeranaias/mangaba/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a chat.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Context at send time. These are tags, not live bindings: deleting
	// the hub or agent later leaves them dangling on purpose.
	HubID   string `json:"hub_id,omitempty"`
	AgentID string `json:"agent_id,omitempty"`

	// Optional payload
	Attachments []Attachment `json:"attachments,omitempty"`
	Meta        *MessageMeta `json:"meta,omitempty"`
}

// Attachment describes a file attached to a message.
type Attachment struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// MessageMeta holds mutable message metadata.
type MessageMeta struct {
	Edited    bool           `json:"edited,omitempty"`
	EditedAt  time.Time      `json:"edited_at,omitempty"`
	Reactions map[string]int `json:"reactions,omitempty"`
}

// NewMessage creates a new message with a generated ID and timestamp.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateMessageID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a single-line truncated preview of the message content.
func (m *Message) Preview(maxRunes int) string {
	return util.TruncateRunes(util.FirstLine(m.Content), maxRunes)
}

// MarkEdited records an in-place edit of the message content.
func (m *Message) MarkEdited() {
	if m.Meta == nil {
		m.Meta = &MessageMeta{}
	}
	m.Meta.Edited = true
	m.Meta.EditedAt = time.Now()
}

// AddReaction increments the counter for a reaction emoji.
func (m *Message) AddReaction(reaction string) {
	if m.Meta == nil {
		m.Meta = &MessageMeta{}
	}
	if m.Meta.Reactions == nil {
		m.Meta.Reactions = make(map[string]int)
	}
	m.Meta.Reactions[reaction]++
}

// IsEmpty returns true if the message has no content and no attachments.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && len(m.Attachments) == 0
}

// EstimateTokens gives a rough token estimate at ~4 characters per token.
func (m *Message) EstimateTokens() int {
	return (len(m.Content) + 3) / 4
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
