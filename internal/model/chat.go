// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jeranaias/mangaba/internal/ollama"
)

// TitleMaxRunes is the maximum length of a derived chat title.
const TitleMaxRunes = 50

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat holds one conversation thread with history and metadata.
type Chat struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []*Message `json:"messages"`

	// Context the chat was created under. Optional, and kept as-is even
	// when the referenced hub or agent is later deleted.
	HubID   string `json:"hub_id,omitempty"`
	AgentID string `json:"agent_id,omitempty"`
}

// NewChat creates a new chat with a generated ID.
func NewChat() *Chat {
	now := time.Now()
	return &Chat{
		ID:        generateChatID(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// NewChatWithID creates a new chat that adopts an externally issued ID,
// such as one returned by the backend.
func NewChatWithID(id string) *Chat {
	chat := NewChat()
	chat.ID = id
	return chat
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the chat, advances UpdatedAt, and derives the
// title from the content if this is the first message of an untitled chat.
func (c *Chat) Append(msg *Message) {
	untitled := c.Title == "" && len(c.Messages) == 0
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	if untitled {
		c.Title = msg.Preview(TitleMaxRunes)
	}
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageByID returns a message by its ID, or nil if absent.
func (c *Chat) MessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Chat) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// SetTitle replaces the chat title. No length enforcement at this layer.
func (c *Chat) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}

// GetTitle returns the chat title or a default.
func (c *Chat) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Chat"
}

// Preview returns a short preview of the chat from its first user message.
func (c *Chat) Preview() string {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			return msg.Preview(80)
		}
	}
	return "Empty chat"
}

// =============================================================================
// OLLAMA CONVERSION
// =============================================================================

// ToOllamaMessages converts the chat history to Ollama message format.
// A non-empty system prompt is injected as the leading system message.
func (c *Chat) ToOllamaMessages(systemPrompt string) []ollama.Message {
	messages := make([]ollama.Message, 0, len(c.Messages)+1)

	if systemPrompt != "" {
		messages = append(messages, ollama.NewSystemMessage(systemPrompt))
	}

	for _, msg := range c.Messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case RoleUser:
			messages = append(messages, ollama.NewUserMessage(msg.Content))
		case RoleAssistant:
			messages = append(messages, ollama.NewAssistantMessage(msg.Content))
		}
	}

	return messages
}

// =============================================================================
// SERIALIZATION HELPERS
// =============================================================================

// ChatMeta holds lightweight metadata for listing.
type ChatMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	HubID        string    `json:"hub_id,omitempty"`
	AgentID      string    `json:"agent_id,omitempty"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Preview      string    `json:"preview"`
}

// Meta returns metadata about the chat.
func (c *Chat) Meta() ChatMeta {
	return ChatMeta{
		ID:           c.ID,
		Title:        c.GetTitle(),
		HubID:        c.HubID,
		AgentID:      c.AgentID,
		MessageCount: len(c.Messages),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Preview:      c.Preview(),
	}
}

// Clone creates a deep copy of the chat.
func (c *Chat) Clone() *Chat {
	clone := &Chat{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		HubID:     c.HubID,
		AgentID:   c.AgentID,
		Messages:  make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		if msg.Meta != nil {
			metaCopy := *msg.Meta
			if msg.Meta.Reactions != nil {
				metaCopy.Reactions = make(map[string]int, len(msg.Meta.Reactions))
				for k, v := range msg.Meta.Reactions {
					metaCopy.Reactions[k] = v
				}
			}
			msgCopy.Meta = &metaCopy
		}
		if msg.Attachments != nil {
			msgCopy.Attachments = append([]Attachment(nil), msg.Attachments...)
		}
		clone.Messages[i] = &msgCopy
	}
	return clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateChatID creates a unique chat ID.
func generateChatID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "chat_" + hex.EncodeToString(bytes)
}
