// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "encoding/json"

// =============================================================================
// ENVELOPE
// =============================================================================

// Envelope is the wire shape of every backend response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// =============================================================================
// AUTH TYPES
// =============================================================================

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body for POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// RefreshRequest is the body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthData is the payload of successful login/register/refresh responses.
type AuthData struct {
	Token        string  `json:"token"`
	RefreshToken string  `json:"refresh_token,omitempty"`
	User         UserDTO `json:"user"`
}

// UserDTO is the backend's user representation.
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// =============================================================================
// DIRECTORY DTOS
// =============================================================================

// HubDTO is the backend's hub representation. The remote hub list does not
// carry full agent payloads; agent recovery happens during sync.
type HubDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"is_active"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	UsageCount  int      `json:"usage_count"`
}

// AgentDTO is the backend's agent representation, with configuration and
// stats nested the way the API ships them.
type AgentDTO struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	IsActive    *bool          `json:"is_active"`
	Version     string         `json:"version"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Config      AgentConfigDTO `json:"config"`
	Stats       *AgentStatsDTO `json:"stats"`
}

// AgentConfigDTO nests prompt and generation parameters.
type AgentConfigDTO struct {
	SystemPrompt string   `json:"system_prompt"`
	Model        string   `json:"model"`
	Temperature  float64  `json:"temperature"`
	MaxTokens    int      `json:"max_tokens"`
	Capabilities []string `json:"capabilities"`
}

// AgentStatsDTO nests usage statistics.
type AgentStatsDTO struct {
	UsageCount   int     `json:"usage_count"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	Rating       float64 `json:"rating"`
}

// =============================================================================
// CHAT DTOS
// =============================================================================

// CreateChatRequest is the body for POST /chats.
type CreateChatRequest struct {
	HubID   string `json:"hub_id,omitempty"`
	AgentID string `json:"agent_id,omitempty"`
}

// PostMessageRequest is the body for POST /chats/{id}/messages.
type PostMessageRequest struct {
	Content string `json:"content"`
	Role    string `json:"role"`
	HubID   string `json:"hub_id,omitempty"`
	AgentID string `json:"agent_id,omitempty"`
}

// ChatDTO is the backend's chat representation.
type ChatDTO struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	HubID     string       `json:"hub_id"`
	AgentID   string       `json:"agent_id"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
	Messages  []MessageDTO `json:"messages,omitempty"`
}

// MessageDTO is the backend's message representation.
type MessageDTO struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}
