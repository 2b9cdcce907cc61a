// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// DefaultAgentVersion is the semantic version stamped on new agents.
const DefaultAgentVersion = "1.0.0"

// =============================================================================
// AGENT TYPE
// =============================================================================

// Agent is a persona configuration bound to exactly one hub.
type Agent struct {
	// Identity
	ID    string `json:"id"`
	HubID string `json:"hub_id"` // back-reference, not ownership
	Name  string `json:"name"`

	// Persona
	Description  string   `json:"description,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`

	// State
	IsActive  bool      `json:"is_active"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Optional model selection and generation parameters
	Params *ModelParams `json:"params,omitempty"`

	// Optional usage/performance metadata
	Stats *AgentStats `json:"stats,omitempty"`
}

// ModelParams bundles model selection with sampling parameters.
type ModelParams struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// AgentStats holds lightweight popularity and performance metadata.
// Counters here are best-effort, not billing-grade.
type AgentStats struct {
	UsageCount   int     `json:"usage_count,omitempty"`
	AvgLatencyMs float64 `json:"avg_latency_ms,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
}

// NewAgent creates an agent with a generated ID, fresh timestamps, the
// active flag set, and the default version.
func NewAgent(hubID, name, description, systemPrompt string) *Agent {
	now := time.Now()
	return &Agent{
		ID:           GenerateAgentID(),
		HubID:        hubID,
		Name:         name,
		Description:  description,
		SystemPrompt: systemPrompt,
		IsActive:     true,
		Version:      DefaultAgentVersion,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Touch refreshes the update timestamp.
func (a *Agent) Touch() {
	a.UpdatedAt = time.Now()
}

// Model returns the agent's configured model name, or empty when the agent
// defers to the application default.
func (a *Agent) Model() string {
	if a.Params == nil {
		return ""
	}
	return a.Params.Model
}

// Clone creates a deep copy of the agent.
func (a *Agent) Clone() *Agent {
	clone := *a
	if a.Capabilities != nil {
		clone.Capabilities = append([]string(nil), a.Capabilities...)
	}
	if a.Params != nil {
		params := *a.Params
		clone.Params = &params
	}
	if a.Stats != nil {
		stats := *a.Stats
		clone.Stats = &stats
	}
	return &clone
}

// GenerateAgentID creates a unique agent ID.
func GenerateAgentID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "agent_" + hex.EncodeToString(bytes)
}
