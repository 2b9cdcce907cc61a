// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// HUB TYPE
// =============================================================================

// Hub is a named grouping of agents.
type Hub struct {
	// Identity
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Presentation
	Icon     string   `json:"icon,omitempty"`
	Color    string   `json:"color,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// State
	IsActive   bool      `json:"is_active"`
	UsageCount int       `json:"usage_count,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Owned agents. No other entity holds these.
	Agents []*Agent `json:"agents"`
}

// NewHub creates a hub with a generated ID, fresh timestamps, an empty
// agent list, and the active flag set. Validation is a form concern; a
// blank name is accepted here.
func NewHub(name, description, category string) *Hub {
	now := time.Now()
	return &Hub{
		ID:          GenerateHubID(),
		Name:        name,
		Description: description,
		Category:    category,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		Agents:      make([]*Agent, 0),
	}
}

// AgentByID returns the agent with the given ID, or nil if absent.
func (h *Hub) AgentByID(id string) *Agent {
	for _, a := range h.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// ActiveAgents returns the agents with the active flag set.
func (h *Hub) ActiveAgents() []*Agent {
	result := make([]*Agent, 0, len(h.Agents))
	for _, a := range h.Agents {
		if a.IsActive {
			result = append(result, a)
		}
	}
	return result
}

// Touch refreshes the update timestamp.
func (h *Hub) Touch() {
	h.UpdatedAt = time.Now()
}

// Clone creates a deep copy of the hub and its agents.
func (h *Hub) Clone() *Hub {
	clone := *h
	if h.Tags != nil {
		clone.Tags = append([]string(nil), h.Tags...)
	}
	clone.Agents = make([]*Agent, len(h.Agents))
	for i, a := range h.Agents {
		clone.Agents[i] = a.Clone()
	}
	return &clone
}

// GenerateHubID creates a unique hub ID.
func GenerateHubID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "hub_" + hex.EncodeToString(bytes)
}
