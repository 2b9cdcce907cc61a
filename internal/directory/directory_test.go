// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"strings"
	"testing"
)

func TestNewHub(t *testing.T) {
	hub := NewHub("Tech", "technology talk", "development")

	if !strings.HasPrefix(hub.ID, "hub_") {
		t.Errorf("hub ID = %q, want hub_ prefix", hub.ID)
	}
	if !hub.IsActive {
		t.Error("new hubs should be active")
	}
	if hub.Agents == nil || len(hub.Agents) != 0 {
		t.Error("new hubs should have an empty agent list")
	}

	// Blank names are accepted at this layer.
	blank := NewHub("", "", "")
	if blank.Name != "" {
		t.Errorf("blank hub name = %q", blank.Name)
	}
}

func TestNewAgent(t *testing.T) {
	agent := NewAgent("hub_x", "Dev", "helps with code", "You are Dev.")

	if !strings.HasPrefix(agent.ID, "agent_") {
		t.Errorf("agent ID = %q, want agent_ prefix", agent.ID)
	}
	if agent.HubID != "hub_x" {
		t.Errorf("agent HubID = %q", agent.HubID)
	}
	if agent.Version != DefaultAgentVersion {
		t.Errorf("agent Version = %q, want %q", agent.Version, DefaultAgentVersion)
	}
	if !agent.IsActive {
		t.Error("new agents should be active")
	}
}

func TestHub_ActiveAgents(t *testing.T) {
	hub := NewHub("h", "", "")
	a := NewAgent(hub.ID, "on", "", "")
	b := NewAgent(hub.ID, "off", "", "")
	b.IsActive = false
	hub.Agents = append(hub.Agents, a, b)

	active := hub.ActiveAgents()
	if len(active) != 1 || active[0].Name != "on" {
		t.Errorf("ActiveAgents() = %v", active)
	}
}

func TestHub_AgentByID(t *testing.T) {
	hub := NewHub("h", "", "")
	a := NewAgent(hub.ID, "x", "", "")
	hub.Agents = append(hub.Agents, a)

	if got := hub.AgentByID(a.ID); got != a {
		t.Error("AgentByID should find the agent")
	}
	if got := hub.AgentByID("nope"); got != nil {
		t.Error("AgentByID should return nil for unknown ids")
	}
}

func TestHub_Clone_Independent(t *testing.T) {
	hub := NewHub("h", "", "")
	hub.Tags = []string{"one"}
	a := NewAgent(hub.ID, "x", "", "")
	a.Params = &ModelParams{Model: "llama3.2", Temperature: 0.4}
	hub.Agents = append(hub.Agents, a)

	clone := hub.Clone()
	clone.Tags[0] = "changed"
	clone.Agents[0].Name = "changed"
	clone.Agents[0].Params.Model = "changed"

	if hub.Tags[0] != "one" {
		t.Error("clone should not share tags")
	}
	if hub.Agents[0].Name != "x" {
		t.Error("clone should not share agents")
	}
	if hub.Agents[0].Params.Model != "llama3.2" {
		t.Error("clone should not share params")
	}
}

// =============================================================================
// SEED DIRECTORY TESTS
// =============================================================================

func TestDefaultHubs_NonEmpty(t *testing.T) {
	hubs := DefaultHubs()
	if len(hubs) == 0 {
		t.Fatal("seed directory must not be empty")
	}

	seen := make(map[string]bool)
	for _, hub := range hubs {
		if seen[hub.ID] {
			t.Errorf("duplicate hub id %q in seed", hub.ID)
		}
		seen[hub.ID] = true
		if !hub.IsActive {
			t.Errorf("seed hub %q should be active", hub.ID)
		}
		if len(hub.Agents) == 0 {
			t.Errorf("seed hub %q has no agents", hub.ID)
		}
		for _, a := range hub.Agents {
			if a.HubID != hub.ID {
				t.Errorf("seed agent %q back-reference = %q, want %q", a.ID, a.HubID, hub.ID)
			}
			if a.SystemPrompt == "" {
				t.Errorf("seed agent %q missing system prompt", a.ID)
			}
		}
	}
}

func TestDefaultHubs_FreshCopies(t *testing.T) {
	first := DefaultHubs()
	first[0].Name = "mutated"
	first[0].Agents[0].Name = "mutated"

	second := DefaultHubs()
	if second[0].Name == "mutated" || second[0].Agents[0].Name == "mutated" {
		t.Error("DefaultHubs must return fresh copies")
	}
}

func TestDefaultBuckets_TargetSeedHubs(t *testing.T) {
	hubs := DefaultHubs()
	ids := make(map[string]bool)
	for _, h := range hubs {
		ids[h.ID] = true
	}

	for category, hubID := range DefaultBuckets() {
		if !ids[hubID] {
			t.Errorf("bucket %q targets unknown hub %q", category, hubID)
		}
	}
}
