// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import "time"

// Seed hub identifiers. These are stable literals rather than generated
// IDs so that backend agent sync can bucket remote agents onto them and
// so repeated repairs produce the same directory.
const (
	HubGeneral  = "hub_general"
	HubDev      = "hub_dev"
	HubCreative = "hub_creative"
	HubResearch = "hub_research"
)

// DefaultHubs returns the seed directory. The result is freshly built on
// every call; callers own it and may mutate it freely.
func DefaultHubs() []*Hub {
	now := time.Now()

	build := func(id, name, desc, icon, color, category string, tags []string, agents []*Agent) *Hub {
		for _, a := range agents {
			a.HubID = id
		}
		return &Hub{
			ID:          id,
			Name:        name,
			Description: desc,
			Icon:        icon,
			Color:       color,
			Category:    category,
			Tags:        tags,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
			Agents:      agents,
		}
	}

	agent := func(id, name, desc, prompt string, caps []string, params *ModelParams) *Agent {
		return &Agent{
			ID:           id,
			Name:         name,
			Description:  desc,
			SystemPrompt: prompt,
			Capabilities: caps,
			IsActive:     true,
			Version:      DefaultAgentVersion,
			CreatedAt:    now,
			UpdatedAt:    now,
			Params:       params,
		}
	}

	return []*Hub{
		build(HubGeneral, "General", "Everyday conversation and quick answers", "chat", "#6366f1", "general",
			[]string{"chat", "default"},
			[]*Agent{
				agent("agent_companion", "Companion",
					"Friendly general-purpose assistant",
					"You are a helpful, concise assistant. Answer plainly and admit uncertainty.",
					[]string{"conversation", "summaries"},
					&ModelParams{Temperature: 0.8}),
			}),
		build(HubDev, "Development", "Code review, debugging, and explanations", "code", "#22c55e", "development",
			[]string{"code", "engineering"},
			[]*Agent{
				agent("agent_reviewer", "Code Reviewer",
					"Reviews diffs and flags bugs and style issues",
					"You are a meticulous code reviewer. Point out bugs, risky patterns, and unclear naming. Be specific.",
					[]string{"code-review", "refactoring"},
					&ModelParams{Temperature: 0.2, MaxTokens: 2048}),
				agent("agent_debugger", "Debugger",
					"Walks through failures and proposes fixes",
					"You are a debugging assistant. Ask for the failing input, reason step by step, and propose the smallest fix.",
					[]string{"debugging"},
					&ModelParams{Temperature: 0.3}),
			}),
		build(HubCreative, "Creative", "Writing, brainstorming, and wordsmithing", "pen", "#f59e0b", "creative",
			[]string{"writing"},
			[]*Agent{
				agent("agent_writer", "Writer",
					"Drafts and polishes prose",
					"You are a writing assistant. Match the requested tone and keep the author's voice.",
					[]string{"drafting", "editing"},
					&ModelParams{Temperature: 1.0}),
			}),
		build(HubResearch, "Research", "Digging into topics and structuring findings", "book", "#06b6d4", "research",
			[]string{"research", "analysis"},
			[]*Agent{
				agent("agent_analyst", "Analyst",
					"Breaks questions down and organizes evidence",
					"You are a research analyst. Separate facts from speculation and cite what you rely on.",
					[]string{"analysis", "outlines"},
					&ModelParams{Temperature: 0.4}),
			}),
	}
}

// DefaultBuckets returns the default mapping from remote agent categories
// to seed hub identifiers, used by backend agent sync. Unrecognized
// categories fall into the general hub.
func DefaultBuckets() map[string]string {
	return map[string]string{
		"general":     HubGeneral,
		"development": HubDev,
		"coding":      HubDev,
		"creative":    HubCreative,
		"writing":     HubCreative,
		"research":    HubResearch,
		"analysis":    HubResearch,
	}
}
