// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/mangaba/internal/backend"
	"github.com/jeranaias/mangaba/internal/directory"
)

// DirectoryBackend is the slice of the REST client the directory sync
// depends on.
type DirectoryBackend interface {
	HasCredential() bool
	ListHubs(ctx context.Context) ([]backend.HubDTO, error)
	ListAgents(ctx context.Context) ([]backend.AgentDTO, error)
}

// Backend combines everything the store needs from the REST client.
// *backend.Client satisfies it.
type Backend interface {
	ChatBackend
	DirectoryBackend
}

// =============================================================================
// HUB SYNC
// =============================================================================

// SyncHubs pulls the remote hub list and replaces the local directory
// with it. Remote hubs do not carry agent payloads, so each one is
// merged with any seed hub of the same name to recover its agents.
// Without a credential this does nothing; any failure leaves the local
// directory untouched. Best effort by contract.
func (s *Store) SyncHubs(ctx context.Context) error {
	db, ok := s.backend.(DirectoryBackend)
	if !ok || s.backend == nil {
		return nil
	}
	if !db.HasCredential() {
		return nil
	}

	dtos, err := db.ListHubs(ctx)
	if err != nil {
		return fmt.Errorf("fetch hubs: %w", err)
	}

	defaults := directory.DefaultHubs()
	byName := make(map[string]*directory.Hub, len(defaults))
	for _, hub := range defaults {
		byName[hub.Name] = hub
	}

	merged := make([]*directory.Hub, 0, len(dtos))
	for _, dto := range dtos {
		hub := hubFromDTO(dto)
		if seed, ok := byName[hub.Name]; ok {
			hub.Agents = seed.Agents
		}
		merged = append(merged, hub)
	}

	s.mu.Lock()
	s.hubs = merged
	s.mu.Unlock()

	s.notify()
	return nil
}

// SyncAgents pulls the remote agent list, classifies each agent into a
// fixed hub bucket by its category, and replaces the agent lists of the
// bucket hubs only; other hubs keep their agents. Running it after
// SyncHubs may overwrite agent lists hub sync just reconstructed, which
// is accepted last-write-wins behavior. Without a credential this does
// nothing; any failure leaves the directory untouched.
func (s *Store) SyncAgents(ctx context.Context) error {
	db, ok := s.backend.(DirectoryBackend)
	if !ok || s.backend == nil {
		return nil
	}
	if !db.HasCredential() {
		return nil
	}

	dtos, err := db.ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("fetch agents: %w", err)
	}

	grouped := make(map[string][]*directory.Agent)
	for _, dto := range dtos {
		hubID, ok := s.buckets[dto.Category]
		if !ok {
			hubID = s.defaultBucket
		}
		grouped[hubID] = append(grouped[hubID], agentFromDTO(dto, hubID))
	}

	s.mu.Lock()
	for _, hub := range s.hubs {
		if agents, ok := grouped[hub.ID]; ok {
			hub.Agents = agents
			hub.UpdatedAt = time.Now()
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// =============================================================================
// DTO MAPPING
// =============================================================================

// hubFromDTO is a total mapping from the wire hub shape to the local
// entity: every field is defaulted explicitly.
func hubFromDTO(dto backend.HubDTO) *directory.Hub {
	now := time.Now()
	created := parseTime(dto.CreatedAt)
	if created.IsZero() {
		created = now
	}
	updated := parseTime(dto.UpdatedAt)
	if updated.IsZero() {
		updated = created
	}

	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}

	tags := dto.Tags
	if tags == nil {
		tags = []string{}
	}

	return &directory.Hub{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		Icon:        dto.Icon,
		Color:       dto.Color,
		Category:    dto.Category,
		Tags:        tags,
		IsActive:    active,
		UsageCount:  dto.UsageCount,
		CreatedAt:   created,
		UpdatedAt:   updated,
		Agents:      []*directory.Agent{},
	}
}

// agentFromDTO is a total mapping from the wire agent shape to the
// local entity, substituting defaults for anything absent.
func agentFromDTO(dto backend.AgentDTO, hubID string) *directory.Agent {
	now := time.Now()
	created := parseTime(dto.CreatedAt)
	if created.IsZero() {
		created = now
	}
	updated := parseTime(dto.UpdatedAt)
	if updated.IsZero() {
		updated = created
	}

	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}

	version := dto.Version
	if version == "" {
		version = directory.DefaultAgentVersion
	}

	capabilities := dto.Config.Capabilities
	if capabilities == nil {
		capabilities = []string{}
	}

	agent := &directory.Agent{
		ID:           dto.ID,
		HubID:        hubID,
		Name:         dto.Name,
		Description:  dto.Description,
		SystemPrompt: dto.Config.SystemPrompt,
		Capabilities: capabilities,
		IsActive:     active,
		Version:      version,
		CreatedAt:    created,
		UpdatedAt:    updated,
		Params: &directory.ModelParams{
			Model:       dto.Config.Model,
			Temperature: dto.Config.Temperature,
			MaxTokens:   dto.Config.MaxTokens,
		},
	}
	if dto.Stats != nil {
		agent.Stats = &directory.AgentStats{
			UsageCount:   dto.Stats.UsageCount,
			AvgLatencyMs: dto.Stats.AvgLatencyMs,
			Rating:       dto.Stats.Rating,
		}
	}
	return agent
}

// parseTime accepts the timestamp formats the backend emits. A zero
// time means unparseable.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
