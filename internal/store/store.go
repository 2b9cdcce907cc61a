// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"
	"time"

	"github.com/jeranaias/mangaba/internal/directory"
	"github.com/jeranaias/mangaba/internal/model"
	"github.com/jeranaias/mangaba/internal/storage"
)

// =============================================================================
// STORE
// =============================================================================

// Store is the application state container. A single instance is
// constructed at startup and injected into every surface that needs it;
// there is no package-level singleton so tests build isolated stores.
type Store struct {
	mu sync.RWMutex

	chats []*model.Chat
	hubs  []*directory.Hub

	currentChatID   string
	selectedHubID   string
	selectedAgentID string

	backend ChatBackend

	// buckets maps remote agent categories to fixed local hub ids
	// during directory sync.
	buckets       map[string]string
	defaultBucket string

	// onChange fires after every successful mutation, outside the lock.
	onChange func()
}

// Options configures a Store.
type Options struct {
	// Backend is used for remote chat creation and directory sync.
	// Nil means fully local operation.
	Backend ChatBackend

	// Buckets maps agent categories to hub ids for agent sync. Nil
	// falls back to the built-in table.
	Buckets map[string]string

	// DefaultBucket receives agents with unrecognized categories.
	// Empty falls back to the general hub.
	DefaultBucket string

	// OnChange is invoked after each mutation, typically to persist.
	OnChange func()
}

// New creates a store seeded with the default hub directory.
func New(opts Options) *Store {
	buckets := opts.Buckets
	if buckets == nil {
		buckets = directory.DefaultBuckets()
	}
	defaultBucket := opts.DefaultBucket
	if defaultBucket == "" {
		defaultBucket = directory.HubGeneral
	}
	return &Store{
		chats:         []*model.Chat{},
		hubs:          directory.DefaultHubs(),
		backend:       opts.Backend,
		buckets:       buckets,
		defaultBucket: defaultBucket,
		onChange:      opts.OnChange,
	}
}

// notify fires the change hook. Callers must NOT hold the mutex.
func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// =============================================================================
// HUB OPERATIONS
// =============================================================================

// HubUpdate carries partial hub fields; nil pointers leave the field
// unchanged.
type HubUpdate struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
	Category    *string
	Tags        []string
	IsActive    *bool
}

// CreateHub adds a hub to the directory and returns its id. A blank
// name is accepted; validation belongs to the calling surface.
func (s *Store) CreateHub(name, description, category string) string {
	s.mu.Lock()
	hub := directory.NewHub(name, description, category)
	s.hubs = append(s.hubs, hub)
	id := hub.ID
	s.mu.Unlock()

	s.notify()
	return id
}

// UpdateHub merges partial fields into the matching hub. Returns false
// as a silent no-op when the id is unknown.
func (s *Store) UpdateHub(id string, upd HubUpdate) bool {
	s.mu.Lock()
	hub := s.hubByID(id)
	if hub == nil {
		s.mu.Unlock()
		return false
	}
	if upd.Name != nil {
		hub.Name = *upd.Name
	}
	if upd.Description != nil {
		hub.Description = *upd.Description
	}
	if upd.Icon != nil {
		hub.Icon = *upd.Icon
	}
	if upd.Color != nil {
		hub.Color = *upd.Color
	}
	if upd.Category != nil {
		hub.Category = *upd.Category
	}
	if upd.Tags != nil {
		hub.Tags = append([]string(nil), upd.Tags...)
	}
	if upd.IsActive != nil {
		hub.IsActive = *upd.IsActive
	}
	hub.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.notify()
	return true
}

// DeleteHub removes a hub. If it was selected, both the hub and agent
// selections are cleared. Chats keep their hub/agent tags; history is
// not rewritten. Returns false when the id is unknown.
func (s *Store) DeleteHub(id string) bool {
	s.mu.Lock()
	idx := -1
	for i, hub := range s.hubs {
		if hub.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.hubs = append(s.hubs[:idx], s.hubs[idx+1:]...)
	if s.selectedHubID == id {
		s.selectedHubID = ""
		s.selectedAgentID = ""
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// Hubs returns a copy of the full directory.
func (s *Store) Hubs() []*directory.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*directory.Hub, len(s.hubs))
	for i, hub := range s.hubs {
		out[i] = hub.Clone()
	}
	return out
}

// ActiveHubs returns the hubs with IsActive set.
func (s *Store) ActiveHubs() []*directory.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*directory.Hub
	for _, hub := range s.hubs {
		if hub.IsActive {
			out = append(out, hub.Clone())
		}
	}
	return out
}

// HubByID returns a copy of the hub, or nil.
func (s *Store) HubByID(id string) *directory.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if hub := s.hubByID(id); hub != nil {
		return hub.Clone()
	}
	return nil
}

// IncrementHubUsage bumps the hub's usage counter. Silent no-op on an
// unknown id.
func (s *Store) IncrementHubUsage(id string) bool {
	s.mu.Lock()
	hub := s.hubByID(id)
	if hub == nil {
		s.mu.Unlock()
		return false
	}
	hub.UsageCount++
	s.mu.Unlock()

	s.notify()
	return true
}

// hubByID looks up a live hub. Caller holds the lock.
func (s *Store) hubByID(id string) *directory.Hub {
	for _, hub := range s.hubs {
		if hub.ID == id {
			return hub
		}
	}
	return nil
}

// =============================================================================
// AGENT OPERATIONS
// =============================================================================

// AgentUpdate carries partial agent fields; nil pointers leave the
// field unchanged. Params fields merge into the existing ModelParams
// rather than replacing the struct.
type AgentUpdate struct {
	Name         *string
	Description  *string
	SystemPrompt *string
	Capabilities []string
	IsActive     *bool
	Model        *string
	Temperature  *float64
	MaxTokens    *int
}

// CreateAgent adds an agent to the named hub and returns its id.
// Returns "" as a silent no-op when the hub does not exist.
func (s *Store) CreateAgent(hubID, name, description, systemPrompt string) string {
	s.mu.Lock()
	hub := s.hubByID(hubID)
	if hub == nil {
		s.mu.Unlock()
		return ""
	}
	agent := directory.NewAgent(hubID, name, description, systemPrompt)
	hub.Agents = append(hub.Agents, agent)
	hub.UpdatedAt = time.Now()
	id := agent.ID
	s.mu.Unlock()

	s.notify()
	return id
}

// UpdateAgent merges partial fields into the agent inside the named
// hub, refreshing both timestamps. Returns false when either id is
// unknown.
func (s *Store) UpdateAgent(hubID, agentID string, upd AgentUpdate) bool {
	s.mu.Lock()
	hub := s.hubByID(hubID)
	if hub == nil {
		s.mu.Unlock()
		return false
	}
	agent := hub.AgentByID(agentID)
	if agent == nil {
		s.mu.Unlock()
		return false
	}
	if upd.Name != nil {
		agent.Name = *upd.Name
	}
	if upd.Description != nil {
		agent.Description = *upd.Description
	}
	if upd.SystemPrompt != nil {
		agent.SystemPrompt = *upd.SystemPrompt
	}
	if upd.Capabilities != nil {
		agent.Capabilities = append([]string(nil), upd.Capabilities...)
	}
	if upd.IsActive != nil {
		agent.IsActive = *upd.IsActive
	}
	if upd.Model != nil || upd.Temperature != nil || upd.MaxTokens != nil {
		if agent.Params == nil {
			agent.Params = &directory.ModelParams{}
		}
		if upd.Model != nil {
			agent.Params.Model = *upd.Model
		}
		if upd.Temperature != nil {
			agent.Params.Temperature = *upd.Temperature
		}
		if upd.MaxTokens != nil {
			agent.Params.MaxTokens = *upd.MaxTokens
		}
	}
	now := time.Now()
	agent.UpdatedAt = now
	hub.UpdatedAt = now
	s.mu.Unlock()

	s.notify()
	return true
}

// DeleteAgent scans every hub and removes the matching agent, relying
// on agent ids being globally unique. Clears the agent selection if it
// matched. Returns false when no hub contained the agent.
func (s *Store) DeleteAgent(agentID string) bool {
	s.mu.Lock()
	removed := false
	for _, hub := range s.hubs {
		for i, agent := range hub.Agents {
			if agent.ID == agentID {
				hub.Agents = append(hub.Agents[:i], hub.Agents[i+1:]...)
				hub.UpdatedAt = time.Now()
				removed = true
				break
			}
		}
	}
	if removed && s.selectedAgentID == agentID {
		s.selectedAgentID = ""
	}
	s.mu.Unlock()

	if removed {
		s.notify()
	}
	return removed
}

// ActiveAgents returns the active agents of a hub, or nil for an
// unknown hub.
func (s *Store) ActiveAgents(hubID string) []*directory.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hub := s.hubByID(hubID)
	if hub == nil {
		return nil
	}
	var out []*directory.Agent
	for _, agent := range hub.Agents {
		if agent.IsActive {
			out = append(out, agent.Clone())
		}
	}
	return out
}

// IncrementAgentUsage bumps the agent's usage counter. Silent no-op
// when either id is unknown.
func (s *Store) IncrementAgentUsage(hubID, agentID string) bool {
	s.mu.Lock()
	hub := s.hubByID(hubID)
	if hub == nil {
		s.mu.Unlock()
		return false
	}
	agent := hub.AgentByID(agentID)
	if agent == nil {
		s.mu.Unlock()
		return false
	}
	if agent.Stats == nil {
		agent.Stats = &directory.AgentStats{}
	}
	agent.Stats.UsageCount++
	s.mu.Unlock()

	s.notify()
	return true
}

// =============================================================================
// SELECTION
// =============================================================================

// SelectHub sets the hub selection. Changing hubs always clears the
// agent selection: agents are only meaningful within their hub's scope,
// even when the agent would belong to the newly selected hub.
func (s *Store) SelectHub(id string) {
	s.mu.Lock()
	s.selectedHubID = id
	s.selectedAgentID = ""
	s.mu.Unlock()

	s.notify()
}

// SelectAgent sets the agent selection. Existence is not validated.
func (s *Store) SelectAgent(id string) {
	s.mu.Lock()
	s.selectedAgentID = id
	s.mu.Unlock()

	s.notify()
}

// SelectedHub returns a copy of the selected hub, or nil.
func (s *Store) SelectedHub() *directory.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedHubID == "" {
		return nil
	}
	if hub := s.hubByID(s.selectedHubID); hub != nil {
		return hub.Clone()
	}
	return nil
}

// SelectedAgent scans all hubs for the selected agent id and returns a
// copy, or nil. The scan handles agents whose hub is not the selected
// hub, since ids are globally unique.
func (s *Store) SelectedAgent() *directory.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedAgentID == "" {
		return nil
	}
	for _, hub := range s.hubs {
		if agent := hub.AgentByID(s.selectedAgentID); agent != nil {
			return agent.Clone()
		}
	}
	return nil
}

// Selection returns the raw selection ids (hub, agent, chat).
func (s *Store) Selection() (hubID, agentID, chatID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedHubID, s.selectedAgentID, s.currentChatID
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Snapshot captures the full store state for persistence.
func (s *Store) Snapshot() *storage.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats := make([]*model.Chat, len(s.chats))
	for i, chat := range s.chats {
		chats[i] = chat.Clone()
	}
	hubs := make([]*directory.Hub, len(s.hubs))
	for i, hub := range s.hubs {
		hubs[i] = hub.Clone()
	}
	return &storage.Snapshot{
		Chats:           chats,
		Hubs:            hubs,
		CurrentChatID:   s.currentChatID,
		SelectedHubID:   s.selectedHubID,
		SelectedAgentID: s.selectedAgentID,
	}
}

// LoadSnapshot rehydrates the store from a snapshot. An empty hub list
// is repaired to the seed directory so the UI never sees zero hubs.
// Returns true when the repair fired.
func (s *Store) LoadSnapshot(snap *storage.Snapshot) (repaired bool) {
	s.mu.Lock()
	s.chats = snap.Chats
	if s.chats == nil {
		s.chats = []*model.Chat{}
	}
	if len(snap.Hubs) == 0 {
		s.hubs = directory.DefaultHubs()
		repaired = true
	} else {
		s.hubs = snap.Hubs
	}
	s.currentChatID = snap.CurrentChatID
	s.selectedHubID = snap.SelectedHubID
	s.selectedAgentID = snap.SelectedAgentID
	s.mu.Unlock()
	return repaired
}

// ResetHubsToDefaults discards all hub and agent customization along
// with the selection state, restoring the seed directory.
func (s *Store) ResetHubsToDefaults() {
	s.mu.Lock()
	s.hubs = directory.DefaultHubs()
	s.selectedHubID = ""
	s.selectedAgentID = ""
	s.mu.Unlock()

	s.notify()
}
