// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/mangaba/internal/backend"
	"github.com/jeranaias/mangaba/internal/directory"
	"github.com/jeranaias/mangaba/internal/model"
	"github.com/jeranaias/mangaba/internal/storage"
)

// fakeBackend implements Backend for tests.
type fakeBackend struct {
	credential bool
	chatID     string
	chatErr    error
	hubs       []backend.HubDTO
	agents     []backend.AgentDTO
	listErr    error
}

func (f *fakeBackend) HasCredential() bool { return f.credential }

func (f *fakeBackend) CreateChat(_ context.Context, hubID, agentID string) (*backend.ChatDTO, error) {
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &backend.ChatDTO{ID: f.chatID, HubID: hubID, AgentID: agentID, CreatedAt: "2026-01-15T10:00:00Z"}, nil
}

func (f *fakeBackend) PostMessage(context.Context, string, backend.PostMessageRequest) (*backend.MessageDTO, error) {
	return &backend.MessageDTO{}, nil
}

func (f *fakeBackend) ListHubs(context.Context) ([]backend.HubDTO, error) {
	return f.hubs, f.listErr
}

func (f *fakeBackend) ListAgents(context.Context) ([]backend.AgentDTO, error) {
	return f.agents, f.listErr
}

// =============================================================================
// DIRECTORY TESTS
// =============================================================================

func TestCreateHubUniqueIDs(t *testing.T) {
	s := New(Options{})
	seen := make(map[string]bool)
	for _, hub := range s.Hubs() {
		seen[hub.ID] = true
	}
	for i := 0; i < 50; i++ {
		id := s.CreateHub("Hub", "", "general")
		if seen[id] {
			t.Fatalf("duplicate hub id %q", id)
		}
		seen[id] = true
	}
}

func TestCreateHubAcceptsBlankName(t *testing.T) {
	s := New(Options{})
	id := s.CreateHub("", "", "")
	if id == "" {
		t.Fatal("blank name should still create a hub")
	}
	hub := s.HubByID(id)
	if hub == nil || !hub.IsActive {
		t.Errorf("new hub should exist and default active: %+v", hub)
	}
	if hub.Agents == nil || len(hub.Agents) != 0 {
		t.Errorf("new hub should have empty agent list")
	}
}

func TestUpdateHubNoOpOnUnknownID(t *testing.T) {
	s := New(Options{})
	name := "Renamed"
	if s.UpdateHub("hub_missing", HubUpdate{Name: &name}) {
		t.Error("expected no-op false for unknown hub")
	}
}

func TestUpdateHubMergesPartial(t *testing.T) {
	s := New(Options{})
	id := s.CreateHub("Original", "desc", "general")

	name := "Renamed"
	if !s.UpdateHub(id, HubUpdate{Name: &name}) {
		t.Fatal("update failed")
	}
	hub := s.HubByID(id)
	if hub.Name != "Renamed" {
		t.Errorf("name not updated: %q", hub.Name)
	}
	if hub.Description != "desc" {
		t.Errorf("untouched field changed: %q", hub.Description)
	}
}

func TestDeleteHubClearsSelection(t *testing.T) {
	s := New(Options{})
	hubID := s.CreateHub("Tech", "", "development")
	agentID := s.CreateAgent(hubID, "Dev", "", "You are Dev.")

	s.SelectHub(hubID)
	s.SelectAgent(agentID)

	if !s.DeleteHub(hubID) {
		t.Fatal("delete failed")
	}
	hub, agent, _ := s.Selection()
	if hub != "" || agent != "" {
		t.Errorf("expected cleared selection, got hub=%q agent=%q", hub, agent)
	}
	if s.HubByID(hubID) != nil {
		t.Error("hub still present after delete")
	}
}

func TestDeleteHubKeepsChatTags(t *testing.T) {
	s := New(Options{})
	hubID := s.CreateHub("Tech", "", "development")
	res := s.CreateChat(context.Background(), hubID, "")
	s.DeleteHub(hubID)

	chat := s.ChatByID(res.ID)
	if chat == nil || chat.HubID != hubID {
		t.Error("chat should retain dangling hub tag; history is not rewritten")
	}
}

func TestCreateAgentNoOpOnUnknownHub(t *testing.T) {
	s := New(Options{})
	if id := s.CreateAgent("hub_missing", "Dev", "", ""); id != "" {
		t.Errorf("expected empty id for unknown hub, got %q", id)
	}
}

func TestDeleteAgentScansAllHubs(t *testing.T) {
	s := New(Options{})
	h1 := s.CreateHub("One", "", "general")
	h2 := s.CreateHub("Two", "", "general")
	a1 := s.CreateAgent(h1, "A", "", "")
	a2 := s.CreateAgent(h2, "B", "", "")

	if !s.DeleteAgent(a2) {
		t.Fatal("delete should find the agent in its hub")
	}
	if len(s.ActiveAgents(h2)) != 0 {
		t.Error("agent not removed from second hub")
	}
	if len(s.ActiveAgents(h1)) != 1 {
		t.Error("other hub's agents should be untouched")
	}
	if s.DeleteAgent(a2) {
		t.Error("second delete should be a no-op")
	}
	_ = a1
}

func TestDeleteAgentClearsSelection(t *testing.T) {
	s := New(Options{})
	hubID := s.CreateHub("Tech", "", "development")
	agentID := s.CreateAgent(hubID, "Dev", "", "")
	s.SelectAgent(agentID)

	s.DeleteAgent(agentID)
	if s.SelectedAgent() != nil {
		t.Error("selected agent should be cleared after delete")
	}
}

func TestActiveAgentsFilters(t *testing.T) {
	s := New(Options{})
	hubID := s.CreateHub("Tech", "", "development")
	a1 := s.CreateAgent(hubID, "Dev", "", "You are Dev.")
	a2 := s.CreateAgent(hubID, "Idle", "", "")

	inactive := false
	s.UpdateAgent(hubID, a2, AgentUpdate{IsActive: &inactive})

	agents := s.ActiveAgents(hubID)
	if len(agents) != 1 || agents[0].ID != a1 {
		t.Errorf("expected only the active agent, got %+v", agents)
	}
	if agents[0].Name != "Dev" {
		t.Errorf("unexpected agent: %+v", agents[0])
	}
}

func TestSelectHubAlwaysClearsAgent(t *testing.T) {
	s := New(Options{})
	hubID := s.CreateHub("Tech", "", "development")
	agentID := s.CreateAgent(hubID, "Dev", "", "")

	s.SelectHub(hubID)
	s.SelectAgent(agentID)

	// Reselect the same hub the agent belongs to: the agent selection
	// still resets.
	s.SelectHub(hubID)
	if s.SelectedAgent() != nil {
		t.Error("selecting a hub must clear the agent selection")
	}
}

func TestSelectedAgentGlobalScan(t *testing.T) {
	s := New(Options{})
	h1 := s.CreateHub("One", "", "general")
	h2 := s.CreateHub("Two", "", "general")
	agentID := s.CreateAgent(h2, "Dev", "", "")

	// Select a hub other than the agent's.
	s.SelectHub(h1)
	s.SelectAgent(agentID)

	agent := s.SelectedAgent()
	if agent == nil || agent.ID != agentID {
		t.Errorf("lookup should scan all hubs, got %+v", agent)
	}
}

func TestUsageCounters(t *testing.T) {
	s := New(Options{})
	hubID := s.CreateHub("Tech", "", "development")
	agentID := s.CreateAgent(hubID, "Dev", "", "")

	s.IncrementHubUsage(hubID)
	s.IncrementHubUsage(hubID)
	s.IncrementAgentUsage(hubID, agentID)

	if got := s.HubByID(hubID).UsageCount; got != 2 {
		t.Errorf("expected hub usage 2, got %d", got)
	}
	agents := s.ActiveAgents(hubID)
	if agents[0].Stats == nil || agents[0].Stats.UsageCount != 1 {
		t.Errorf("expected agent usage 1, got %+v", agents[0].Stats)
	}
	if s.IncrementHubUsage("hub_missing") {
		t.Error("unknown hub should be a no-op")
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestCreateChatRemote(t *testing.T) {
	fb := &fakeBackend{credential: true, chatID: "srv-42"}
	s := New(Options{Backend: fb})

	res := s.CreateChat(context.Background(), "", "")
	if res.Origin != OriginRemote {
		t.Fatalf("expected remote origin, got %v", res.Origin)
	}
	if res.ID != "srv-42" {
		t.Errorf("expected server id, got %q", res.ID)
	}
	if chat := s.CurrentChat(); chat == nil || chat.ID != "srv-42" {
		t.Error("new chat should become current")
	}
}

func TestCreateChatLocalFallback(t *testing.T) {
	fb := &fakeBackend{chatErr: errors.New("backend down")}
	s := New(Options{Backend: fb})

	res := s.CreateChat(context.Background(), "hub_general", "agent_companion")
	if res.Origin != OriginLocal {
		t.Fatalf("expected local origin, got %v", res.Origin)
	}
	if res.ID == "" {
		t.Fatal("fallback must still yield an id")
	}
	chat := s.CurrentChat()
	if chat == nil || chat.ID != res.ID {
		t.Error("fallback chat should still be appended and current")
	}
	if chat.HubID != "hub_general" || chat.AgentID != "agent_companion" {
		t.Errorf("context tags lost: %+v", chat)
	}
}

func TestCreateChatNoBackend(t *testing.T) {
	s := New(Options{})
	res := s.CreateChat(context.Background(), "", "")
	if res.Origin != OriginLocal || res.ID == "" {
		t.Errorf("expected local chat, got %+v", res)
	}
}

func TestDeleteChatClearsCurrentOnlyIfMatched(t *testing.T) {
	s := New(Options{})
	first := s.CreateChat(context.Background(), "", "")
	second := s.CreateChat(context.Background(), "", "")

	// second is current; deleting first leaves it alone.
	if !s.DeleteChat(first.ID) {
		t.Fatal("delete failed")
	}
	if chat := s.CurrentChat(); chat == nil || chat.ID != second.ID {
		t.Error("deleting a non-current chat must not clear the pointer")
	}

	s.DeleteChat(second.ID)
	if s.CurrentChat() != nil {
		t.Error("deleting the current chat must clear the pointer")
	}
}

func TestSetCurrentChatUnvalidated(t *testing.T) {
	s := New(Options{})
	s.SetCurrentChat("chat_ghost")
	if s.CurrentChat() != nil {
		t.Error("stale pointer should yield no current chat")
	}
}

func TestAddMessageDerivesTitleOnce(t *testing.T) {
	s := New(Options{})
	res := s.CreateChat(context.Background(), "", "")

	if _, ok := s.AddMessage(res.ID, model.RoleUser, "Hello, can you help me plan a trip?"); !ok {
		t.Fatal("AddMessage failed")
	}
	title := s.ChatByID(res.ID).Title
	if !strings.HasPrefix(title, "Hello") {
		t.Errorf("title should derive from first message, got %q", title)
	}

	s.AddMessage(res.ID, model.RoleAssistant, "World")
	if got := s.ChatByID(res.ID).Title; got != title {
		t.Errorf("second message must not change the title: %q -> %q", title, got)
	}
}

func TestAddMessageNoOpOnUnknownChat(t *testing.T) {
	s := New(Options{})
	if _, ok := s.AddMessage("chat_missing", model.RoleUser, "hi"); ok {
		t.Error("expected no-op false for unknown chat")
	}
}

func TestAddMessageStampsContext(t *testing.T) {
	s := New(Options{})
	res := s.CreateChat(context.Background(), "hub_dev", "agent_debugger")
	msg, _ := s.AddMessage(res.ID, model.RoleUser, "why does this panic?")
	if msg.HubID != "hub_dev" || msg.AgentID != "agent_debugger" {
		t.Errorf("message should carry the chat's context tags: %+v", msg)
	}
	if msg.ID == "" || msg.Timestamp.IsZero() {
		t.Error("message should be stamped with id and timestamp")
	}
}

func TestClearAllChats(t *testing.T) {
	s := New(Options{})
	s.CreateChat(context.Background(), "", "")
	s.CreateChat(context.Background(), "", "")

	s.ClearAllChats()
	if len(s.Chats()) != 0 {
		t.Error("chats should be empty")
	}
	if s.CurrentChat() != nil {
		t.Error("current pointer should be cleared")
	}
}

// =============================================================================
// IMPORT / EXPORT TESTS
// =============================================================================

func TestExportImportRoundTrip(t *testing.T) {
	s := New(Options{})
	hubID := s.CreateHub("Tech", "", "development")
	res := s.CreateChat(context.Background(), hubID, "")
	s.AddMessage(res.ID, model.RoleUser, "hello")

	data, err := s.ExportData()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	fresh := New(Options{})
	if err := fresh.ImportData(data); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if fresh.ChatByID(res.ID) == nil {
		t.Error("chat lost in round trip")
	}
	if fresh.HubByID(hubID) == nil {
		t.Error("hub lost in round trip")
	}
}

func TestImportRejectsMissingCollections(t *testing.T) {
	s := New(Options{})
	before := len(s.Hubs())

	if err := s.ImportData([]byte(`{"chats": []}`)); !errors.Is(err, ErrBadPayload) {
		t.Errorf("expected ErrBadPayload, got %v", err)
	}
	if err := s.ImportData([]byte(`{"hubs": []}`)); !errors.Is(err, ErrBadPayload) {
		t.Errorf("expected ErrBadPayload, got %v", err)
	}
	if err := s.ImportData([]byte(`not json`)); err == nil {
		t.Error("expected parse error")
	}
	if len(s.Hubs()) != before {
		t.Error("failed import must leave state untouched")
	}
}

func TestImportRepairsEmptyHubs(t *testing.T) {
	s := New(Options{})
	if err := s.ImportData([]byte(`{"chats": [], "hubs": []}`)); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(s.Hubs()) == 0 {
		t.Error("empty imported hubs should be repaired to defaults")
	}
}

// =============================================================================
// PERSISTENCE TESTS
// =============================================================================

func TestLoadSnapshotRepairsEmptyHubs(t *testing.T) {
	s := New(Options{})
	repaired := s.LoadSnapshot(&storage.Snapshot{Hubs: []*directory.Hub{}})
	if !repaired {
		t.Error("empty hub list should trigger repair")
	}
	if len(s.Hubs()) == 0 {
		t.Error("directory must never be observably empty")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New(Options{})
	hubID := s.CreateHub("Tech", "", "development")
	res := s.CreateChat(context.Background(), hubID, "")
	s.SelectHub(hubID)

	snap := s.Snapshot()
	fresh := New(Options{})
	if fresh.LoadSnapshot(snap) {
		t.Error("non-empty hubs should not be repaired")
	}
	if fresh.ChatByID(res.ID) == nil {
		t.Error("chat lost")
	}
	hub, _, chat := fresh.Selection()
	if hub != hubID || chat != res.ID {
		t.Errorf("selection lost: hub=%q chat=%q", hub, chat)
	}
}

func TestResetHubsToDefaults(t *testing.T) {
	s := New(Options{})
	hubID := s.CreateHub("Custom", "", "general")
	s.SelectHub(hubID)

	s.ResetHubsToDefaults()
	if s.HubByID(hubID) != nil {
		t.Error("custom hub should be gone")
	}
	if s.HubByID(directory.HubGeneral) == nil {
		t.Error("seed hubs should be restored")
	}
	hub, agent, _ := s.Selection()
	if hub != "" || agent != "" {
		t.Error("selection should be cleared on reset")
	}
}

func TestOnChangeFires(t *testing.T) {
	var calls int
	s := New(Options{OnChange: func() { calls++ }})

	s.CreateHub("Tech", "", "development")
	s.SelectHub(directory.HubGeneral)
	s.CreateChat(context.Background(), "", "")

	if calls != 3 {
		t.Errorf("expected 3 change notifications, got %d", calls)
	}

	// No-ops do not fire the hook.
	before := calls
	s.DeleteChat("chat_missing")
	s.DeleteAgent("agent_missing")
	if calls != before {
		t.Errorf("no-ops fired the change hook")
	}
}

// =============================================================================
// SEARCH TESTS
// =============================================================================

func TestSearchChatsCaseFolded(t *testing.T) {
	s := New(Options{})
	res := s.CreateChat(context.Background(), "", "")
	s.AddMessage(res.ID, model.RoleUser, "Tell me about Straße names in Berlin")

	if got := s.SearchChats("STRASSE"); len(got) != 1 {
		t.Errorf("case-folded search should match, got %d results", len(got))
	}
	if got := s.SearchChats("unrelated"); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}

func TestSearchAgents(t *testing.T) {
	s := New(Options{})
	got := s.SearchAgents("code")
	if len(got) == 0 {
		t.Error("seed directory should contain code-capable agents")
	}
}
