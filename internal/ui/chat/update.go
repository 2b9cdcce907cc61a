// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - message handling for the chat view.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mangaba/internal/backend"
	"github.com/jeranaias/mangaba/internal/model"
	"github.com/jeranaias/mangaba/internal/session"
	"github.com/jeranaias/mangaba/internal/store"
)

const sidebarWidth = 26

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state != StateStreaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case session.TickMsg:
		m.deps.Session.RecordActivity()
		return m, m.deps.Session.HandleTick()

	case session.AutoSaveMsg:
		if m.deps.Session.Check() {
			m.statusNote = "saved"
		}
		return m, nil

	case StreamChunkMsg:
		return m.handleChunk(msg)

	case StreamClosedMsg:
		return m.finishStream()

	case StreamErrMsg:
		m.lastErr = msg.Err
		m.state = StateReady
		m.streamCh = nil
		m.refreshViewport()
		return m, nil

	case SyncDoneMsg:
		if msg.Err != nil {
			m.statusNote = "sync failed: " + msg.Err.Error()
		} else {
			m.statusNote = "directory synced"
			m.hubCursor, m.agentCursor = 0, 0
		}
		return m, nil

	case StatusMsg:
		m.statusNote = msg.Text
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	chatWidth := m.width - sidebarWidth - 2
	if chatWidth < 20 {
		chatWidth = 20
	}
	// header + input box + status bar
	chatHeight := m.height - 6
	if chatHeight < 3 {
		chatHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(chatWidth, chatHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = chatHeight
	}
	m.input.Width = chatWidth - 4
	m.refreshViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		m.deps.Session.Flush()
		return m, tea.Quit

	case key.Matches(msg, m.keys.CycleFoc):
		m.focus = (m.focus + 1) % 3
		if m.focus == focusInput {
			m.input.Focus()
		} else {
			m.input.Blur()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		return m.startChat()

	case key.Matches(msg, m.keys.NextChat):
		return m.cycleChat()

	case key.Matches(msg, m.keys.Sync):
		return m, m.syncCmd()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	switch m.focus {
	case focusHubs:
		return m.handleHubKey(msg)
	case focusAgents:
		return m.handleAgentKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m Model) handleHubKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	hubs := m.deps.Store.ActiveHubs()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.hubCursor > 0 {
			m.hubCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.hubCursor < len(hubs)-1 {
			m.hubCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.hubCursor < len(hubs) {
			// Selecting a hub always resets the agent choice.
			m.deps.Store.SelectHub(hubs[m.hubCursor].ID)
			m.deps.Store.IncrementHubUsage(hubs[m.hubCursor].ID)
			m.agentCursor = 0
			m.focus = focusAgents
		}
	}
	return m, nil
}

func (m Model) handleAgentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	hubID, _, _ := m.deps.Store.Selection()
	agents := m.deps.Store.ActiveAgents(hubID)
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.agentCursor > 0 {
			m.agentCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.agentCursor < len(agents)-1 {
			m.agentCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.agentCursor < len(agents) {
			m.deps.Store.SelectAgent(agents[m.agentCursor].ID)
			m.focus = focusInput
			m.input.Focus()
		}
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Send):
		return m.sendMessage()
	case key.Matches(msg, m.keys.ClearLine):
		m.input.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// CHAT FLOW
// =============================================================================

// startChat opens a fresh chat for the current hub/agent selection.
func (m Model) startChat() (tea.Model, tea.Cmd) {
	hubID, agentID, _ := m.deps.Store.Selection()
	ctx, cancel := context.WithTimeout(context.Background(), m.deps.Config.BackendTimeout())
	defer cancel()
	result := m.deps.Store.CreateChat(ctx, hubID, agentID)
	if result.Origin == store.OriginLocal && m.deps.Backend.HasCredential() {
		m.statusNote = "backend unreachable, chat is local-only"
	} else {
		m.statusNote = "new chat"
	}
	m.partial = ""
	m.lastErr = nil
	m.refreshViewport()
	return m, nil
}

// cycleChat switches the viewport to the next stored chat, wrapping around.
func (m Model) cycleChat() (tea.Model, tea.Cmd) {
	if m.state == StateStreaming {
		return m, nil
	}
	chats := m.deps.Store.Chats()
	if len(chats) == 0 {
		return m, nil
	}
	_, _, currentID := m.deps.Store.Selection()
	next := 0
	for i, c := range chats {
		if c.ID == currentID {
			next = (i + 1) % len(chats)
			break
		}
	}
	m.deps.Store.SetCurrentChat(chats[next].ID)
	m.statusNote = chats[next].GetTitle()
	m.partial = ""
	m.lastErr = nil
	m.refreshViewport()
	return m, nil
}

// sendMessage appends the user's turn and starts streaming a reply.
func (m Model) sendMessage() (tea.Model, tea.Cmd) {
	if m.state == StateStreaming {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	chat := m.deps.Store.CurrentChat()
	if chat == nil {
		hubID, agentID, _ := m.deps.Store.Selection()
		ctx, cancel := context.WithTimeout(context.Background(), m.deps.Config.BackendTimeout())
		m.deps.Store.CreateChat(ctx, hubID, agentID)
		cancel()
		chat = m.deps.Store.CurrentChat()
	}
	if chat == nil {
		m.statusNote = "could not open a chat"
		return m, nil
	}

	userMsg, ok := m.deps.Store.AddMessage(chat.ID, model.RoleUser, text)
	if ok {
		m.relayMessage(chat.ID, userMsg)
	}
	m.input.SetValue("")

	systemPrompt, modelName := m.resolveAgent()
	chat = m.deps.Store.CurrentChat()
	messages := chat.ToOllamaMessages(systemPrompt)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.streamCh = m.deps.Ollama.ChatStreamChan(ctx, modelName, messages, nil)
	m.streamBuf.Reset()
	m.partial = ""
	m.lastErr = nil
	m.state = StateStreaming
	m.refreshViewport()

	return m, tea.Batch(m.spinner.Tick, m.waitForChunk())
}

// resolveAgent returns the selected agent's system prompt and model,
// falling back to the configured default model.
func (m Model) resolveAgent() (systemPrompt, modelName string) {
	modelName = m.deps.Config.DefaultModel
	if agent := m.deps.Store.SelectedAgent(); agent != nil {
		systemPrompt = agent.SystemPrompt
		if name := agent.Model(); name != "" {
			modelName = name
		}
	}
	return systemPrompt, modelName
}

// relayMessage mirrors a local message to the backend without blocking
// the UI. The relay workers log failures; the local copy stands.
func (m Model) relayMessage(chatID string, msg *model.Message) {
	if m.deps.Relay == nil {
		return
	}
	m.deps.Relay.Enqueue(chatID, backend.PostMessageRequest{
		Content: msg.Content,
		Role:    msg.Role.String(),
		HubID:   msg.HubID,
		AgentID: msg.AgentID,
	})
}

// waitForChunk reads the next chunk off the stream channel.
func (m Model) waitForChunk() tea.Cmd {
	ch := m.streamCh
	return func() tea.Msg {
		chunk, ok := <-ch
		if !ok {
			return StreamClosedMsg{}
		}
		return StreamChunkMsg{Chunk: chunk}
	}
}

func (m Model) handleChunk(msg StreamChunkMsg) (tea.Model, tea.Cmd) {
	if msg.Chunk.Error != nil {
		m.streamCh = nil
		m.lastErr = msg.Chunk.Error
		m.state = StateReady
		m.refreshViewport()
		return m, nil
	}

	m.streamBuf.Write(msg.Chunk.Content)
	if content, ok := m.streamBuf.Flush(); ok {
		m.partial += content
		m.refreshViewport()
	}

	if msg.Chunk.Done {
		return m.finishStream()
	}
	return m, m.waitForChunk()
}

// finishStream commits the assistant's turn to the store.
func (m Model) finishStream() (tea.Model, tea.Cmd) {
	if m.state != StateStreaming {
		return m, nil
	}
	if content, ok := m.streamBuf.ForceFlush(); ok {
		m.partial += content
	}
	m.state = StateReady
	m.streamCh = nil
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if m.partial != "" {
		if chat := m.deps.Store.CurrentChat(); chat != nil {
			reply, ok := m.deps.Store.AddMessage(chat.ID, model.RoleAssistant, m.partial)
			if ok {
				m.relayMessage(chat.ID, reply)
			}
		}
	}
	m.partial = ""
	m.refreshViewport()
	return m, nil
}

// syncCmd pulls the hub and agent directories in the background.
func (m Model) syncCmd() tea.Cmd {
	st := m.deps.Store
	timeout := m.deps.Config.BackendTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := st.SyncHubs(ctx); err != nil {
			return SyncDoneMsg{Err: err}
		}
		if err := st.SyncAgents(ctx); err != nil {
			return SyncDoneMsg{Err: err}
		}
		return SyncDoneMsg{}
	}
}
