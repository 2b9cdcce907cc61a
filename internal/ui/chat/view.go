// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - rendering for the chat view.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(),
		m.viewport.View(),
	)
	b.WriteString(body)
	b.WriteString("\n")

	inputStyle := m.theme.InputBorder
	if m.focus == focusInput {
		inputStyle = m.theme.InputBorderFocused
	}
	b.WriteString(inputStyle.Width(m.viewport.Width).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("mangaba")
	context := ""
	if hub := m.deps.Store.SelectedHub(); hub != nil {
		context = hub.Name
		if agent := m.deps.Store.SelectedAgent(); agent != nil {
			context += " / " + agent.Name
		}
	}
	if context != "" {
		title += m.theme.MutedText.Render("  " + context)
	}
	return title
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	hubs := m.deps.Store.ActiveHubs()
	selectedHubID, selectedAgentID, _ := m.deps.Store.Selection()

	b.WriteString(m.theme.SidebarTitle.Render("Hubs"))
	b.WriteString("\n")
	for i, hub := range hubs {
		line := "  " + hub.Name
		if hub.ID == selectedHubID {
			line = "> " + hub.Name
		}
		style := m.theme.SidebarItem
		if m.focus == focusHubs && i == m.hubCursor {
			style = m.theme.SidebarSelected
		}
		b.WriteString(style.Render(truncate(line, sidebarWidth-2)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.SidebarTitle.Render("Agents"))
	b.WriteString("\n")
	agents := m.deps.Store.ActiveAgents(selectedHubID)
	if len(agents) == 0 {
		b.WriteString(m.theme.MutedText.Render("  (select a hub)"))
		b.WriteString("\n")
	}
	for i, agent := range agents {
		line := "  " + agent.Name
		if agent.ID == selectedAgentID {
			line = "> " + agent.Name
		}
		style := m.theme.SidebarItem
		if m.focus == focusAgents && i == m.agentCursor {
			style = m.theme.SidebarSelected
		}
		b.WriteString(style.Render(truncate(line, sidebarWidth-2)))
		b.WriteString("\n")
	}

	return m.theme.SidebarBorder.
		Width(sidebarWidth).
		Height(m.viewport.Height).
		Render(b.String())
}

// renderConversation builds the viewport content for the current chat.
func (m Model) renderConversation() string {
	chat := m.deps.Store.CurrentChat()
	if chat == nil || len(chat.Messages) == 0 {
		if m.partial == "" {
			return m.theme.MutedText.Render("No messages yet. Pick a hub and agent, then say something.")
		}
	}

	var b strings.Builder
	if chat != nil {
		for _, msg := range chat.Messages {
			label := m.theme.UserLabel.Render("You")
			if msg.Role.String() == "assistant" {
				label = m.theme.AssistantLabel.Render("Assistant")
			}
			ts := m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
			b.WriteString(label + " " + ts + "\n")
			b.WriteString(m.theme.MessageBody.Render(msg.Content))
			b.WriteString("\n\n")
		}
	}

	if m.state == StateStreaming {
		b.WriteString(m.theme.AssistantLabel.Render("Assistant") + " " + m.spinner.View() + "\n")
		if m.partial != "" {
			b.WriteString(m.theme.Streaming.Render(m.partial))
			b.WriteString("\n")
		}
	}

	if m.lastErr != nil {
		b.WriteString(m.theme.ErrorText.Render("error: " + m.lastErr.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m Model) renderStatusBar() string {
	parts := []string{
		m.theme.StatusKey.Render("tab") + " focus",
		m.theme.StatusKey.Render("ctrl+n") + " new chat",
		m.theme.StatusKey.Render("ctrl+s") + " sync",
		m.theme.StatusKey.Render("ctrl+c") + " quit",
	}
	bar := strings.Join(parts, m.theme.MutedText.Render(" | "))
	if m.statusNote != "" {
		bar += m.theme.MutedText.Render("  - " + m.statusNote)
	}
	return m.theme.StatusBar.Render(bar)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
