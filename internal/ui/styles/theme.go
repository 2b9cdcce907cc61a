// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the TUI color theme.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// COLOR PALETTE
// =============================================================================

var (
	ColorPrimary   = lipgloss.Color("205") // pink
	ColorSecondary = lipgloss.Color("75")  // blue
	ColorAccent    = lipgloss.Color("213") // light pink
	ColorSuccess   = lipgloss.Color("42")  // green
	ColorError     = lipgloss.Color("196") // red
	ColorWarning   = lipgloss.Color("214") // orange
	ColorMuted     = lipgloss.Color("241") // gray
	ColorBorder    = lipgloss.Color("238") // dark gray
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds every style the chat TUI renders with.
type Theme struct {
	// Chrome
	Header    lipgloss.Style
	StatusBar lipgloss.Style
	StatusKey lipgloss.Style

	// Sidebar (hub / agent directory)
	SidebarTitle    lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarInactive lipgloss.Style
	SidebarBorder   lipgloss.Style

	// Conversation
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	MessageBody    lipgloss.Style
	Timestamp      lipgloss.Style
	Streaming      lipgloss.Style

	// Input
	InputBorder        lipgloss.Style
	InputBorderFocused lipgloss.Style

	// Feedback
	ErrorText   lipgloss.Style
	SuccessText lipgloss.Style
	MutedText   lipgloss.Style
}

// DefaultTheme returns the standard mangaba theme.
func DefaultTheme() *Theme {
	return &Theme{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1),

		StatusKey: lipgloss.NewStyle().
			Foreground(ColorSecondary),

		SidebarTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary),

		SidebarItem: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		SidebarSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		SidebarInactive: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Strikethrough(true),

		SidebarBorder: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(ColorBorder).
			PaddingRight(1),

		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary),

		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent),

		MessageBody: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		Timestamp: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Streaming: lipgloss.NewStyle().
			Foreground(ColorAccent),

		InputBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),

		InputBorderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),

		ErrorText: lipgloss.NewStyle().
			Foreground(ColorError),

		SuccessText: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		MutedText: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}
