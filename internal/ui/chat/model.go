// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - Bubble Tea model for the chat view.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mangaba/internal/backend"
	"github.com/jeranaias/mangaba/internal/config"
	"github.com/jeranaias/mangaba/internal/logging"
	"github.com/jeranaias/mangaba/internal/ollama"
	"github.com/jeranaias/mangaba/internal/relay"
	"github.com/jeranaias/mangaba/internal/session"
	"github.com/jeranaias/mangaba/internal/store"
	"github.com/jeranaias/mangaba/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State is the chat view's lifecycle state.
type State int

const (
	StateReady     State = iota // accepting input
	StateStreaming              // receiving a response
)

// focusArea tracks which panel owns the keyboard.
type focusArea int

const (
	focusInput focusArea = iota
	focusHubs
	focusAgents
)

// =============================================================================
// MODEL
// =============================================================================

// Deps carries the collaborators the chat view needs.
type Deps struct {
	Config  *config.Config
	Store   *store.Store
	Backend *backend.Client
	Ollama  *ollama.Client
	Session *session.Manager
	Logs    *logging.Ring
	Relay   *relay.Relay
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State
	focus focusArea
	theme *styles.Theme
	keys  KeyMap

	deps Deps

	// Dimensions
	width  int
	height int

	// Directory cursors
	hubCursor   int
	agentCursor int

	// Streaming
	streamCh  <-chan ollama.StreamChunk
	streamBuf *StreamBuffer
	partial   string // assistant text accumulated so far
	cancel    func()

	// Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	statusNote string
	lastErr    error

	ready bool
}

// New builds the chat view.
func New(deps Deps) Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4096
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.DefaultTheme().Streaming

	return Model{
		state:     StateReady,
		focus:     focusInput,
		theme:     styles.DefaultTheme(),
		keys:      DefaultKeyMap(),
		deps:      deps,
		streamBuf: NewStreamBuffer(),
		input:     input,
		spinner:   sp,
	}
}

// Init starts the session tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		session.TickCmd(),
	)
}

// Run starts the TUI program and blocks until it exits.
func Run(deps Deps) error {
	program := tea.NewProgram(New(deps), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
