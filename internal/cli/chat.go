// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL with input history and streaming.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/mangaba/internal/backend"
	"github.com/jeranaias/mangaba/internal/config"
	"github.com/jeranaias/mangaba/internal/logging"
	"github.com/jeranaias/mangaba/internal/model"
	"github.com/jeranaias/mangaba/internal/ollama"
	"github.com/jeranaias/mangaba/internal/store"
)

// =============================================================================
// INPUT HANDLING
// =============================================================================

// ChatInput provides input history and line editing for the REPL.
type ChatInput struct {
	line        *liner.State
	historyFile string
}

// NewChatInput creates line input with persistent history.
func NewChatInput() *ChatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	ci := &ChatInput{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	ci.loadHistory()
	return ci
}

func (c *ChatInput) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation.
func (c *ChatInput) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *ChatInput) saveHistory() {
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatInput) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var markdownRenderer *glamour.TermRenderer

func init() {
	markdownRenderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(DefaultTerminalWidth),
	)
}

// renderMarkdown renders assistant output as terminal markdown, falling
// back to the raw text when rendering is unavailable.
func renderMarkdown(text string) string {
	if markdownRenderer == nil || !ColorsEnabled() {
		return text
	}
	out, err := markdownRenderer.Render(text)
	if err != nil {
		return text
	}
	return out
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs the interactive chat REPL.
func HandleChat(app *App, args Args) error {
	ctx := context.Background()

	if args.HubID != "" {
		app.Store.SelectHub(args.HubID)
		app.Store.IncrementHubUsage(args.HubID)
	}
	if args.AgentID != "" {
		app.Store.SelectAgent(args.AgentID)
	}

	res := app.Store.CreateChat(ctx, args.HubID, args.AgentID)
	if res.Origin == store.OriginLocal && app.Backend.HasCredential() && !args.Quiet {
		fmt.Println(WarningStyle.Render("Backend unreachable; chat is local-only."))
	}
	app.Logs.Append(logging.Entry{
		Level:    logging.LevelInfo,
		Category: "chat",
		Message:  "chat started (" + res.Origin.String() + ")",
		ChatID:   res.ID,
		HubID:    args.HubID,
		AgentID:  args.AgentID,
	})

	input := NewChatInput()
	defer input.Close()

	if watcher := app.WatchConfig(); watcher != nil {
		defer watcher.Close()
	}

	if !args.Quiet {
		printWelcome(app, args)
	}

	// Leading question from the command line, if any.
	if strings.TrimSpace(args.Query) != "" {
		if err := processTurn(ctx, app, args, res.ID, args.Query); err != nil {
			app.Fail("chat", err)
		}
	}

	for {
		text, err := input.ReadInput(UserStyle.Render("you> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Println(DimStyle.Render("(ctrl-c) bye"))
				return app.Session.Flush()
			}
			// EOF
			fmt.Println()
			return app.Session.Flush()
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "/") {
			done, err := handleSlashCommand(app, res.ID, text)
			if err != nil {
				app.Fail("chat", err)
			}
			if done {
				return app.Session.Flush()
			}
			continue
		}

		app.Session.RecordActivity()
		if err := processTurn(ctx, app, args, res.ID, text); err != nil {
			app.Fail("chat", err)
		}
		app.Session.Check()
	}
}

// processTurn appends the user message, streams the model's reply, and
// appends the assistant message. The user message stays appended even
// when the backend relay or generation fails.
func processTurn(ctx context.Context, app *App, args Args, chatID, text string) error {
	msg, ok := app.Store.AddMessage(chatID, model.RoleUser, text)
	if !ok {
		return fmt.Errorf("chat %s no longer exists", chatID)
	}

	// Relay to the backend when logged in. Failure is logged by the
	// relay workers, never rolled back.
	app.Relay.Enqueue(chatID, postMessageReq(msg))

	chat := app.Store.ChatByID(chatID)
	systemPrompt, modelName := resolveAgentParams(app, args)
	messages := chat.ToOllamaMessages(systemPrompt)

	fmt.Print(AgentStyle.Render("agent> "))

	var reply strings.Builder
	err := app.Ollama.ChatStream(ctx, modelName, messages, nil, func(chunk ollama.StreamChunk) {
		reply.WriteString(chunk.Content)
		fmt.Print(chunk.Content)
	})
	fmt.Println()

	if err != nil {
		// Surface the failure but keep the chat usable.
		fmt.Println(ErrorStyle.Render("generation failed: ") + err.Error())
		app.Logs.Append(logging.Entry{
			Level:    logging.LevelError,
			Category: "generation",
			Message:  err.Error(),
			ChatID:   chatID,
		})
		return nil
	}

	if reply.Len() > 0 {
		if assistant, ok := app.Store.AddMessage(chatID, model.RoleAssistant, reply.String()); ok {
			app.Relay.Enqueue(chatID, postMessageReq(assistant))
		}
		if rendered := renderMarkdown(reply.String()); ColorsEnabled() && strings.Contains(reply.String(), "```") {
			// Re-print fenced responses nicely once the stream is done.
			fmt.Print(rendered)
		}
	}
	return nil
}

// resolveAgentParams returns the system prompt and model for the
// current selection, falling back to configuration.
func resolveAgentParams(app *App, args Args) (systemPrompt, modelName string) {
	modelName = app.Config.DefaultModel
	if args.Model != "" {
		modelName = args.Model
	}
	if agent := app.Store.SelectedAgent(); agent != nil {
		systemPrompt = agent.SystemPrompt
		if m := agent.Model(); m != "" && args.Model == "" {
			modelName = m
		}
	}
	return systemPrompt, modelName
}

// handleSlashCommand processes in-REPL commands. Returns true when the
// REPL should exit.
func handleSlashCommand(app *App, chatID, cmd string) (bool, error) {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case "/quit", "/exit", "/q":
		return true, nil

	case "/help", "/?":
		fmt.Println(DimStyle.Render(`  /new            start a fresh chat
  /title <text>   rename the chat
  /history        show this chat's messages
  /clear          delete all chats
  /quit           exit`))
		return false, nil

	case "/new":
		res := app.Store.CreateChat(context.Background(), "", "")
		fmt.Println(SuccessStyle.Render("new chat ") + DimStyle.Render(res.ID))
		return false, nil

	case "/title":
		title := strings.TrimSpace(strings.TrimPrefix(cmd, "/title"))
		if title == "" {
			return false, fmt.Errorf("usage: /title <text>")
		}
		app.Store.UpdateChatTitle(chatID, title)
		return false, nil

	case "/history":
		chat := app.Store.ChatByID(chatID)
		if chat == nil {
			return false, fmt.Errorf("chat not found")
		}
		for _, m := range chat.Messages {
			label := UserStyle.Render("you")
			if m.Role == model.RoleAssistant {
				label = AgentStyle.Render("agent")
			}
			fmt.Printf("%s %s %s\n", DimStyle.Render(m.Timestamp.Format("15:04")), label, m.Preview(72))
		}
		return false, nil

	case "/clear":
		app.Store.ClearAllChats()
		fmt.Println(WarningStyle.Render("all chats deleted"))
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
}

// printWelcome shows chat context at REPL start.
func printWelcome(app *App, args Args) {
	fmt.Println(TitleStyle.Render("mangaba chat"))
	if hub := app.Store.SelectedHub(); hub != nil {
		fmt.Println(RenderLabel("Hub") + ValueStyle.Render(hub.Name))
	}
	if agent := app.Store.SelectedAgent(); agent != nil {
		fmt.Println(RenderLabel("Agent") + ValueStyle.Render(agent.Name))
	}
	_, modelName := resolveAgentParams(app, args)
	fmt.Println(RenderLabel("Model") + ValueStyle.Render(modelName))
	fmt.Println(DimStyle.Render("type /help for commands, /quit to exit"))
	fmt.Println(RenderSeparator(GetTerminalWidth() - 4))
}

// postMessageReq shapes a local message for the backend relay.
func postMessageReq(msg *model.Message) backend.PostMessageRequest {
	return backend.PostMessageRequest{
		Content: msg.Content,
		Role:    msg.Role.String(),
		HubID:   msg.HubID,
		AgentID: msg.AgentID,
	}
}
