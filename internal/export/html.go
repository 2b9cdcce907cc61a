// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/mangaba/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter renders chats as standalone HTML pages with embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a chat to a self-contained HTML document.
func (e *HTMLExporter) Export(chat *model.Chat) ([]byte, error) {
	if chat == nil {
		return nil, fmt.Errorf("chat is nil")
	}
	if len(chat.Messages) == 0 {
		return nil, fmt.Errorf("chat has no messages")
	}

	var sb strings.Builder
	title := html.EscapeString(chat.GetTitle())

	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", title))
	sb.WriteString("<style>\n")
	sb.WriteString(e.stylesheet())
	sb.WriteString("</style>\n</head>\n<body>\n")

	sb.WriteString(fmt.Sprintf("<header><h1>%s</h1>", title))
	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("<p class=\"meta\">%d messages &middot; created %s</p>",
			len(chat.Messages),
			html.EscapeString(formatTimestamp(chat.CreatedAt))))
	}
	sb.WriteString("</header>\n<main>\n")

	for _, msg := range chat.Messages {
		cls := "assistant"
		label := "Assistant"
		if msg.Role == model.RoleUser {
			cls = "user"
			label = "You"
		}
		sb.WriteString(fmt.Sprintf("<article class=\"message %s\">\n", cls))
		sb.WriteString(fmt.Sprintf("<div class=\"role\">%s", label))
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf(" <time>%s</time>", formatShortTimestamp(msg.Timestamp)))
		}
		sb.WriteString("</div>\n")
		sb.WriteString(fmt.Sprintf("<div class=\"content\">%s</div>\n", renderContent(msg.Content)))
		sb.WriteString("</article>\n")
	}

	sb.WriteString("</main>\n<footer>")
	sb.WriteString(fmt.Sprintf("Exported from mangaba on %s", html.EscapeString(formatTimestamp(time.Now()))))
	sb.WriteString("</footer>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns ".html".
func (e *HTMLExporter) FileExtension() string { return ".html" }

// MimeType returns the HTML MIME type.
func (e *HTMLExporter) MimeType() string { return "text/html" }

// renderContent escapes the message and preserves paragraph breaks.
func renderContent(content string) string {
	escaped := html.EscapeString(content)
	paragraphs := strings.Split(escaped, "\n\n")
	for i, p := range paragraphs {
		paragraphs[i] = "<p>" + strings.ReplaceAll(p, "\n", "<br>") + "</p>"
	}
	return strings.Join(paragraphs, "\n")
}

// stylesheet returns the embedded theme CSS.
func (e *HTMLExporter) stylesheet() string {
	bg, fg, userBg, asstBg := "#ffffff", "#1a1a1a", "#e8f0fe", "#f5f5f5"
	if e.options.Theme != "light" {
		bg, fg, userBg, asstBg = "#1e1e2e", "#cdd6f4", "#313244", "#262637"
	}
	return fmt.Sprintf(`
body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 760px;
       margin: 0 auto; padding: 2rem 1rem; background: %s; color: %s; }
header h1 { margin-bottom: 0.25rem; }
.meta { opacity: 0.7; font-size: 0.9rem; }
.message { border-radius: 8px; padding: 0.75rem 1rem; margin: 1rem 0; }
.message.user { background: %s; }
.message.assistant { background: %s; }
.role { font-weight: 600; margin-bottom: 0.5rem; }
.role time { font-weight: 400; opacity: 0.6; font-size: 0.85rem; }
footer { margin-top: 2rem; opacity: 0.6; font-size: 0.85rem; text-align: center; }
`, bg, fg, userBg, asstBg)
}
