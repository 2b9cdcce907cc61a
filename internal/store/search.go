// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/mangaba/internal/directory"
	"github.com/jeranaias/mangaba/internal/model"
)

var searchFolder = cases.Fold()

// foldMatch reports whether needle occurs in haystack under Unicode
// case folding, so "STRASSE" matches "straße".
func foldMatch(haystack, needle string) bool {
	return strings.Contains(searchFolder.String(haystack), searchFolder.String(needle))
}

// SearchChats returns copies of chats whose title or message content
// matches the query, newest first. An empty query returns everything.
func (s *Store) SearchChats(query string) []*model.Chat {
	if strings.TrimSpace(query) == "" {
		return s.Chats()
	}

	var out []*model.Chat
	for _, chat := range s.Chats() {
		if foldMatch(chat.GetTitle(), query) {
			out = append(out, chat)
			continue
		}
		for _, msg := range chat.Messages {
			if foldMatch(msg.Content, query) {
				out = append(out, chat)
				break
			}
		}
	}
	return out
}

// SearchAgents returns copies of agents across all hubs whose name,
// description, or capabilities match the query.
func (s *Store) SearchAgents(query string) []*directory.Agent {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*directory.Agent
	for _, hub := range s.hubs {
		for _, agent := range hub.Agents {
			if foldMatch(agent.Name, query) || foldMatch(agent.Description, query) {
				out = append(out, agent.Clone())
				continue
			}
			for _, cap := range agent.Capabilities {
				if foldMatch(cap, query) {
					out = append(out, agent.Clone())
					break
				}
			}
		}
	}
	return out
}

// titleCaser renders hub categories for display.
var titleCaser = cases.Title(language.English)

// DisplayCategory formats a raw category value for listings.
func DisplayCategory(category string) string {
	if category == "" {
		return "General"
	}
	return titleCaser.String(category)
}
