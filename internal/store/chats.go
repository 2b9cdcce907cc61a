// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mangaba/internal/backend"
	"github.com/jeranaias/mangaba/internal/model"
)

// ChatBackend is the slice of the REST client chat operations the store
// depends on. Declared here so tests can substitute a fake.
type ChatBackend interface {
	CreateChat(ctx context.Context, hubID, agentID string) (*backend.ChatDTO, error)
	PostMessage(ctx context.Context, chatID string, req backend.PostMessageRequest) (*backend.MessageDTO, error)
}

// ChatOrigin says which path produced a chat id.
type ChatOrigin int

const (
	// OriginLocal means the backend was unavailable and the id was
	// generated locally.
	OriginLocal ChatOrigin = iota

	// OriginRemote means the backend issued the id.
	OriginRemote
)

// String returns the origin name.
func (o ChatOrigin) String() string {
	if o == OriginRemote {
		return "remote"
	}
	return "local"
}

// ChatResult reports the outcome of CreateChat. The Origin makes the
// remote-versus-fallback distinction inspectable instead of implicit.
type ChatResult struct {
	ID     string
	Origin ChatOrigin
}

// LocalChatPrefix marks chat ids minted locally when the backend was
// unreachable. The backend never sees these ids.
const LocalChatPrefix = "chat_local_"

// IsLocalChatID reports whether an id was minted locally.
func IsLocalChatID(id string) bool {
	return strings.HasPrefix(id, LocalChatPrefix)
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// CreateChat opens a new chat, preferring a backend-issued identifier.
// Any backend failure degrades to a locally generated id; the chat is
// usable immediately either way and becomes current. This is the one
// failure-tolerant network operation in the store, so it never returns
// an error.
func (s *Store) CreateChat(ctx context.Context, hubID, agentID string) ChatResult {
	result := ChatResult{Origin: OriginLocal}

	var chat *model.Chat
	if s.backend != nil {
		if dto, err := s.backend.CreateChat(ctx, hubID, agentID); err == nil && dto.ID != "" {
			chat = model.NewChatWithID(dto.ID)
			if created := parseTime(dto.CreatedAt); !created.IsZero() {
				chat.CreatedAt = created
				chat.UpdatedAt = created
			}
			if updated := parseTime(dto.UpdatedAt); !updated.IsZero() {
				chat.UpdatedAt = updated
			}
			result.Origin = OriginRemote
		}
	}
	if chat == nil {
		chat = model.NewChatWithID(LocalChatPrefix + uuid.NewString())
	}
	chat.HubID = hubID
	chat.AgentID = agentID
	result.ID = chat.ID

	s.mu.Lock()
	s.chats = append(s.chats, chat)
	s.currentChatID = chat.ID
	s.mu.Unlock()

	s.notify()
	return result
}

// DeleteChat removes a chat from the list, clearing the current pointer
// if it pointed at the deleted chat. Returns false when the id is
// unknown.
func (s *Store) DeleteChat(id string) bool {
	s.mu.Lock()
	idx := -1
	for i, chat := range s.chats {
		if chat.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.chats = append(s.chats[:idx], s.chats[idx+1:]...)
	if s.currentChatID == id {
		s.currentChatID = ""
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// SetCurrentChat reassigns the current pointer. Existence is not
// validated; a stale id simply yields no current chat on lookup.
func (s *Store) SetCurrentChat(id string) {
	s.mu.Lock()
	s.currentChatID = id
	s.mu.Unlock()

	s.notify()
}

// CurrentChat returns a copy of the current chat, or nil.
func (s *Store) CurrentChat() *model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentChatID == "" {
		return nil
	}
	if chat := s.chatByID(s.currentChatID); chat != nil {
		return chat.Clone()
	}
	return nil
}

// ChatByID returns a copy of the chat, or nil.
func (s *Store) ChatByID(id string) *model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if chat := s.chatByID(id); chat != nil {
		return chat.Clone()
	}
	return nil
}

// Chats returns copies of every chat, newest update first.
func (s *Store) Chats() []*model.Chat {
	s.mu.RLock()
	out := make([]*model.Chat, len(s.chats))
	for i, chat := range s.chats {
		out[i] = chat.Clone()
	}
	s.mu.RUnlock()

	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].UpdatedAt.After(out[i].UpdatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// AddMessage stamps the message with a fresh id and timestamp, appends
// it, and derives the chat title from the first message. Returns false
// when the chat id is unknown. Role alternation is not enforced.
func (s *Store) AddMessage(chatID string, role model.Role, content string) (*model.Message, bool) {
	var msg *model.Message
	switch role {
	case model.RoleAssistant:
		msg = model.NewAssistantMessage(content)
	default:
		msg = model.NewUserMessage(content)
	}

	s.mu.Lock()
	chat := s.chatByID(chatID)
	if chat == nil {
		s.mu.Unlock()
		return nil, false
	}
	msg.HubID = chat.HubID
	msg.AgentID = chat.AgentID
	chat.Append(msg)
	s.mu.Unlock()

	s.notify()
	return msg, true
}

// UpdateChatTitle replaces the title directly, with no length
// enforcement at this layer. Returns false when the id is unknown.
func (s *Store) UpdateChatTitle(id, title string) bool {
	s.mu.Lock()
	chat := s.chatByID(id)
	if chat == nil {
		s.mu.Unlock()
		return false
	}
	chat.Title = title
	chat.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.notify()
	return true
}

// ClearAllChats empties the chat list and clears the current pointer.
func (s *Store) ClearAllChats() {
	s.mu.Lock()
	s.chats = []*model.Chat{}
	s.currentChatID = ""
	s.mu.Unlock()

	s.notify()
}

// chatByID looks up a live chat. Caller holds the lock.
func (s *Store) chatByID(id string) *model.Chat {
	for _, chat := range s.chats {
		if chat.ID == id {
			return chat
		}
	}
	return nil
}
