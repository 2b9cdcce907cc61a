// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jeranaias/mangaba/internal/directory"
	"github.com/jeranaias/mangaba/internal/model"
)

// ErrBadPayload indicates an import payload that does not carry both
// the chats and hubs collections.
var ErrBadPayload = errors.New("import payload must contain chats and hubs")

// Portable is the transportable {chats, hubs} form used by export and
// import.
type Portable struct {
	Chats []*model.Chat    `json:"chats"`
	Hubs  []*directory.Hub `json:"hubs"`
}

// ExportData serializes the chats and hub directory to JSON.
func (s *Store) ExportData() ([]byte, error) {
	s.mu.RLock()
	payload := Portable{
		Chats: make([]*model.Chat, len(s.chats)),
		Hubs:  make([]*directory.Hub, len(s.hubs)),
	}
	for i, chat := range s.chats {
		payload.Chats[i] = chat.Clone()
	}
	for i, hub := range s.hubs {
		payload.Hubs[i] = hub.Clone()
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// ImportData replaces both collections wholesale when the payload shape
// is valid. Parse or shape failures leave the current state untouched
// and are reported to the caller rather than corrupting the store. An
// imported empty hub list is repaired to the seed directory.
func (s *Store) ImportData(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse import: %w", err)
	}
	chatsRaw, okChats := raw["chats"]
	hubsRaw, okHubs := raw["hubs"]
	if !okChats || !okHubs {
		return ErrBadPayload
	}

	var chats []*model.Chat
	if err := json.Unmarshal(chatsRaw, &chats); err != nil {
		return fmt.Errorf("parse chats: %w", err)
	}
	var hubs []*directory.Hub
	if err := json.Unmarshal(hubsRaw, &hubs); err != nil {
		return fmt.Errorf("parse hubs: %w", err)
	}

	if chats == nil {
		chats = []*model.Chat{}
	}
	if len(hubs) == 0 {
		hubs = directory.DefaultHubs()
	}

	s.mu.Lock()
	s.chats = chats
	s.hubs = hubs
	s.currentChatID = ""
	s.selectedHubID = ""
	s.selectedAgentID = ""
	s.mu.Unlock()

	s.notify()
	return nil
}
