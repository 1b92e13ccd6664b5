// Package store keeps per-user chat transcripts in process memory.
//
// Histories are created on first use and live until the process exits; there
// is no size bound and no eviction.
package store

import (
	"sync"

	"github.com/nubank/chat-assistant/internal"
)

type history struct {
	// turn serializes whole chat turns of one user.
	turn sync.Mutex

	mu       sync.RWMutex
	messages []internal.Message
}

// Conversations owns every user's history. It is safe for concurrent use.
type Conversations struct {
	mu        sync.Mutex
	histories map[string]*history
}

func NewConversations() *Conversations {
	return &Conversations{histories: make(map[string]*history)}
}

func (s *Conversations) get(userID string, create bool) *history {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.histories[userID]
	if !ok && create {
		h = &history{messages: make([]internal.Message, 0, 8)}
		s.histories[userID] = h
	}
	return h
}

// GetOrCreate returns a copy of the user's history, creating an empty one
// if the user is new.
func (s *Conversations) GetOrCreate(userID string) []internal.Message {
	return s.get(userID, true).snapshot()
}

// Append adds msg to the end of the user's history.
func (s *Conversations) Append(userID string, msg internal.Message) {
	h := s.get(userID, true)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

// Snapshot returns a copy of the full history. Unknown users get an empty
// slice and no history is created for them.
func (s *Conversations) Snapshot(userID string) []internal.Message {
	h := s.get(userID, false)
	if h == nil {
		return []internal.Message{}
	}
	return h.snapshot()
}

// Lock takes the user's turn lock and returns its release func. Turns of
// different users do not contend.
func (s *Conversations) Lock(userID string) (unlock func()) {
	h := s.get(userID, true)
	h.turn.Lock()
	return h.turn.Unlock
}

// Users reports how many histories exist.
func (s *Conversations) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories)
}

func (h *history) snapshot() []internal.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cp := make([]internal.Message, len(h.messages))
	copy(cp, h.messages)
	return cp
}
