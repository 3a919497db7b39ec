package agent

import (
	"sync"

	"github.com/saberchat/saber/pkg/chats/message"
)

// MemorySaver is an in-process conversation checkpointer keyed by thread ID.
// Threads live only as long as the process; nothing is persisted to disk.
// The zero value is ready to use. MemorySaver is safe for concurrent use.
type MemorySaver struct {
	mu      sync.RWMutex
	threads map[string][]message.Message
}

// NewMemorySaver creates an empty MemorySaver.
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{}
}

// Load returns a copy of the messages stored under threadID, or nil if the
// thread has no checkpoint yet.
func (s *MemorySaver) Load(threadID string) []message.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.threads[threadID]
	if !ok {
		return nil
	}

	cp := make([]message.Message, len(msgs))
	copy(cp, msgs)
	return cp
}

// Save replaces the checkpoint for threadID with a copy of msgs.
func (s *MemorySaver) Save(threadID string, msgs []message.Message) {
	cp := make([]message.Message, len(msgs))
	copy(cp, msgs)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.threads == nil {
		s.threads = make(map[string][]message.Message)
	}
	s.threads[threadID] = cp
}

// Delete removes the checkpoint for threadID.
func (s *MemorySaver) Delete(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.threads, threadID)
}

// Len returns the number of messages checkpointed under threadID.
func (s *MemorySaver) Len(threadID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.threads[threadID])
}
