package tempmailbox

import (
	"sync"
)

// messageStore holds the most recent successful poll snapshot for the
// active session, in upstream return order. New arrivals are detected
// by ID-set difference against previously seen messages, so deletions
// between polls never register as arrivals.
type messageStore struct {
	mu       sync.RWMutex
	messages []Message
	seen     map[string]struct{}
}

func newMessageStore() *messageStore {
	return &messageStore{
		seen: make(map[string]struct{}),
	}
}

// replace installs the latest poll snapshot and returns the messages
// whose IDs were not seen before, in upstream order. IDs no longer
// present upstream are pruned from the seen set.
func (s *messageStore) replace(messages []Message) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := make(map[string]struct{}, len(messages))
	var fresh []Message
	for _, msg := range messages {
		current[msg.ID] = struct{}{}
		if _, ok := s.seen[msg.ID]; !ok {
			fresh = append(fresh, msg)
		}
	}

	for id := range s.seen {
		if _, ok := current[id]; !ok {
			delete(s.seen, id)
		}
	}
	for id := range current {
		s.seen[id] = struct{}{}
	}

	s.messages = messages
	return fresh
}

// clear drops the snapshot and all seen IDs.
func (s *messageStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.seen = make(map[string]struct{})
}

// snapshot returns a copy of the current message list.
func (s *messageStore) snapshot() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
