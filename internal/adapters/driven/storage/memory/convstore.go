// Package memory provides in-memory implementations of driven port
// interfaces. The conversation store is the client's only mutable shared
// state; a single mutex serialises access to every log.
package memory

import (
	"sync"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is an in-memory implementation of
// driven.ConversationStore. Logs are kept per key and never merged: the
// global log and per-document logs are independent sequences.
type ConversationStore struct {
	mu   sync.RWMutex
	logs map[domain.LogKey][]domain.Exchange
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		logs: make(map[domain.LogKey][]domain.Exchange),
	}
}

// Append adds an exchange to the end of a log.
func (s *ConversationStore) Append(key domain.LogKey, ex domain.Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[key] = append(s.logs[key], ex)
}

// Remove deletes the exchange with the given id from a log.
func (s *ConversationStore) Remove(key domain.LogKey, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(key, id)
}

// Replace removes the exchange with oldID and appends ex at the end of the
// log in one atomic step. Nothing is appended when oldID is absent.
func (s *ConversationStore) Replace(key domain.LogKey, oldID int64, ex domain.Exchange) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.removeLocked(key, oldID) {
		return false
	}
	s.logs[key] = append(s.logs[key], ex)
	return true
}

// List returns a copy of a log's ordered exchanges.
func (s *ConversationStore) List(key domain.LogKey) []domain.Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log := s.logs[key]
	out := make([]domain.Exchange, len(log))
	copy(out, log)
	return out
}

// Load overwrites a log with exchanges fetched from the backend.
func (s *ConversationStore) Load(key domain.LogKey, exchanges []domain.Exchange) {
	log := make([]domain.Exchange, len(exchanges))
	copy(log, exchanges)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[key] = log
}

// removeLocked removes by id. Caller holds the write lock.
func (s *ConversationStore) removeLocked(key domain.LogKey, id int64) bool {
	log := s.logs[key]
	for i := range log {
		if log[i].ID == id {
			s.logs[key] = append(log[:i:i], log[i+1:]...)
			return true
		}
	}
	return false
}
