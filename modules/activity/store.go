package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry types recorded from task lifecycle events.
const (
	TypeTaskCreated = "task_created"
	TypeTaskUpdated = "task_updated"
	TypeTaskDeleted = "task_deleted"
)

// Entry is one recorded task lifecycle event.
type Entry struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	TaskID     string    `json:"task_id"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Store keeps the most recent entries per owner in memory.
type Store struct {
	mu      sync.RWMutex
	limit   int
	byOwner map[string][]Entry
}

// NewStore creates a store keeping at most limit entries per owner.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = 100
	}
	return &Store{
		limit:   limit,
		byOwner: make(map[string][]Entry),
	}
}

// Record appends an entry to the owner's history, dropping the oldest
// entry once the limit is reached.
func (s *Store) Record(ownerID string, entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.byOwner[ownerID], entry)
	if len(entries) > s.limit {
		entries = entries[len(entries)-s.limit:]
	}
	s.byOwner[ownerID] = entries
}

// Recent returns up to limit entries for ownerID, newest first. A limit of
// zero or less returns everything retained.
func (s *Store) Recent(ownerID string, limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.byOwner[ownerID]
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}

	result := make([]Entry, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, entries[i])
	}
	return result
}

// Owners returns the number of owners with recorded activity.
func (s *Store) Owners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byOwner)
}
