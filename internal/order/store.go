package order

import (
	"fmt"
	"sort"
	"sync"
)

// Store is the pending-request table keyed by user id. At most one submission per user.
type Store interface {
	// Put creates or silently replaces the user's submission.
	Put(s Submission)
	Get(userID int64) (Submission, bool)
	// Update applies fn to the stored submission; ErrNotFound when absent.
	Update(userID int64, fn func(*Submission)) error
	Delete(userID int64)
	List() []Submission
	Len() int
}

// MemoryStore is a mutex-guarded map. The lock only provides memory safety;
// handlers for the same user may still interleave.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[int64]Submission
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[int64]Submission)}
}

func (m *MemoryStore) Put(s Submission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.UserID] = s
}

// Get returns a copy; mutating it does not affect the store.
func (m *MemoryStore) Get(userID int64) (Submission, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.items[userID]
	return s, ok
}

func (m *MemoryStore) Update(userID int64, fn func(*Submission)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[userID]
	if !ok {
		return fmt.Errorf("update %d: %w", userID, ErrNotFound)
	}
	fn(&s)
	s.UserID = userID
	m.items[userID] = s
	return nil
}

func (m *MemoryStore) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID)
}

// List returns a snapshot ordered by creation time, oldest first.
func (m *MemoryStore) List() []Submission {
	m.mu.RLock()
	out := make([]Submission, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
