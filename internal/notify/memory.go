package notify

import (
	"context"
	"sync"
)

// MemoryScheduler keeps pending requests in process memory.
type MemoryScheduler struct {
	mu      sync.Mutex
	pending map[string]map[string]Reminder
}

func NewMemoryScheduler() *MemoryScheduler {
	return &MemoryScheduler{pending: make(map[string]map[string]Reminder)}
}

func (m *MemoryScheduler) Schedule(_ context.Context, userID string, r Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.pending[userID]
	if !ok {
		user = make(map[string]Reminder)
		m.pending[userID] = user
	}
	user[r.ID] = r
	return nil
}

func (m *MemoryScheduler) ClearAll(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, userID)
	return nil
}

func (m *MemoryScheduler) Pending(_ context.Context, userID string) ([]Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Reminder, 0, len(m.pending[userID]))
	for _, r := range m.pending[userID] {
		out = append(out, r)
	}
	SortReminders(out)
	return out, nil
}
