package services

import (
	"sync"

	"github.com/avelin/estate-notify/internal/core/domain"
)

// DefaultHistoryCapacity bounds the in-session notification history.
const DefaultHistoryCapacity = 50

// HistoryBuffer keeps the most recently delivered notifications for UI
// consumption, most-recent-first. New arrivals are prepended; overflow
// truncates the tail. It holds no cross-session state.
//
// The dispatcher is the only writer; the control API reads snapshots
// concurrently, so access is guarded.
type HistoryBuffer struct {
	mu       sync.RWMutex
	capacity int
	ring     []domain.Notification
	head     int
	size     int
}

// NewHistoryBuffer creates a buffer retaining up to capacity notifications.
func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &HistoryBuffer{
		capacity: capacity,
		ring:     make([]domain.Notification, capacity),
		head:     capacity - 1,
	}
}

// Append records a delivered notification as the most recent entry.
func (b *HistoryBuffer) Append(n domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.head = (b.head + 1) % b.capacity
	b.ring[b.head] = n
	if b.size < b.capacity {
		b.size++
	}
}

// Snapshot returns the buffered notifications most-recent-first.
func (b *HistoryBuffer) Snapshot() []domain.Notification {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Notification, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.ring[(b.head-i+b.capacity)%b.capacity]
	}
	return out
}

// Len returns the number of buffered notifications.
func (b *HistoryBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Clear empties the buffer. Called on session teardown.
func (b *HistoryBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.head = b.capacity - 1
	b.size = 0
}
