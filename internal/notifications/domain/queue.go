package domain

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Queue holds one session's notifications in insertion order.
// Dismiss is idempotent so timer-driven and manual removal may race.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a new notification and returns its ID.
func (q *Queue) Push(title string, severity Severity) (uuid.UUID, error) {
	n, err := NewNotification(title, severity)
	if err != nil {
		return uuid.Nil, err
	}
	q.Append(n)
	return n.ID, nil
}

// Append adds an already built notification to the end of the queue.
// Notifications whose ID is already queued are ignored.
func (q *Queue) Append(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if slices.ContainsFunc(q.items, func(existing Notification) bool { return existing.ID == n.ID }) {
		return
	}
	q.items = append(q.items, n)
}

// Dismiss removes the notification with id. Unknown ids are ignored.
func (q *Queue) Dismiss(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = slices.DeleteFunc(q.items, func(n Notification) bool { return n.ID == id })
}

// List returns a snapshot in insertion order.
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.items)
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
