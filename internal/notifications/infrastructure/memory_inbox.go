package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/huddle/internal/notifications/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
)

// MemoryInbox keeps one queue per identity in process memory. When lifetime
// is positive every pushed notification is dismissed after that long.
type MemoryInbox struct {
	mu       sync.Mutex
	queues   map[string]*domain.Queue
	lifetime time.Duration
}

// NewMemoryInbox creates an in-process inbox.
func NewMemoryInbox(lifetime time.Duration) *MemoryInbox {
	return &MemoryInbox{
		queues:   make(map[string]*domain.Queue),
		lifetime: lifetime,
	}
}

// Push appends to the owner's queue and arms the auto-dismiss timer.
func (i *MemoryInbox) Push(_ context.Context, owner sharedDomain.UserID, title string, severity domain.Severity) (domain.Notification, error) {
	n, err := domain.NewNotification(title, severity)
	if err != nil {
		return domain.Notification{}, err
	}
	q := i.queue(owner)
	q.Append(n)
	if i.lifetime > 0 {
		time.AfterFunc(i.lifetime, func() { q.Dismiss(n.ID) })
	}
	return n, nil
}

// Dismiss removes a notification from the owner's queue.
func (i *MemoryInbox) Dismiss(_ context.Context, owner sharedDomain.UserID, id uuid.UUID) error {
	i.queue(owner).Dismiss(id)
	return nil
}

// List returns the owner's notifications in insertion order.
func (i *MemoryInbox) List(_ context.Context, owner sharedDomain.UserID) ([]domain.Notification, error) {
	return i.queue(owner).List(), nil
}

func (i *MemoryInbox) queue(owner sharedDomain.UserID) *domain.Queue {
	i.mu.Lock()
	defer i.mu.Unlock()
	q, ok := i.queues[owner.String()]
	if !ok {
		q = domain.NewQueue()
		i.queues[owner.String()] = q
	}
	return q
}
