package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity is a domain object with a stable identity.
type Entity interface {
	ID() uuid.UUID
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

// AggregateRoot is the consistency boundary that records domain events.
type AggregateRoot interface {
	Entity
	DomainEvents() []DomainEvent
	ClearDomainEvents()
	AddDomainEvent(event DomainEvent)
	Version() int
}

// BaseAggregateRoot carries identity, timestamps, version and pending events.
type BaseAggregateRoot struct {
	id           uuid.UUID
	createdAt    time.Time
	updatedAt    time.Time
	version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot creates an aggregate root with a fresh ID.
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now().UTC()
	return BaseAggregateRoot{
		id:        uuid.New(),
		createdAt: now,
		updatedAt: now,
	}
}

// RehydrateBaseAggregateRoot recreates an aggregate root from persisted state.
func RehydrateBaseAggregateRoot(id uuid.UUID, createdAt, updatedAt time.Time, version int) BaseAggregateRoot {
	return BaseAggregateRoot{
		id:        id,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
	}
}

func (a *BaseAggregateRoot) ID() uuid.UUID        { return a.id }
func (a *BaseAggregateRoot) CreatedAt() time.Time { return a.createdAt }
func (a *BaseAggregateRoot) UpdatedAt() time.Time { return a.updatedAt }
func (a *BaseAggregateRoot) Version() int         { return a.version }

// DomainEvents returns the events recorded since the last save.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops recorded events after they have been enqueued.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// AddDomainEvent records an event and bumps the aggregate version.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
	a.version++
}

// Touch marks the aggregate as modified.
func (a *BaseAggregateRoot) Touch() {
	a.updatedAt = time.Now().UTC()
}
