package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how stale a cached join-code lookup can be.
const DefaultTTL = 30 * time.Second

// CachedMeetingRepository caches join-code lookups in Redis in front of
// another repository. Writes go to the inner repository and evict the
// cached entry once the surrounding transaction commits. Redis failures
// fall through to the inner repository.
type CachedMeetingRepository struct {
	inner  domain.Repository
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedMeetingRepository wraps inner with a Redis cache.
func NewCachedMeetingRepository(inner domain.Repository, client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *CachedMeetingRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedMeetingRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func key(joinCode string) string {
	return "huddle:meeting:" + joinCode
}

// Save persists through the inner repository and evicts the cached copy
// once the surrounding transaction commits.
func (r *CachedMeetingRepository) Save(ctx context.Context, meeting *domain.Meeting) error {
	if err := r.inner.Save(ctx, meeting); err != nil {
		return err
	}
	joinCode := meeting.JoinCode()
	database.AfterCommit(ctx, func(ctx context.Context) {
		r.evict(ctx, joinCode)
	})
	return nil
}

func (r *CachedMeetingRepository) evict(ctx context.Context, joinCode string) {
	if err := r.client.Del(ctx, key(joinCode)).Err(); err != nil {
		r.logger.Warn("failed to evict cached meeting",
			"join_code", joinCode,
			"error", err,
		)
	}
}

func (r *CachedMeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	return r.inner.FindByID(ctx, id)
}

// FindByJoinCode serves from the cache when possible. Reads inside a
// transaction bypass the cache so they see uncommitted writes.
func (r *CachedMeetingRepository) FindByJoinCode(ctx context.Context, joinCode string) (*domain.Meeting, error) {
	if database.TxFromContext(ctx) != nil {
		return r.inner.FindByJoinCode(ctx, joinCode)
	}

	if meeting, ok := r.get(ctx, joinCode); ok {
		return meeting, nil
	}

	meeting, err := r.inner.FindByJoinCode(ctx, joinCode)
	if err != nil || meeting == nil {
		return meeting, err
	}
	r.put(ctx, meeting)
	return meeting, nil
}

func (r *CachedMeetingRepository) FindByCreator(ctx context.Context, createdBy sharedDomain.UserID) ([]*domain.Meeting, error) {
	return r.inner.FindByCreator(ctx, createdBy)
}

func (r *CachedMeetingRepository) FindVisibleTo(ctx context.Context, viewer sharedDomain.UserID) ([]*domain.Meeting, error) {
	return r.inner.FindVisibleTo(ctx, viewer)
}

func (r *CachedMeetingRepository) get(ctx context.Context, joinCode string) (*domain.Meeting, bool) {
	payload, err := r.client.Get(ctx, key(joinCode)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("meeting cache read failed",
				"join_code", joinCode,
				"error", err,
			)
		}
		return nil, false
	}

	var s snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		r.logger.Warn("discarding unreadable cached meeting",
			"join_code", joinCode,
			"error", err,
		)
		return nil, false
	}
	meeting, err := s.toDomain()
	if err != nil {
		return nil, false
	}
	return meeting, true
}

func (r *CachedMeetingRepository) put(ctx context.Context, meeting *domain.Meeting) {
	payload, err := json.Marshal(snapshotOf(meeting))
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key(meeting.JoinCode()), payload, r.ttl).Err(); err != nil {
		r.logger.Warn("meeting cache write failed",
			"join_code", meeting.JoinCode(),
			"error", err,
		)
	}
}
