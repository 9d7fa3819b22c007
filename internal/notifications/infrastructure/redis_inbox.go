package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/huddle/internal/notifications/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisInbox stores each identity's notifications in a Redis hash keyed
// huddle:inbox:{owner}. Field names are the time-ordered notification IDs,
// so sorting them restores insertion order. Entries older than lifetime are
// pruned on read; the key itself expires after the same lifetime of inactivity.
type RedisInbox struct {
	client   *redis.Client
	lifetime time.Duration
	now      func() time.Time
}

// NewRedisInbox creates a Redis-backed inbox.
func NewRedisInbox(client *redis.Client, lifetime time.Duration) *RedisInbox {
	return &RedisInbox{
		client:   client,
		lifetime: lifetime,
		now:      time.Now,
	}
}

func (i *RedisInbox) key(owner sharedDomain.UserID) string {
	return fmt.Sprintf("huddle:inbox:%s", owner.String())
}

// Push stores a new notification for owner. Anonymous owners are refused
// with domain.ErrAnonymousOwner.
func (i *RedisInbox) Push(ctx context.Context, owner sharedDomain.UserID, title string, severity domain.Severity) (domain.Notification, error) {
	if owner.IsAnonymous() {
		return domain.Notification{}, domain.ErrAnonymousOwner
	}
	n, err := domain.NewNotification(title, severity)
	if err != nil {
		return domain.Notification{}, err
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("marshal notification: %w", err)
	}

	key := i.key(owner)
	_, err = i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, n.ID.String(), payload)
		if i.lifetime > 0 {
			pipe.Expire(ctx, key, i.lifetime)
		}
		return nil
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("push notification: %w", err)
	}
	return n, nil
}

// Dismiss deletes a notification. Missing entries are ignored.
func (i *RedisInbox) Dismiss(ctx context.Context, owner sharedDomain.UserID, id uuid.UUID) error {
	if owner.IsAnonymous() {
		return nil
	}
	if err := i.client.HDel(ctx, i.key(owner), id.String()).Err(); err != nil {
		return fmt.Errorf("dismiss notification: %w", err)
	}
	return nil
}

// List returns live notifications in insertion order.
func (i *RedisInbox) List(ctx context.Context, owner sharedDomain.UserID) ([]domain.Notification, error) {
	if owner.IsAnonymous() {
		return nil, nil
	}
	key := i.key(owner)
	entries, err := i.client.HGetAll(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, strings.Compare)

	var (
		result  []domain.Notification
		expired []string
	)
	for _, id := range ids {
		var n domain.Notification
		if err := json.Unmarshal([]byte(entries[id]), &n); err != nil {
			expired = append(expired, id)
			continue
		}
		if i.lifetime > 0 && i.now().Sub(n.CreatedAt) > i.lifetime {
			expired = append(expired, id)
			continue
		}
		result = append(result, n)
	}

	if len(expired) > 0 {
		if err := i.client.HDel(ctx, key, expired...).Err(); err != nil {
			return nil, fmt.Errorf("prune notifications: %w", err)
		}
	}
	return result, nil
}
