package outbox

import (
	"context"
	"time"
)

// Repository persists outbox messages. Save and SaveBatch join the
// transaction carried by ctx when there is one.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns pending messages whose retry time has passed, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// GetDead returns dead-lettered messages, newest first.
	GetDead(ctx context.Context, limit int) ([]*Message, error)

	// DeleteOld removes published messages older than the retention period.
	DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error)
}
