package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
)

const messageColumns = `id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	payload, metadata, created_at, published_at, next_retry_at, retry_count,
	last_error, dead_lettered_at, dead_letter_reason`

// Store implements Repository on top of any database.Connection.
type Store struct {
	conn database.Connection
}

// NewStore creates an outbox store.
func NewStore(conn database.Connection) *Store {
	return &Store{conn: conn}
}

func (s *Store) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, s.conn)
}

func (s *Store) q(query string) string {
	return database.Rebind(s.conn.Driver(), query)
}

func (s *Store) at(t time.Time) any {
	return database.TimeArg(s.conn.Driver(), t)
}

// Save stores a new outbox message and sets its ID.
func (s *Store) Save(ctx context.Context, msg *Message) error {
	var metadata any
	if len(msg.Metadata) > 0 {
		metadata = string(msg.Metadata)
	}
	err := s.exec(ctx).QueryRow(ctx, s.q(`
		INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		msg.EventID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.RoutingKey,
		string(msg.Payload), metadata, s.at(msg.CreatedAt),
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("insert outbox message: %w", err)
	}
	return nil
}

// SaveBatch stores messages atomically, opening its own transaction when
// ctx does not already carry one.
func (s *Store) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	uow := database.NewUnitOfWork(s.conn)
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		if err := s.Save(txCtx, msg); err != nil {
			_ = uow.Rollback(txCtx)
			return err
		}
	}
	return uow.Commit(txCtx)
}

// GetUnpublished returns pending messages whose retry time has passed.
func (s *Store) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	return s.list(ctx, `
		SELECT `+messageColumns+`
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`, s.at(time.Now()), limit)
}

// GetDead returns dead-lettered messages, newest first.
func (s *Store) GetDead(ctx context.Context, limit int) ([]*Message, error) {
	return s.list(ctx, `
		SELECT `+messageColumns+`
		FROM outbox
		WHERE dead_lettered_at IS NOT NULL
		ORDER BY dead_lettered_at DESC, id DESC
		LIMIT ?`, limit)
}

// MarkPublished marks a message as delivered.
func (s *Store) MarkPublished(ctx context.Context, id int64) error {
	_, err := s.exec(ctx).Exec(ctx, s.q(`
		UPDATE outbox SET published_at = ?, next_retry_at = NULL, last_error = NULL WHERE id = ?`),
		s.at(time.Now()), id)
	return err
}

// MarkFailed records a failed attempt and when to try again.
func (s *Store) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := s.exec(ctx).Exec(ctx, s.q(`
		UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ? WHERE id = ?`),
		errMsg, s.at(nextRetryAt), id)
	return err
}

// MarkDead moves a message out of the delivery queue.
func (s *Store) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := s.exec(ctx).Exec(ctx, s.q(`
		UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, dead_lettered_at = ?, dead_letter_reason = ? WHERE id = ?`),
		reason, s.at(time.Now()), reason, id)
	return err
}

// DeleteOld removes published messages older than the retention period.
func (s *Store) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	result, err := s.exec(ctx).Exec(ctx, s.q(`
		DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`),
		s.at(time.Now().Add(-olderThan)))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*Message, error) {
	rows, err := s.exec(ctx).Query(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		msg                              Message
		payload                          string
		metadata, lastError, deadReason  *string
		createdAt                        database.Timestamp
		publishedAt, nextRetryAt, deadAt database.Timestamp
	)
	err := row.Scan(
		&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID, &msg.EventType, &msg.RoutingKey,
		&payload, &metadata, &createdAt, &publishedAt, &nextRetryAt, &msg.RetryCount,
		&lastError, &deadAt, &deadReason,
	)
	if err != nil {
		return nil, err
	}
	msg.Payload = []byte(payload)
	if metadata != nil {
		msg.Metadata = []byte(*metadata)
	}
	msg.CreatedAt = createdAt.Time
	msg.PublishedAt = publishedAt.Ptr()
	msg.NextRetryAt = nextRetryAt.Ptr()
	msg.DeadLetteredAt = deadAt.Ptr()
	msg.LastError = lastError
	msg.DeadLetterReason = deadReason
	return &msg, nil
}
