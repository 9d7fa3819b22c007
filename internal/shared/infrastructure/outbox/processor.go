package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/eventbus"
)

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
}

// DefaultProcessorConfig returns the worker defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     500 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
	}
}

// Processor polls the outbox and publishes event envelopes to the broker.
// Failed publishes are retried with exponential backoff until MaxRetries,
// after which the message is dead-lettered.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger

	wg       sync.WaitGroup
	stopChan chan struct{}
	running  bool
	mu       sync.Mutex

	statsMu sync.Mutex
	stats   Stats
}

// NewProcessor creates a new outbox processor.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the polling loop in a goroutine.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
	)
	return nil
}

// Stop waits for the polling loop to exit.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("outbox processor stopped")
}

// IsRunning returns true if the processor is running.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			if err := p.ProcessOnce(ctx); err != nil {
				p.logger.Error("failed to process outbox batch", "error", err)
			}
		}
	}
}

// ProcessOnce publishes a single batch synchronously.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	messages, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.recordError(err)
		return err
	}
	p.recordProcessed(messages)

	for _, msg := range messages {
		if err := p.publish(ctx, msg); err != nil {
			p.handleFailure(ctx, msg, err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			p.logger.Error("failed to mark message as published",
				"id", msg.ID,
				"event_id", msg.EventID,
				"error", err,
			)
			continue
		}
		p.recordPublished()
	}
	return nil
}

// Cleanup deletes published messages older than retention.
func (p *Processor) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	deleted, err := p.repo.DeleteOld(ctx, retention)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		p.logger.Info("cleaned up published outbox messages", "deleted", deleted)
	}
	return deleted, nil
}

func (p *Processor) publish(ctx context.Context, msg *Message) error {
	body, err := msg.Envelope()
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, msg.RoutingKey, body)
}

func (p *Processor) handleFailure(ctx context.Context, msg *Message, err error) {
	p.logger.Warn("failed to publish message",
		"id", msg.ID,
		"routing_key", msg.RoutingKey,
		"event_id", msg.EventID,
		"retry_count", msg.RetryCount,
		"error", err,
	)

	if p.shouldDeadLetter(msg) {
		p.recordDead(err)
		if markErr := p.repo.MarkDead(ctx, msg.ID, err.Error()); markErr != nil {
			p.logger.Error("failed to dead-letter message", "id", msg.ID, "error", markErr)
		}
		return
	}

	p.recordFailed(err)
	nextRetryAt := time.Now().Add(p.retryBackoff(msg.RetryCount + 1))
	if markErr := p.repo.MarkFailed(ctx, msg.ID, err.Error(), nextRetryAt); markErr != nil {
		p.logger.Error("failed to mark message as failed", "id", msg.ID, "error", markErr)
	}
}

func (p *Processor) shouldDeadLetter(msg *Message) bool {
	if p.config.MaxRetries <= 0 {
		return true
	}
	return msg.RetryCount+1 >= p.config.MaxRetries
}

// retryBackoff doubles from RetryBackoffBase per attempt, capped at RetryBackoffMax.
func (p *Processor) retryBackoff(attempt int) time.Duration {
	base := p.config.RetryBackoffBase
	if base <= 0 {
		base = time.Second
	}
	ceiling := p.config.RetryBackoffMax
	if ceiling <= 0 {
		ceiling = time.Minute
	}
	shift := min(max(attempt-1, 0), 30)
	backoff := base << shift
	if backoff <= 0 || backoff > ceiling {
		return ceiling
	}
	return backoff
}

// Stats is a snapshot of processor activity.
type Stats struct {
	IsRunning       bool
	PublishedCount  uint64
	FailedCount     uint64
	DeadCount       uint64
	LagSeconds      float64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
}

// GetStats returns current processor statistics.
func (p *Processor) GetStats() Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	stats := p.stats
	stats.IsRunning = p.IsRunning()
	return stats
}

func (p *Processor) recordPublished() {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.PublishedCount++
}

func (p *Processor) recordFailed(err error) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.FailedCount++
	p.setLastError(err)
}

func (p *Processor) recordDead(err error) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.DeadCount++
	p.setLastError(err)
}

func (p *Processor) recordError(err error) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.setLastError(err)
}

func (p *Processor) setLastError(err error) {
	now := time.Now()
	p.stats.LastError = err.Error()
	p.stats.LastErrorAt = &now
}

func (p *Processor) recordProcessed(messages []*Message) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	now := time.Now()
	p.stats.LastProcessedAt = &now
	p.stats.LagSeconds = 0
	for _, msg := range messages {
		if lag := now.Sub(msg.CreatedAt).Seconds(); lag > p.stats.LagSeconds {
			p.stats.LagSeconds = lag
		}
	}
}
