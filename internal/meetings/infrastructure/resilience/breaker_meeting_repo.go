package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// ErrStoreUnavailable is returned while the breaker is open.
var ErrStoreUnavailable = errors.New("meeting store unavailable")

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold trips the breaker after this many consecutive failures.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns sensible defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          15 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerMeetingRepository guards a repository with a circuit breaker so a
// failing store is not hammered by every join attempt.
type BreakerMeetingRepository struct {
	inner   domain.Repository
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerMeetingRepository wraps inner with a circuit breaker.
func NewBreakerMeetingRepository(inner domain.Repository, config BreakerConfig, logger *slog.Logger) *BreakerMeetingRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if config.FailureThreshold == 0 {
		config.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        "meeting-store",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerMeetingRepository{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State reports the breaker state.
func (r *BreakerMeetingRepository) State() gobreaker.State {
	return r.breaker.State()
}

func (r *BreakerMeetingRepository) Save(ctx context.Context, meeting *domain.Meeting) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.inner.Save(ctx, meeting)
	})
	return err
}

func (r *BreakerMeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	return one(r.execute(func() (any, error) {
		return r.inner.FindByID(ctx, id)
	}))
}

func (r *BreakerMeetingRepository) FindByJoinCode(ctx context.Context, joinCode string) (*domain.Meeting, error) {
	return one(r.execute(func() (any, error) {
		return r.inner.FindByJoinCode(ctx, joinCode)
	}))
}

func (r *BreakerMeetingRepository) FindByCreator(ctx context.Context, createdBy sharedDomain.UserID) ([]*domain.Meeting, error) {
	return many(r.execute(func() (any, error) {
		return r.inner.FindByCreator(ctx, createdBy)
	}))
}

func (r *BreakerMeetingRepository) FindVisibleTo(ctx context.Context, viewer sharedDomain.UserID) ([]*domain.Meeting, error) {
	return many(r.execute(func() (any, error) {
		return r.inner.FindVisibleTo(ctx, viewer)
	}))
}

func (r *BreakerMeetingRepository) execute(fn func() (any, error)) (any, error) {
	result, err := r.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return result, err
}

func one(result any, err error) (*domain.Meeting, error) {
	if err != nil {
		return nil, err
	}
	meeting, _ := result.(*domain.Meeting)
	return meeting, nil
}

func many(result any, err error) ([]*domain.Meeting, error) {
	if err != nil {
		return nil, err
	}
	meetings, _ := result.([]*domain.Meeting)
	return meetings, nil
}
