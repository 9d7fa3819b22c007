package app

import (
	"context"

	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/huddle/pkg/observability"
)

// observedConsumer counts every event handled by the wrapped consumer.
type observedConsumer struct {
	eventbus.EventConsumer
	metrics *observability.Metrics
}

// ObservedConsumer wraps consumer so its results show up in the
// events-consumed metric.
func ObservedConsumer(consumer eventbus.EventConsumer, metrics *observability.Metrics) eventbus.EventConsumer {
	if metrics == nil {
		return consumer
	}
	return &observedConsumer{EventConsumer: consumer, metrics: metrics}
}

func (c *observedConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	err := c.EventConsumer.Handle(ctx, event)
	c.metrics.RecordConsumed(event.RoutingKey, err)
	return err
}
