package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/marketplace/pkg/logging"
)

const (
	TopicOrders   = "order_events"
	TopicCart     = "cart_events"
	TopicProducts = "product_events"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, any) error { return nil }

// publish is fire-and-forget: a broker outage is logged and never fails the
// operation that already committed.
func publish(ctx context.Context, p Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
