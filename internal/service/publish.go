package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/technotes/internal/events"
	"github.com/Skotchmaster/technotes/pkg/logging"
)

const publishTimeout = 5 * time.Second

// publish is best effort: a broker failure never fails the request.
func publish(ctx context.Context, p events.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	event["at"] = time.Now().UTC()

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(pctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
