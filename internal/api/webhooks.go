package api

import (
	"context"
	"encoding/json"
	"log/slog"
)

// publish fans evt out to stream subscribers and queues it for webhook
// receivers. Only events raised by this process reach the webhook queue, so
// replicas sharing a Redis broker do not deliver the same event twice.
func (s *Server) publish(evt Event) {
	s.Broker.Publish(evt)
	if s.Webhooks == nil {
		return
	}
	body, err := json.Marshal(evt)
	if err != nil {
		s.Logger.Warn("webhook payload encode failed", slog.String("type", evt.Type), slog.Any("error", err))
		return
	}
	s.Webhooks.Enqueue(evt.ID, evt.Type, body)
}

// RunWebhooks drives webhook delivery until ctx is done. Without configured
// receivers it just waits.
func (s *Server) RunWebhooks(ctx context.Context) error {
	if s.Webhooks == nil {
		<-ctx.Done()
		return nil
	}
	return s.Webhooks.Run(ctx)
}
