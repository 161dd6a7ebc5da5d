// Package webhooks pushes service events to configured HTTP receivers with
// HMAC signatures and exponential-backoff retries.
package webhooks

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"citytour/internal/metrics"
)

// Delivery is one event bound for one receiver.
type Delivery struct {
	EventID   string
	EventType string
	URL       string
	Payload   []byte
	Attempts  int
	NextAt    time.Time
}

type Worker struct {
	URLs        []string
	Secret      string
	HTTP        *http.Client
	MaxAttempts int
	Interval    time.Duration
	Logger      *slog.Logger

	mu    sync.Mutex
	queue []*Delivery
}

func NewWorker(urls []string, secret string, maxAttempts int, logger *slog.Logger) *Worker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Worker{
		URLs:        urls,
		Secret:      secret,
		HTTP:        &http.Client{Timeout: 5 * time.Second},
		MaxAttempts: maxAttempts,
		Interval:    time.Second,
		Logger:      logger,
	}
}

// Enqueue schedules payload for every receiver, due immediately.
func (w *Worker) Enqueue(eventID, eventType string, payload []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, u := range w.URLs {
		w.queue = append(w.queue, &Delivery{EventID: eventID, EventType: eventType, URL: u, Payload: payload})
	}
}

// Pending returns the number of deliveries still queued, due or not.
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Run processes the queue every Interval until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.ProcessOnce(ctx)
		}
	}
}

// ProcessOnce attempts every due delivery once. Failures are rescheduled with
// backoff until MaxAttempts, then dropped.
func (w *Worker) ProcessOnce(ctx context.Context) (delivered, dropped int) {
	now := time.Now()
	w.mu.Lock()
	var due, later []*Delivery
	for _, d := range w.queue {
		if d.NextAt.After(now) {
			later = append(later, d)
		} else {
			due = append(due, d)
		}
	}
	w.queue = later
	w.mu.Unlock()

	var retry []*Delivery
	for _, d := range due {
		code, err := w.send(ctx, d)
		d.Attempts++
		switch {
		case err == nil && code >= 200 && code < 300:
			delivered++
			metrics.WebhookDeliveries.WithLabelValues("delivered").Inc()
			continue
		case d.Attempts >= w.MaxAttempts:
			dropped++
			metrics.WebhookDeliveries.WithLabelValues("dropped").Inc()
			w.Logger.Warn("webhook dropped",
				slog.String("url", d.URL),
				slog.String("event", d.EventID),
				slog.Int("attempts", d.Attempts),
				slog.Int("status", code),
				slog.Any("error", err))
			continue
		}
		metrics.WebhookDeliveries.WithLabelValues("retry").Inc()
		d.NextAt = time.Now().Add(nextBackoff(d.Attempts - 1))
		retry = append(retry, d)
	}
	if len(retry) > 0 {
		w.mu.Lock()
		w.queue = append(w.queue, retry...)
		w.mu.Unlock()
	}
	return delivered, dropped
}

func (w *Worker) send(ctx context.Context, d *Delivery) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(d.Payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEventType, d.EventType)
	req.Header.Set(HeaderEventID, d.EventID)
	if w.Secret != "" {
		req.Header.Set(HeaderSignature, Sign(w.Secret, d.Payload))
	}
	resp, err := w.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// nextBackoff doubles from one second and caps at an hour.
func nextBackoff(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 12 {
		attempts = 12
	}
	d := time.Second << attempts
	if d > time.Hour {
		d = time.Hour
	}
	return d
}
