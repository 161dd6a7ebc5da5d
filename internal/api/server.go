// Package api implements the HTTP handlers, event streams and middleware of the citytour service.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"citytour/internal/config"
	"citytour/internal/metrics"
	"citytour/internal/store"
	"citytour/internal/webhooks"
)

type Server struct {
	Store  store.Store
	Broker EventBroker
	Logger *slog.Logger
	Config config.Config
	// Limiter throttles tour computations; nil disables throttling.
	Limiter *rate.Limiter
	// Heartbeat is the SSE keepalive interval.
	Heartbeat time.Duration
	// Webhooks delivers broker events to external receivers; nil when none are configured.
	Webhooks *webhooks.Worker

	seedMu sync.Mutex
	seeds  *rand.Rand
}

// NewServer creates a Server. If no database URL is configured, uses the in-memory store.
func NewServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	var s store.Store
	if strings.TrimSpace(cfg.Database.URL) == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if cfg.Database.Migrate {
			if err := sp.Migrate(ctx); err != nil {
				sp.Close()
				return nil, err
			}
		}
		s = sp
	}

	// Broker selection
	var broker EventBroker = NewBroker()
	if cfg.Redis.URL != "" {
		if rb, err := NewRedisBroker(cfg.Redis.URL, logger); err == nil {
			broker = rb
		} else {
			logger.Warn("redis broker unavailable, falling back to in-process broker", slog.Any("error", err))
		}
	}

	var lim *rate.Limiter
	if cfg.Server.RateRPS > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.Server.RateRPS), cfg.Server.RateBurst)
	}

	var hooks *webhooks.Worker
	if len(cfg.Webhooks.URLs) > 0 {
		hooks = webhooks.NewWorker(cfg.Webhooks.URLs, cfg.Webhooks.Secret, cfg.Webhooks.MaxAttempts, logger.With(slog.String("component", "webhooks")))
	}

	metrics.RegisterDefault()
	logger.Info("server initialised",
		slog.String("store", s.Kind()),
		slog.Int("restarts", cfg.Tour.Restarts),
		slog.Float64("rate_rps", cfg.Server.RateRPS))

	return &Server{
		Store:     s,
		Broker:    broker,
		Logger:    logger,
		Config:    cfg,
		Limiter:   lim,
		Heartbeat: 15 * time.Second,
		Webhooks:  hooks,
		seeds:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// nextSeed draws a fresh non-zero seed for a tour request.
func (s *Server) nextSeed() int64 {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	for {
		if v := s.seeds.Int63(); v != 0 {
			return v
		}
	}
}

// Close releases the broker and the store connection pool, if any.
func (s *Server) Close() error {
	err := s.Broker.Close()
	if c, ok := s.Store.(interface{ Close() }); ok {
		c.Close()
	}
	return err
}
