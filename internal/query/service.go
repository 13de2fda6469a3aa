package query

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"insights-chat/internal/models"
	"insights-chat/internal/observability"
)

// DefaultDelay simulates the round trip to an analytics backend.
const DefaultDelay = time.Second

type Option func(*Service)

func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		s.delay = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service is the entry point the chat UI calls once per user turn. Calls
// are independent; the only shared state is the usage counters.
type Service struct {
	dispatcher *Dispatcher
	delay      time.Duration
	logger     *slog.Logger

	total   atomic.Int64
	mu      sync.Mutex
	byRoute map[string]int64
	started time.Time
}

func NewService(dispatcher *Dispatcher, opts ...Option) *Service {
	s := &Service{
		dispatcher: dispatcher,
		delay:      DefaultDelay,
		logger:     slog.Default(),
		byRoute:    make(map[string]int64),
		started:    time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Analyze waits out the simulated latency and then answers the query. The
// only error is the context ending before the delay elapses.
func (s *Service) Analyze(ctx context.Context, query string) (models.QueryResponse, error) {
	ctx, span := observability.StartSpan(ctx, "query.analyze")
	defer span.Finish()

	if err := s.wait(ctx); err != nil {
		span.SetError(err)
		return models.QueryResponse{}, err
	}

	start := time.Now()
	resp := s.dispatcher.Dispatch(query)
	span.SetTag("query.route", resp.Route)

	s.record(resp.Route)

	s.logger.DebugContext(ctx, "query analyzed",
		"route", resp.Route,
		"failed", resp.Failed(),
		"duration", time.Since(start),
		"request_id", observability.GetRequestID(ctx),
		"trace_id", span.TraceID,
	)

	return resp, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) record(route string) {
	s.total.Add(1)

	s.mu.Lock()
	s.byRoute[route]++
	s.mu.Unlock()
}

// Stats reports usage counters and the dataset shape for monitoring.
func (s *Service) Stats() map[string]any {
	s.mu.Lock()
	byRoute := maps.Clone(s.byRoute)
	s.mu.Unlock()

	ds := s.dispatcher.Dataset()
	return map[string]any{
		"queries_total":    s.total.Load(),
		"queries_by_route": byRoute,
		"record_count":     ds.Len(),
		"regions":          len(ds.Regions()),
		"periods":          len(ds.Periods()),
		"delay":            s.delay.String(),
		"uptime":           time.Since(s.started).Round(time.Second).String(),
	}
}
