package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/aupwu/internal/union/store"
)

// HousekeepingService prunes SQL session rows older than MaxAge. With a zero
// MaxAge sessions have no server-side bound and nothing is pruned.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	MaxAge   time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService defaults a non-positive interval to one hour.
func NewHousekeepingService(
	st store.Store,
	logger *slog.Logger,
	interval, maxAge time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		MaxAge:   maxAge,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
// Starting twice, or after Stop, does nothing.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	go s.run()
	s.Logger.Info("housekeeping service started",
		"interval", s.Interval,
		"session_max_age", s.MaxAge,
	)
}

// Stop blocks until any in-progress cleanup has finished. It is safe to call
// on a service that was never started, and more than once.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.stopCh)

	if !s.started {
		return
	}
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one pruning pass and returns the number of rows removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	if s.MaxAge <= 0 {
		return 0
	}

	n, err := s.Store.Sessions().DeleteSessionsOlderThan(ctx, s.MaxAge)
	if err != nil {
		s.Logger.Error("failed to prune sessions", "error", err)
		return 0
	}

	s.Logger.Debug("pruned sessions", "deleted", n)
	return n
}
