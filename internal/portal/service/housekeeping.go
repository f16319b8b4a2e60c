package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tcsservices/loginportal/internal/portal/store"
)

// HousekeepingService periodically removes expired session rows so the
// table does not grow without bound. Eviction and logout handle the
// interactive paths; this sweep is only for sessions that were abandoned.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker and blocks until any in-progress sweep has
// finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup is best-effort: a failed sweep is logged and retried on the
// next tick, never surfaced to request handling.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()

	n, err := s.Store.Sessions().DeleteExpired(ctx, time.Now())
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
		return
	}
	if n > 0 {
		s.Logger.Info("deleted expired sessions", "count", n)
	}
}
