package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/metrics"
	"github.com/aussiebroadwan/kyros/internal/platform/store"
)

const (
	DefaultHousekeepingInterval = time.Hour
	DefaultAuditRetention       = 30 * 24 * time.Hour
)

// HousekeepingService periodically prunes exchange audit rows older than the
// retention window.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Metrics   *metrics.Metrics

	// Now is overridable in tests.
	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService fills in defaults for non-positive interval and
// retention.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}
	if retention <= 0 {
		retention = DefaultAuditRetention
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		Now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker in the background. It cleans up once immediately.
// Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
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

// Cleanup deletes audit rows created before now minus Retention and returns
// how many were removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	cutoff := s.Now().Add(-s.Retention)

	n, err := s.Store.Exchanges().DeleteExchangesBefore(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to prune token exchange audit", "error", err)
		return 0
	}

	s.Metrics.ObserveAuditPruned(n)
	s.Logger.Info("housekeeping cleanup completed", "pruned_exchanges", n, "cutoff", cutoff)
	return n
}
