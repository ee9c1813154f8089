package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/metrics"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
)

// HousekeepingService periodically refreshes the invite gauges and, when a
// retention window is set, purges invites that expired unused long ago.
// Consumed invites are never purged: they are the enrollment record.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration // zero keeps expired invites forever
	Clock     Clock

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("retention", s.Retention),
	)
}

// Stop blocks until the worker has finished any in-progress run.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs one pass. Each step is independent; a failure is logged
// and the next step still runs.
func (s *HousekeepingService) RunOnce(ctx context.Context) {
	now := s.Clock.now()

	if s.Retention > 0 {
		n, err := s.Store.Invites().DeleteExpiredUnusedInvites(ctx, now.Add(-s.Retention))
		if err != nil {
			s.Logger.Error("failed to purge expired invites", slog.Any("error", err))
		} else if n > 0 {
			s.Logger.Info("purged expired invites", slog.Int64("count", n))
		}
	}

	counts, err := s.Store.Invites().CountInvitesByState(ctx, now)
	if err != nil {
		s.Logger.Error("failed to count invites", slog.Any("error", err))
		return
	}
	metrics.SetInviteCounts(counts)

	s.Logger.Debug("housekeeping completed",
		slog.Int64("pending", counts.Pending),
		slog.Int64("consumed", counts.Consumed),
		slog.Int64("expired", counts.Expired),
	)
}
