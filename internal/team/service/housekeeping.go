package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/metrics"
	"github.com/aussiebroadwan/khpl/internal/team/store"
)

const (
	DefaultHousekeepingInterval = time.Hour
	DefaultInvitationRetention  = 30 * 24 * time.Hour
)

// HousekeepingService periodically prunes invitations that are past use:
// accepted or expired ones created before the retention window, and pending
// ones whose expiry lies further back than the retention window. Pending
// invitations are never flipped to expired here, so a late visitor still
// sees Expired on first lookup.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Now       func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service. Non-positive
// interval or retention fall back to the package defaults.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}
	if retention <= 0 {
		retention = DefaultInvitationRetention
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
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop blocks until the worker has finished any in-progress cleanup.
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

// Cleanup runs one pass. Each step is independent; a failure in one does
// not skip the other.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	cutoff := now.Add(-s.Retention)

	abandoned, err := s.Store.Invitations().DeleteAbandonedInvitations(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete abandoned invitations", "error", err)
	} else {
		metrics.ObserveHousekeeping("abandoned", abandoned)
	}

	deleted, err := s.Store.Invitations().DeleteFinishedInvitations(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete finished invitations", "error", err)
	} else {
		metrics.ObserveHousekeeping("deleted", deleted)
	}

	s.Logger.Info("housekeeping cleanup completed", "abandoned", abandoned, "deleted", deleted)
}
