package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/crispycret/blog-api/internal/blog/store"
)

// HousekeepingService periodically purges expired session tokens so the
// tokens table doesn't grow without bound between logins. Expiry lives only
// inside the signed payload, so the sweep walks users and defers to
// SessionService.PurgeStale, which only deletes rows it individually
// confirmed as expired.
type HousekeepingService struct {
	Store    store.Store
	Sessions *SessionService
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, sessions *SessionService, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Sessions: sessions,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker. Blocks until any
// in-progress sweep finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a sweep immediately on startup.
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep purges stale tokens for every user. Failures for one user don't stop
// the others.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		s.Logger.Error("housekeeping: failed to list users", "error", err)
		return
	}

	total := 0
	for _, u := range users {
		purged, err := s.Sessions.PurgeStale(ctx, u.ID)
		if err != nil {
			s.Logger.Error("housekeeping: purge failed", "user_id", u.ID, "error", err)
			continue
		}
		total += purged
	}

	if total > 0 {
		s.Logger.Info("housekeeping sweep completed", "tokens_purged", total)
	}
}
