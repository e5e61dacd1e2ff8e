package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"gamehub/internal/domain"
	"gamehub/pkg/logger"
)

// Sweeper runs periodic housekeeping: waiting matches nobody joined are
// abandoned, and old read notifications are purged. Only the leader
// instance sweeps so the work happens once per deployment.
type Sweeper struct {
	cron                  *cron.Cron
	matches               domain.MatchRepository
	notifications         domain.NotificationRepository
	leaderElection        domain.LeaderElection
	instanceID            string
	waitingMatchMaxAge    time.Duration
	notificationRetention time.Duration
	log                   logger.Logger
}

func NewSweeper(
	matches domain.MatchRepository,
	notifications domain.NotificationRepository,
	leaderElection domain.LeaderElection,
	instanceID string,
	waitingMatchMaxAge time.Duration,
	notificationRetention time.Duration,
	log logger.Logger,
) *Sweeper {
	return &Sweeper{
		cron:                  cron.New(),
		matches:               matches,
		notifications:         notifications,
		leaderElection:        leaderElection,
		instanceID:            instanceID,
		waitingMatchMaxAge:    waitingMatchMaxAge,
		notificationRetention: notificationRetention,
		log:                   log,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	s.log.Info("Starting sweeper")

	_, err := s.cron.AddFunc("@every 1m", func() {
		s.sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() error {
	s.log.Info("Stopping sweeper")
	s.cron.Stop()
	return nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	isLeader, err := s.leaderElection.IsLeader(ctx, s.instanceID)
	if err != nil {
		s.log.Error("Failed to check leadership", "error", err)
		return
	}
	if !isLeader {
		return
	}

	abandoned, err := s.matches.AbandonStaleWaiting(ctx, time.Now().Add(-s.waitingMatchMaxAge))
	if err != nil {
		s.log.Error("Failed to abandon stale matches", "error", err)
	} else if abandoned > 0 {
		s.log.Info("Abandoned stale matches", "count", abandoned)
	}

	purged, err := s.notifications.PurgeRead(ctx, time.Now().Add(-s.notificationRetention))
	if err != nil {
		s.log.Error("Failed to purge notifications", "error", err)
	} else if purged > 0 {
		s.log.Info("Purged read notifications", "count", purged)
	}
}
