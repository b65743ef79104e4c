package booking

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper runs the retention purge in the background: once immediately at
// startup, then on a fixed period. A failed run is logged and the schedule
// keeps going.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewSweeper(m *Manager, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		manager:  m,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("starting retention sweeper", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	s.logger.Info("stopping retention sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	s.purge(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purge(ctx)
		case <-s.stopChan:
			s.logger.Info("retention sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("retention sweeper cancelled")
			return
		}
	}
}

func (s *Sweeper) purge(ctx context.Context) {
	count, err := s.manager.PurgeExpiredDeleted(ctx, s.manager.now())
	if err != nil {
		s.logger.Error("retention purge failed", zap.Error(err))
		return
	}
	if count == 0 {
		s.logger.Debug("retention purge: nothing to remove")
	}
}
