package worker

import (
	"context"
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/service"

	"github.com/sirupsen/logrus"
)

const defaultCleanupInterval = time.Minute

// SessionCleanupWorker evicts sessions idle for longer than idleTTL.
type SessionCleanupWorker struct {
	memeService service.MemeService
	interval    time.Duration
	idleTTL     time.Duration
}

func NewSessionCleanupWorker(memeService service.MemeService, interval, idleTTL time.Duration) *SessionCleanupWorker {
	return &SessionCleanupWorker{
		memeService: memeService,
		interval:    interval,
		idleTTL:     idleTTL,
	}
}

func (w *SessionCleanupWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		logrus.WithField("interval", w.interval.String()).Warn("Invalid cleanup interval, using default")
		w.interval = defaultCleanupInterval
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithField("interval", w.interval.String()).Info("Session cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Session cleanup worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

func (w *SessionCleanupWorker) RunOnce(ctx context.Context) int {
	removed := w.memeService.CleanupIdle(ctx, w.idleTTL)
	if removed > 0 {
		logrus.Infof("Evicted %d idle sessions", removed)
	}
	return removed
}
