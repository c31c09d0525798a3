package worker

import (
	"context"
	"time"

	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
)

// * Refresher is implemented by *service.TrackingService
type Refresher interface {
	RefreshAll(ctx context.Context) error
	Refresh(ctx context.Context, repoName string) error
	Pending() <-chan string
}

type RefreshWorker struct {
	service  Refresher
	interval time.Duration
}

func NewRefreshWorker(service Refresher, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		service:  service,
		interval: interval,
	}
}

// * Run refreshes all tracked repositories once, then every interval, and
// * serves queued single-repository refreshes in between. It returns once ctx
// * is done and the refresh in flight has finished.
func (w *RefreshWorker) Run(ctx context.Context) {
	if err := w.service.RefreshAll(ctx); err != nil {
		logger.Error("initial refresh failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.service.RefreshAll(ctx); err != nil {
				logger.Error("refresh failed: %v", err)
			} else {
				logger.Info("successfully refreshed tracked repositories")
			}

		case repoName := <-w.service.Pending():
			if err := w.service.Refresh(ctx, repoName); err != nil {
				logger.Error("refresh of %s failed: %v", repoName, err)
			}

		case <-ctx.Done():
			logger.Info("stopping refresh worker")
			return
		}
	}
}
