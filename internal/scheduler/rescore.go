package scheduler

import (
	"context"
	"time"

	"leadnest_backend/platform/logger"
)

const (
	defaultRescoreInterval   = time.Hour
	defaultRescoreStaleAfter = time.Hour
	rescoreBatchSize         = 500
)

// StaleRescorer is implemented by the leads service.
type StaleRescorer interface {
	RescoreStale(ctx context.Context, scoredBefore time.Time, limit int) (int, error)
}

// ScoreRefresher periodically re-scores leads whose stored score has gone
// stale. The recency multiplier makes scores decay with lead age, so a
// score computed yesterday overstates the lead today.
type ScoreRefresher struct {
	rescorer   StaleRescorer
	log        *logger.Logger
	interval   time.Duration
	staleAfter time.Duration
}

func NewScoreRefresher(rescorer StaleRescorer, log *logger.Logger, interval, staleAfter time.Duration) *ScoreRefresher {
	if interval <= 0 {
		interval = defaultRescoreInterval
	}
	if staleAfter <= 0 {
		staleAfter = defaultRescoreStaleAfter
	}

	return &ScoreRefresher{
		rescorer:   rescorer,
		log:        log,
		interval:   interval,
		staleAfter: staleAfter,
	}
}

func (r *ScoreRefresher) Run(ctx context.Context) {
	if r == nil || r.rescorer == nil {
		return
	}

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *ScoreRefresher) refresh(ctx context.Context) {
	cutoff := time.Now().Add(-r.staleAfter)

	count, err := r.rescorer.RescoreStale(ctx, cutoff, rescoreBatchSize)
	if err != nil {
		r.log.Warn("stale score refresh failed", "error", err)
		return
	}

	if count > 0 {
		r.log.Info("stale scores refreshed", "count", count)
	}
}
