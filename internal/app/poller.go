package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scamalert/alertpro/internal/api"
	"github.com/scamalert/alertpro/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// StartPoller launches a background goroutine that refreshes the marquee
// banner and the unread badge at a fixed cadence. When polls keep failing the
// cadence backs off exponentially until the API answers again. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, client *api.Client, interval time.Duration, log *zap.SugaredLogger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			refresh(ctx, store, client, log)

			wait := calculateBackoff(interval, store.Snapshot().ConsecutiveFailures)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(base time.Duration, failures int) time.Duration {
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, client *api.Client, log *zap.SugaredLogger) {
	marquee, err := client.MarqueeMessage(ctx)
	if err != nil {
		store.Update("", 0, err)
		log.Warnw("marquee poll failed", "error", err)
		return
	}
	unread, err := client.UnreadCount(ctx)
	if err != nil {
		store.Update("", 0, err)
		log.Warnw("unread poll failed", "error", err)
		return
	}
	store.Update(marquee, unread, nil)
}
