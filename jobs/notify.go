// Package jobs holds the periodic background work of the application.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/brasaerp/brasaerp/internal/store"
)

// NotificationSweep runs CheckNotifications on a fixed interval until
// the context is cancelled. One sweep runs immediately at startup so
// conditions present before the first tick are flagged.
func NotificationSweep(ctx context.Context, st *store.Store, logger *slog.Logger, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	sweep := func() {
		if created := st.CheckNotifications(); len(created) > 0 {
			logger.Info("notification sweep", slog.Int("created", len(created)))
		}
	}
	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			sweep()
		}
	}
}
