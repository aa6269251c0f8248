package jobs

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brasaerp/brasaerp/internal/store"
)

func TestNotificationSweepRunsImmediately(t *testing.T) {
	st, err := store.Open(store.Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NotificationSweep(ctx, st, slog.Default(), time.Hour)
	require.ErrorIs(t, err, context.Canceled)

	// The startup sweep flagged the empty inventory before the first
	// tick ever fired.
	require.NotEmpty(t, st.Notifications())
}
