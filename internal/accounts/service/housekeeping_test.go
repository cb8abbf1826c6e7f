package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/store"
	"github.com/halcyonlabs/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

func seedSessionAt(t *testing.T, st store.Store, userID string, expiresAt time.Time) domain.Session {
	t.Helper()

	now := time.Now().UTC()
	sess := domain.Session{
		ID:         idx.New().String(),
		UserID:     userID,
		AccessKey:  idx.New().String() + "-access",
		RefreshKey: idx.New().String() + "-refresh",
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, st.Sessions().CreateSession(context.Background(), sess))
	return sess
}

func TestHousekeepingCleanup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedVerifiedUser(t, "keeper@example.com", "Str0ngPass!")
	now := time.Now().UTC()

	// Ancient rows go, recently expired and live rows stay.
	seedSessionAt(t, env.store, user.ID, now.Add(-60*24*time.Hour))
	recent := seedSessionAt(t, env.store, user.ID, now.Add(-time.Hour))
	live := seedSessionAt(t, env.store, user.ID, now.Add(time.Hour))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewHousekeepingService(env.store, logger, time.Hour, 30*24*time.Hour)
	svc.cleanup()

	deleted, err := env.store.Sessions().DeleteExpiredBefore(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Zero(t, deleted)

	_, err = env.store.Sessions().GetLiveByAccess(ctx, live.ID, live.AccessKey, user.ID, now)
	require.NoError(t, err)

	// The recently expired row is invisible to live lookups but still stored.
	_, err = env.store.Sessions().GetLiveByAccess(ctx, recent.ID, recent.AccessKey, user.ID, now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHousekeepingLifecycle(t *testing.T) {
	env := newTestEnv(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewHousekeepingService(env.store, logger, 10*time.Millisecond, time.Hour)

	svc.Start()
	time.Sleep(50 * time.Millisecond)
	svc.Stop()

	select {
	case <-svc.doneCh:
	default:
		t.Fatal("worker still running after Stop")
	}
}
