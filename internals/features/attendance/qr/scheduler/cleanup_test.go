package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumark_backend/internals/features/attendance/qr/model"
	"edumark_backend/internals/features/attendance/qr/repository"
)

func TestRunIssuanceCleanupKeepsGrace(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryIssuanceStore()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	save := func(nonce string, expires time.Time) {
		require.NoError(t, store.Save(ctx, &model.IssuedQRModel{
			IssuedQRNonce:     nonce,
			IssuedQRSessionID: "s1",
			IssuedQRClassID:   "c1",
			IssuedQRIssuedAt:  expires.Add(-30 * time.Second),
			IssuedQRExpiresAt: expires,
		}))
	}
	save("ancient", now.Add(-time.Hour))
	save("recent", now.Add(-time.Minute))
	save("live", now.Add(10*time.Second))

	assert.EqualValues(t, 1, RunIssuanceCleanup(ctx, store, now, repository.DefaultIssuanceGrace))

	_, err := store.FindByNonce(ctx, "ancient")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.FindByNonce(ctx, "recent")
	assert.NoError(t, err, "inside the grace period")
	_, err = store.FindByNonce(ctx, "live")
	assert.NoError(t, err)
}

func TestRunIssuanceCleanupGraceIncludesSkew(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryIssuanceStore()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, &model.IssuedQRModel{
		IssuedQRNonce:     "skewed",
		IssuedQRExpiresAt: now.Add(-6 * time.Minute),
	}))

	assert.EqualValues(t, 0, RunIssuanceCleanup(ctx, store, now, repository.IssuanceGrace(2*time.Minute)))
	_, err := store.FindByNonce(ctx, "skewed")
	assert.NoError(t, err)

	assert.EqualValues(t, 1, RunIssuanceCleanup(ctx, store, now, repository.IssuanceGrace(0)))
	_, err = store.FindByNonce(ctx, "skewed")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStartIssuanceCleanupStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := repository.NewMemoryIssuanceStore()
	require.NoError(t, store.Save(ctx, &model.IssuedQRModel{IssuedQRNonce: "old", IssuedQRExpiresAt: time.Now().Add(-time.Hour)}))

	StartIssuanceCleanupScheduler(ctx, store, 10*time.Millisecond, repository.DefaultIssuanceGrace)
	assert.Eventually(t, func() bool {
		_, err := store.FindByNonce(context.Background(), "old")
		return err != nil
	}, time.Second, 10*time.Millisecond)
	cancel()

	StartIssuanceCleanupScheduler(context.Background(), nil, time.Millisecond, 0)
}
