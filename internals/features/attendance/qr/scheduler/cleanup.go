package scheduler

import (
	"context"
	"log"
	"time"

	"edumark_backend/internals/features/attendance/qr/repository"
)

// StartIssuanceCleanupScheduler drops issuance records more than grace past expiry,
// every interval until ctx ends.
func StartIssuanceCleanupScheduler(ctx context.Context, store repository.IssuanceStore, interval, grace time.Duration) {
	if store == nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] issuance cleanup stopped")
				return
			case <-ticker.C:
				RunIssuanceCleanup(ctx, store, time.Now(), grace)
			}
		}
	}()
}

func RunIssuanceCleanup(ctx context.Context, store repository.IssuanceStore, now time.Time, grace time.Duration) int64 {
	if grace <= 0 {
		grace = repository.DefaultIssuanceGrace
	}
	n, err := store.DeleteExpiredBefore(ctx, now.Add(-grace).UTC())
	if err != nil {
		log.Printf("[CLEANUP ERROR] delete issued QR tokens: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d issued QR tokens removed", n)
	}
	return n
}
