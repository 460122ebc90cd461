package scheduler

import (
	"context"
	"log"
	"time"

	authRepo "edumark_backend/internals/features/users/auth/repository"
)

// StartSessionCleanupScheduler purges expired login sessions every interval until ctx ends.
func StartSessionCleanupScheduler(ctx context.Context, store authRepo.SessionStore, interval time.Duration) {
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
				log.Println("[CLEANUP] session cleanup stopped")
				return
			case <-ticker.C:
				RunSessionCleanup(ctx, store, time.Now())
			}
		}
	}()
}

func RunSessionCleanup(ctx context.Context, store authRepo.SessionStore, now time.Time) int64 {
	n, err := store.DeleteExpired(ctx, now.UTC())
	if err != nil {
		log.Printf("[CLEANUP ERROR] delete expired sessions: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d expired sessions removed", n)
	}
	return n
}
