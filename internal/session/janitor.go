package session

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Evictor drops per-session state untouched since before and reports how
// many sessions it removed.
type Evictor func(before time.Time) int

// RunJanitor sweeps idle session state every interval until ctx is done.
// A session counts as idle once nothing touched it for maxIdle.
func RunJanitor(ctx context.Context, interval, maxIdle time.Duration, evictors ...Evictor) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			Sweep(now.Add(-maxIdle), evictors...)
		}
	}
}

// Sweep runs every evictor once with the given cutoff.
func Sweep(before time.Time, evictors ...Evictor) int {
	total := 0
	for _, evict := range evictors {
		total += evict(before)
	}
	if total > 0 {
		log.WithField("sessions", total).Info("evicted idle session state")
	}
	return total
}
