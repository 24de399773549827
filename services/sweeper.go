package services

import (
	"context"
	"log"
	"time"

	"fidha_server/models"
)

const defaultSweepInterval = time.Minute

type sessionSweepStore interface {
	FindExpirable(ctx context.Context, now time.Time) ([]models.DiscoverySession, error)
	ExpireBatch(ctx context.Context, sessions []models.DiscoverySession) error
}

type matchSweepStore interface {
	FindExpirable(ctx context.Context, now time.Time, maxAge time.Duration) ([]models.Match, error)
	MarkExpired(ctx context.Context, pairKey string) error
}

// LifecycleSweeper periodically expires discovery sessions past their
// deadline and pending matches that never saw further interaction.
type LifecycleSweeper struct {
	Sessions    sessionSweepStore
	Matches     matchSweepStore
	MatchMaxAge time.Duration
	Interval    time.Duration
}

// Run loops Sweep until the context is cancelled. Started as a goroutine
// from main.
func (sw *LifecycleSweeper) Run(ctx context.Context) {
	interval := sw.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Lifecycle sweeper stopped")
			return
		case <-ticker.C:
			if _, err := sw.Sweep(ctx, time.Now()); err != nil {
				log.Printf("Sweep failed: %v", err)
			}
		}
	}
}

// Sweep expires everything past its deadline and returns the number of
// affected records. Idempotent: a second run against unchanged state
// affects nothing and returns 0. Safe to run concurrently with submissions;
// a session expiring mid-evaluation just stops being a candidate.
func (sw *LifecycleSweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	affected := 0

	sessions, err := sw.Sessions.FindExpirable(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(sessions) > 0 {
		if err := sw.Sessions.ExpireBatch(ctx, sessions); err != nil {
			return affected, err
		}
		affected += len(sessions)
	}

	if sw.Matches != nil && sw.MatchMaxAge > 0 {
		matches, err := sw.Matches.FindExpirable(ctx, now, sw.MatchMaxAge)
		if err != nil {
			return affected, err
		}
		for _, match := range matches {
			if err := sw.Matches.MarkExpired(ctx, match.PairKey); err != nil {
				return affected, err
			}
			affected++
		}
	}

	if affected > 0 {
		log.Printf("Sweep expired %d records", affected)
	}
	return affected, nil
}
