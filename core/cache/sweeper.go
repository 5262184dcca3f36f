package cache

import (
	"context"
	"log/slog"
	"time"
)

const defaultSweepInterval = time.Minute

// Expirer is the slice of Cache the sweeper needs.
type Expirer interface {
	RemoveExpired() int
}

// Sweeper drives periodic purging of expired entries. The cache itself is
// passive and spawns no goroutines; expired entries are otherwise only purged
// lazily on access. A Sweeper bounds how long dead entries can pin memory.
type Sweeper struct {
	c        Expirer
	interval time.Duration
	log      *slog.Logger
}

// NewSweeper creates a sweeper for c. A non-positive interval falls back to
// one minute. A nil log discards.
func NewSweeper(c Expirer, interval time.Duration, log *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Sweeper{c: c, interval: interval, log: log}
}

// Run sweeps at the configured interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.c.RemoveExpired(); n > 0 {
				s.log.Debug("swept expired entries", slog.Int("removed", n))
			}
		}
	}
}
