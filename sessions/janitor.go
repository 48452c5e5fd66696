package sessions

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-webhook-relay/internal/metrics"
)

// Janitor periodically sweeps idle session records out of a Repo. The sweep
// period and the idle threshold are independent knobs: a record can survive
// past its nominal expiry until the next tick fires.
type Janitor struct {
	repo      Repo
	interval  time.Duration
	maxIdle   time.Duration
	collector *metrics.Collector
	logger    zerolog.Logger
}

// NewJanitor creates a Janitor sweeping repo every interval, removing records
// idle for longer than maxIdle. collector may be nil.
func NewJanitor(repo Repo, interval, maxIdle time.Duration, collector *metrics.Collector) *Janitor {
	return &Janitor{
		repo:      repo,
		interval:  interval,
		maxIdle:   maxIdle,
		collector: collector,
		logger:    log.With().Str("component", "sessions.janitor").Logger(),
	}
}

// Run blocks, sweeping on every tick until ctx is cancelled. It always
// returns nil so an errgroup treats shutdown as clean.
func (j *Janitor) Run(ctx context.Context) error {
	j.logger.Info().
		Dur("interval", j.interval).
		Dur("maxIdle", j.maxIdle).
		Msg("session janitor started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("session janitor stopping")
			return nil
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *Janitor) sweep() {
	removed := j.repo.Sweep(j.maxIdle)
	j.collector.RecordSweep(removed)
	if removed > 0 {
		j.logger.Info().
			Int("removed", removed).
			Int("remaining", j.repo.Size()).
			Msg("swept idle sessions")
	}
}
