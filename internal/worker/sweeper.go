package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweepable drops expired state and reports how many entries were removed.
type Sweepable interface {
	Sweep() int
}

// Sweeper periodically sweeps in-process stores such as the memory quota
// counter.
type Sweeper struct {
	name     string
	target   Sweepable
	interval time.Duration
	logger   *zerolog.Logger
}

func NewSweeper(name string, target Sweepable, interval time.Duration, logger *zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Sweeper{name: name, target: target, interval: interval, logger: logger}
}

// Start runs until ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Debug().Str("sweeper", s.name).Dur("interval", s.interval).Msg("sweeper started")
	defer s.logger.Debug().Str("sweeper", s.name).Msg("sweeper stopped")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

func (s *Sweeper) RunOnce() int {
	removed := s.target.Sweep()
	if removed > 0 {
		s.logger.Debug().Str("sweeper", s.name).Int("removed", removed).Msg("expired entries swept")
	}
	return removed
}
