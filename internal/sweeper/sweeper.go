package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/ajling/tokenward/internal/logger"
	"github.com/ajling/tokenward/internal/model"
)

// Sweeper periodically purges expired entries from the token registry.
// It is a memory-reclamation optimization only; query-time liveness checks
// remain authoritative regardless of sweep timing.
type Sweeper struct {
	registry model.TokenRegistry
	interval time.Duration
	logger   *logger.Logger
}

func New(registry model.TokenRegistry, interval time.Duration, logger *logger.Logger) *Sweeper {
	return &Sweeper{
		registry: registry,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled. A failing or
// panicking tick is logged and never stops subsequent ticks. Callers run
// it in its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper: started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Sweeper: sweep panicked",
				"panic", fmt.Sprintf("%v", r))
		}
	}()

	removed, err := s.registry.SweepExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Sweeper: sweep failed", "error", err.Error())
		return
	}

	s.logger.Debug("Sweeper: sweep complete", "removed", removed)
}
