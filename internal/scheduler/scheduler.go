// Package scheduler runs the periodic faucet claim processing job. It is a
// thin gocron wrapper: the interesting semantics (global lock, batch bounds,
// per-claim isolation) live in the FaucetService; the scheduler only decides
// when the next run starts.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/zigletlabs/go-rewards-backend/internal/services"
)

// Scheduler owns the background job runner.
type Scheduler struct {
	sched gocron.Scheduler
}

// Start creates the runner and registers the faucet processing job at the
// given interval. An interval <= 0 disables the job and returns a Scheduler
// whose Stop is a no-op.
//
// Overlapping runs are harmless: the processor's global lock turns them into
// no-ops, so the scheduler does not need its own singleton mode.
func Start(faucet *services.FaucetService, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		log.Info().Msg("faucet scheduler disabled")
		return &Scheduler{}, nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			report, err := faucet.ProcessPending(ctx)
			if err != nil {
				log.Error().Err(err).Msg("scheduled faucet run failed")
				return
			}
			if report.Locked {
				return
			}
			if report.Processed > 0 {
				log.Info().
					Int("processed", report.Processed).
					Int("confirmed", report.Confirmed).
					Int("failed", report.Failed).
					Msg("scheduled faucet run finished")
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	log.Info().Dur("interval", interval).Msg("faucet scheduler started")
	return &Scheduler{sched: sched}, nil
}

// Stop shuts the runner down, waiting for an in-flight job to finish.
func (s *Scheduler) Stop() {
	if s.sched == nil {
		return
	}
	if err := s.sched.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("scheduler shutdown failed")
	}
}
