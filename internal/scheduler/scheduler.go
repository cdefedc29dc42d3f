package scheduler

import (
	"context"
	"fmt"
	"sync"

	"access-log-backend/config"
	"access-log-backend/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// Parser accepts six-field expressions with a leading seconds field, plus descriptors
// such as @every 30s.
var Parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional | cron.Descriptor)

// NewShipJob returns the cron job that ships new access log lines. Runs do not overlap:
// the producer service skips a tick while the previous pass is still reading files.
func NewShipJob(ctx context.Context, wg *sync.WaitGroup, logProducerSvc service.LogProducerService) func() {
	return func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := logProducerSvc.ProcessLogs(ctx); err != nil {
				log.Error().Err(err).Msg("Error during scheduled log shipping")
			}
		}()
	}
}

func NewScheduler(lc fx.Lifecycle, cfg *config.Config, logProducerSvc service.LogProducerService) (*cron.Cron, error) {
	c := cron.New(cron.WithParser(Parser))

	runCtx, cancel := context.WithCancel(context.Background())
	var running sync.WaitGroup

	schedule := cfg.LogProcessor.Schedule
	if _, err := c.AddFunc(schedule, NewShipJob(runCtx, &running, logProducerSvc)); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to add log shipping job with schedule %q: %w", schedule, err)
	}
	log.Info().Str("schedule", schedule).Str("directory", cfg.LogProcessor.LogDirectory).Msg("Scheduled log shipping job")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			cancel()
			done := make(chan struct{})
			go func() {
				<-stopCtx.Done()
				running.Wait()
				close(done)
			}()
			select {
			case <-done:
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})

	return c, nil
}
