package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/openclimatefix/global-solar-forecast/internal/logger"
)

// GenerateFunc runs one dashboard generation. The scheduler does not care
// about the result, only whether the run failed.
type GenerateFunc func(ctx context.Context) error

// generationTimeout bounds one scheduled run; empirical norm sampling for
// many countries can take a while on a cold cache.
const generationTimeout = 15 * time.Minute

// Scheduler periodically regenerates the dashboard.
type Scheduler struct {
	scheduler *gocron.Scheduler
	generate  GenerateFunc
	interval  time.Duration
	log       *logger.Logger
}

// New creates a new Scheduler.
func New(interval time.Duration, generate GenerateFunc) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		generate:  generate,
		interval:  interval,
		log:       logger.GetGlobalLogger().WithComponent("scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.generate == nil {
		s.log.Warn("No generation job configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.log.Info("Running scheduled dashboard generation")

		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()

		if err := s.generate(ctx); err != nil {
			s.log.Error("Scheduled dashboard generation failed", err)
			return
		}
		s.log.Info("Scheduled dashboard generation completed")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Infof("Dashboard regeneration scheduled every %d minutes", minutes)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
