package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-prediction/internal/metrics"
	"github.com/i474232898/weather-prediction/internal/weather"
)

// Fetcher is the part of weather.Service the scheduler drives.
type Fetcher interface {
	FetchAndStore(ctx context.Context, loc weather.Location) error
}

// Scheduler periodically fetches weather data for configured locations.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	fetcher     Fetcher
	metrics     *metrics.Registry
	locations   []weather.Location
	interval    time.Duration
	concurrency int
	jobTimeout  time.Duration
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, concurrency int, fetcher Fetcher, reg *metrics.Registry) *Scheduler {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Scheduler{
		scheduler:   gocron.NewScheduler(time.UTC),
		fetcher:     fetcher,
		metrics:     reg,
		locations:   locations,
		interval:    interval,
		concurrency: concurrency,
		jobTimeout:  60 * time.Second,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Info().Msg("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce fetches every configured location, at most concurrency at a time.
// A failing location is logged and does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) (failed int) {
	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Logger()
	logger.Info().Int("locations", len(s.locations)).Msg("scheduler: running weather fetch job")

	results := make([]error, len(s.locations))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, loc := range s.locations {
		i, loc := i, loc
		g.Go(func() error {
			err := s.fetcher.FetchAndStore(ctx, loc)
			s.metrics.ObserveSchedulerRun(err)
			if err != nil {
				logger.Warn().Err(err).Str("location", loc.Key()).Msg("scheduler: fetch failed")
			}
			results[i] = err
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range results {
		if err != nil {
			failed++
		}
	}
	logger.Info().Int("failed", failed).Msg("scheduler: completed weather fetch job")
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
