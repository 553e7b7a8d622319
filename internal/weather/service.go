package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-prediction/internal/metrics"
	"github.com/i474232898/weather-prediction/internal/prediction"
)

var (
	// ErrNoData is returned when nothing has been fetched for a location.
	ErrNoData = errors.New("no weather data for location")
	// ErrNoProviders is returned when the service has no providers configured.
	ErrNoProviders = errors.New("no weather providers configured")
)

// Service orchestrates fetching from multiple providers, retaining datasets and
// turning them into reconciled predictions.
type Service struct {
	store         Store
	providers     []Provider
	engine        *prediction.Engine
	resolver      *Resolver
	metrics       *metrics.Registry
	historySource string
	now           func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEngine sets the reconciliation engine.
func WithEngine(e *prediction.Engine) ServiceOption {
	return func(s *Service) { s.engine = e }
}

// WithResolver sets the location resolver.
func WithResolver(r *Resolver) ServiceOption {
	return func(s *Service) { s.resolver = r }
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metrics.Registry) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithHistorySource names the provider whose history feeds the trend.
func WithHistorySource(name string) ServiceOption {
	return func(s *Service) { s.historySource = name }
}

// NewService creates a new Service.
func NewService(store Store, providers []Provider, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		providers: providers,
		engine:    prediction.NewEngine(),
		resolver:  NewResolver(nil),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderNames lists the configured providers in order.
func (s *Service) ProviderNames() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// Resolve turns a city/country query into a Location.
func (s *Service) Resolve(ctx context.Context, city, country string) (Location, error) {
	return s.resolver.Resolve(ctx, city, country)
}

// FetchAndStore fetches daily data from all providers concurrently for the given
// location, assembles the successful reports and stores the dataset.
// Partial failure still stores a dataset; if every provider fails the last good
// dataset is kept and ErrNoData is returned.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) error {
	if len(s.providers) == 0 {
		log.Error().Str("location", loc.Key()).Msg("no providers available to fetch weather data")
		return ErrNoProviders
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		reports  []DailyReport
		failures = make(map[string]error)
	)

	log.Debug().Str("location", loc.Key()).Int("providers", len(s.providers)).Msg("fetching daily data")

	for _, p := range s.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := s.now()
			r, err := p.FetchDaily(ctx, loc)
			s.metrics.ObserveFetch(p.Name(), s.now().Sub(start), err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Log and continue; we want partial success when possible.
				log.Warn().Err(err).Str("provider", p.Name()).Str("location", loc.Key()).Msg("provider fetch failed")
				failures[p.Name()] = err
				return
			}
			r.ProviderName = p.Name()
			if r.FetchedAt.IsZero() {
				r.FetchedAt = s.now().UTC()
			}
			reports = append(reports, r)
		}()
	}

	wg.Wait()

	if len(reports) == 0 {
		log.Warn().Str("location", loc.Key()).Msg("no successful provider reports; keeping last good dataset if any")
		return fmt.Errorf("%w: all %d providers failed for %s", ErrNoData, len(s.providers), loc.Key())
	}

	ds := AssembleDataset(loc, s.ProviderNames(), s.historySource, reports, failures)
	s.store.SaveDataset(loc, ds)

	log.Info().
		Str("location", loc.Key()).
		Int("history", len(ds.Historical)).
		Int("succeeded", len(reports)).
		Int("failed", len(failures)).
		Msg("stored dataset")
	return nil
}

// Predict reconciles the latest dataset for loc into daysAhead predictions and a
// lineDays trend line. When nothing is stored yet the data is fetched on demand.
// Insufficient history is not an error: the report comes back with Available=false.
func (s *Service) Predict(ctx context.Context, loc Location, daysAhead, lineDays int) (Report, error) {
	ds, err := s.latestOrFetch(ctx, loc)
	if err != nil {
		return Report{}, err
	}

	records, err := s.engine.Reconcile(ds.Historical, ds.Forecasts, daysAhead)
	if err != nil {
		return Report{}, fmt.Errorf("reconcile %s: %w", loc.Key(), err)
	}
	line, err := s.engine.Project(ds.Historical, lineDays)
	if err != nil {
		return Report{}, fmt.Errorf("project %s: %w", loc.Key(), err)
	}

	if len(records) == 0 {
		s.metrics.ObserveUnavailable()
		log.Info().Str("location", loc.Key()).Int("history", len(ds.Historical)).Msg("insufficient history for prediction")
	}
	for _, rec := range records {
		s.metrics.ObservePrediction(string(rec.Confidence))
	}

	return Report{
		Location:       ds.Location,
		FetchedAt:      ds.FetchedAt,
		Available:      len(records) > 0,
		Tolerance:      s.engine.Tolerance(),
		Predictions:    records,
		PredictionLine: line,
		Historical:     ds.Historical,
		Forecasts:      ds.Forecasts,
		Sources:        ds.Sources,
	}, nil
}

// PredictionLine returns the trend-only projection for loc.
func (s *Service) PredictionLine(ctx context.Context, loc Location, days int) ([]prediction.DailyObservation, error) {
	ds, err := s.latestOrFetch(ctx, loc)
	if err != nil {
		return nil, err
	}
	line, err := s.engine.Project(ds.Historical, days)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", loc.Key(), err)
	}
	return line, nil
}

func (s *Service) latestOrFetch(ctx context.Context, loc Location) (Dataset, error) {
	ds, err := s.store.GetLatest(loc)
	if err == nil {
		return ds, nil
	}
	if !errors.Is(err, ErrNoData) {
		return Dataset{}, err
	}

	if err := s.FetchAndStore(ctx, loc); err != nil {
		return Dataset{}, err
	}
	return s.store.GetLatest(loc)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (Dataset, error) {
	return s.store.GetLatest(loc)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]Dataset, error) {
	return s.store.GetRange(loc, from, to)
}
