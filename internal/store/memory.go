package store

import (
	"sync"
	"time"

	"github.com/i474232898/weather-prediction/internal/weather"
)

// ErrNotFound is returned when no data is available for a given location.
var ErrNotFound = weather.ErrNoData

// DatasetHistory holds a time-ordered list of fetched datasets for a location.
type DatasetHistory struct {
	Datasets []weather.Dataset
}

// MemoryStore is a concurrency-safe in-memory implementation of a weather store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*DatasetHistory

	// retention configuration
	maxHistory int           // max number of datasets per location
	maxAge     time.Duration // optional max age for datasets

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*DatasetHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveDataset appends a new dataset for a location and enforces retention.
// The newest dataset is always kept, even if it is older than maxAge.
func (s *MemoryStore) SaveDataset(loc weather.Location, ds weather.Dataset) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &DatasetHistory{}
		s.data[key] = history
	}

	history.Datasets = append(history.Datasets, ds)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Datasets) > s.maxHistory {
		over := len(history.Datasets) - s.maxHistory
		history.Datasets = history.Datasets[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Datasets)-1; i++ {
			if !history.Datasets[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		history.Datasets = history.Datasets[i:]
	}
}

// GetLatest returns the most recent dataset for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.Dataset, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Datasets) == 0 {
		return weather.Dataset{}, ErrNotFound
	}
	return history.Datasets[len(history.Datasets)-1], nil
}

// GetRange returns all datasets for a location fetched between from and to (inclusive).
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.Dataset, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Datasets) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Dataset
	for _, ds := range history.Datasets {
		if !ds.FetchedAt.Before(from) && !ds.FetchedAt.After(to) {
			result = append(result, ds)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}

// Locations returns the keys of all locations with stored data.
func (s *MemoryStore) Locations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k, h := range s.data {
		if len(h.Datasets) > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}
