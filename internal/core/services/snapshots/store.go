// Package snapshots resolves player names to stored snapshot histories.
package snapshots

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"hiscore-tracker/internal/adapters/metrics"
	"hiscore-tracker/internal/core/domain"
	"hiscore-tracker/internal/core/ports"
)

const defaultWorkers = 10

type Store struct {
	provider ports.DataProvider
	cache    *Cache
	workers  int
}

// Result is the settled outcome of resolving one name.
type Result struct {
	Name   string
	Record *domain.PlayerRecord
	Err    error
}

func NewStore(provider ports.DataProvider, cache *Cache, workers int) *Store {
	if cache == nil {
		cache = NewCache()
	}
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Store{
		provider: provider,
		cache:    cache,
		workers:  workers,
	}
}

// Resolve returns the record for name, trying each lookup key in order until
// the provider returns a parseable document. Both hits and misses are cached
// for the lifetime of the store's cache.
func (s *Store) Resolve(ctx context.Context, name string) (*domain.PlayerRecord, error) {
	if rec, ok := s.cache.Get(name); ok {
		metrics.PlayerResolutions.WithLabelValues("cache_hit").Inc()
		return rec, nil
	}
	if s.cache.IsMissing(name) {
		metrics.PlayerResolutions.WithLabelValues("cache_miss").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}

	for _, key := range Candidates(name) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := s.provider.Fetch(ctx, key)
		if err != nil {
			metrics.ProviderFetches.WithLabelValues("error").Inc()
			slog.Debug("Lookup key not found", "name", name, "key", key, "error", err)
			continue
		}

		rec, err := domain.ParsePlayerRecord(data)
		if err != nil {
			metrics.ProviderFetches.WithLabelValues("unparseable").Inc()
			slog.Warn("Unparseable player data", "name", name, "key", key, "error", err)
			continue
		}

		metrics.ProviderFetches.WithLabelValues("ok").Inc()
		metrics.PlayerResolutions.WithLabelValues("found").Inc()
		s.cache.Store(name, rec)
		return rec, nil
	}

	metrics.PlayerResolutions.WithLabelValues("not_found").Inc()
	s.cache.MarkMissing(name)
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
}

// ResolveAll resolves every name on a bounded worker pool and waits for all
// of them to settle. Results are in input order.
func (s *Store) ResolveAll(ctx context.Context, names []string) []Result {
	results := make([]Result, len(names))
	jobs := make(chan int, len(names))

	var wg sync.WaitGroup
	for i := 0; i < min(s.workers, len(names)); i++ {
		wg.Add(1)
		go s.worker(ctx, names, jobs, results, &wg)
	}

	for i := range names {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func (s *Store) worker(ctx context.Context, names []string, jobs <-chan int, results []Result, wg *sync.WaitGroup) {
	defer wg.Done()
	for idx := range jobs {
		name := names[idx]
		known := s.cache.IsMissing(name)
		rec, err := s.Resolve(ctx, name)
		if err != nil && !known {
			slog.Warn("Failed to resolve player", "name", name, "error", err)
		}
		results[idx] = Result{Name: name, Record: rec, Err: err}
	}
}
