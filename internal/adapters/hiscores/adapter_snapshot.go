package hiscores

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"hiscore-tracker/internal/adapters/hiscores/api"
	"hiscore-tracker/internal/adapters/hiscores/scraper"
	"hiscore-tracker/internal/core/domain"
)

// FetchSnapshot reads one player's current stats. A schema mismatch is
// returned as is and never falls back to the HTML page.
func (a *Adapter) FetchSnapshot(ctx context.Context, name string) (*domain.Snapshot, error) {
	raw, err := a.client.GetIndexLite(ctx, name)
	if err == nil {
		snap, err := api.ParseIndexLite(raw, a.schema)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &snap, nil
	}

	if !a.htmlFallback || errors.Is(err, api.ErrPlayerNotFound) || ctx.Err() != nil {
		return nil, err
	}

	slog.Warn("index_lite failed, trying personal page", "name", name, "error", err)
	page, pageErr := a.client.GetPersonalPage(ctx, name)
	if pageErr != nil {
		return nil, errors.Join(err, pageErr)
	}

	rows, pageErr := scraper.ParsePersonalPage(bytes.NewReader(page))
	if pageErr != nil {
		return nil, errors.Join(err, pageErr)
	}

	snap, pageErr := snapshotFromRows(rows, a.schema)
	if pageErr != nil {
		return nil, errors.Join(err, pageErr)
	}
	return snap, nil
}

// FetchSnapshots concurrently fetches a list of players. Every name yields
// exactly one result unless ctx is cancelled first.
func (a *Adapter) FetchSnapshots(ctx context.Context, names []string) (<-chan domain.FetchResult, error) {
	results := make(chan domain.FetchResult, len(names))
	jobs := make(chan string, len(names))

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go a.worker(ctx, jobs, results, &wg)
	}

	go func() {
		defer close(results)
		wg.Wait()
	}()

	go func() {
		defer close(jobs)
		for _, name := range names {
			jobs <- name
		}
	}()

	return results, nil
}

func (a *Adapter) worker(ctx context.Context, jobs <-chan string, results chan<- domain.FetchResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for name := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
			snap, err := a.FetchSnapshot(ctx, name)
			if err != nil {
				slog.Warn("Failed to fetch hiscores", "name", name, "error", err)
			}
			results <- domain.FetchResult{Name: name, Snapshot: snap, Err: err}
		}
	}
}
