// Package collector captures a new hiscores snapshot for every tracked player
// and applies snapshot retention.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hiscore-tracker/internal/adapters/metrics"
	"hiscore-tracker/internal/config"
	"hiscore-tracker/internal/core/domain"
	"hiscore-tracker/internal/core/ports"
)

// Player list sources, in the order they are tried.
const (
	SourceGroup   = "wom"
	SourceIndex   = "index"
	SourceDefault = "default"
)

type Dependencies struct {
	Config  *config.Config
	Storage ports.SnapshotRepository
	Fetcher ports.HiscoresFetcher
	// Groups is optional; without it the stored player index is used.
	Groups ports.GroupMembersFetcher
	Now    func() time.Time
}

type Service struct {
	config  *config.Config
	storage ports.SnapshotRepository
	fetcher ports.HiscoresFetcher
	groups  ports.GroupMembersFetcher
	now     func() time.Time
}

// RunReport summarizes one collection run.
type RunReport struct {
	RunID    string
	Source   string
	Players  []string
	Appended int
	Failed   []string
	Pruned   int64
	Duration time.Duration
}

func NewService(deps Dependencies) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		config:  deps.Config,
		storage: deps.Storage,
		fetcher: deps.Fetcher,
		groups:  deps.Groups,
		now:     now,
	}
}

// SelectPlayers returns the player list for a run and where it came from.
// A failing source is logged and the next one is tried.
func (s *Service) SelectPlayers(ctx context.Context) ([]string, string, error) {
	if s.groups != nil && s.config.WOMGroupID > 0 {
		names, err := s.groups.FetchGroupMembers(ctx, s.config.WOMGroupID)
		switch {
		case err != nil:
			slog.Warn("Failed to fetch group members, falling back", "group_id", s.config.WOMGroupID, "error", err)
		case len(names) > 0:
			return names, SourceGroup, nil
		}
	}

	names, err := s.storage.ListPlayers(ctx)
	switch {
	case err != nil:
		slog.Warn("Failed to read player index, falling back", "error", err)
	case len(names) > 0:
		return names, SourceIndex, nil
	}

	if len(s.config.DefaultPlayers) > 0 {
		return s.config.DefaultPlayers, SourceDefault, nil
	}
	return nil, "", domain.ErrNoPlayers
}

// Run performs one collection. Per-player fetch and write failures are
// reported, not returned. A schema mismatch aborts the run, since every
// later player would be decoded against the wrong layout.
func (s *Service) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	report := &RunReport{RunID: uuid.NewString()}
	log := slog.With("run_id", report.RunID)

	err := s.run(ctx, log, report)
	report.Duration = time.Since(start)

	status := "ok"
	switch {
	case errors.Is(err, domain.ErrSchemaMismatch):
		status = "schema_mismatch"
	case err != nil:
		status = "error"
	case len(report.Failed) > 0:
		status = "partial"
	}
	metrics.CollectionRuns.WithLabelValues(status).Inc()
	metrics.CollectionDuration.Observe(report.Duration.Seconds())

	if err != nil {
		log.Error("Collection run failed", "error", err, "duration", report.Duration)
		return report, err
	}
	log.Info("Collection run finished",
		"source", report.Source,
		"players", len(report.Players),
		"appended", report.Appended,
		"failed", len(report.Failed),
		"pruned", report.Pruned,
		"duration", report.Duration,
	)
	return report, nil
}

func (s *Service) run(ctx context.Context, log *slog.Logger, report *RunReport) error {
	names, source, err := s.SelectPlayers(ctx)
	if err != nil {
		return err
	}
	report.Players, report.Source = names, source
	log.Info("Collection run started", "source", source, "players", len(names))

	if err := s.storage.SavePlayers(ctx, names); err != nil {
		return fmt.Errorf("save player index: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results, err := s.fetcher.FetchSnapshots(ctx, names)
	if err != nil {
		return fmt.Errorf("fetch hiscores: %w", err)
	}

	var fatal error
	for res := range results {
		if fatal != nil {
			continue
		}
		if res.Err != nil {
			if errors.Is(res.Err, domain.ErrSchemaMismatch) {
				fatal = res.Err
				cancel()
				continue
			}
			report.Failed = append(report.Failed, res.Name)
			continue
		}
		if err := s.store(ctx, log, report, res); err != nil {
			log.Error("Failed to store snapshot", "name", res.Name, "error", err)
			report.Failed = append(report.Failed, res.Name)
		}
	}
	if fatal != nil {
		return fatal
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (s *Service) store(ctx context.Context, log *slog.Logger, report *RunReport, res domain.FetchResult) error {
	if res.Snapshot == nil {
		return fmt.Errorf("%s: empty snapshot", res.Name)
	}

	stamp := s.now().UTC().Truncate(time.Second)
	snap := *res.Snapshot
	snap.Timestamp = stamp

	if err := s.storage.AppendSnapshot(ctx, res.Name, snap); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	report.Appended++
	metrics.SnapshotsAppended.Inc()

	cutoff := stamp.AddDate(0, 0, -s.config.KeepDays)
	removed, err := s.storage.PruneSnapshots(ctx, res.Name, cutoff, s.config.MinKeep)
	if err != nil {
		log.Warn("Failed to prune snapshots", "name", res.Name, "error", err)
		return nil
	}
	if removed > 0 {
		report.Pruned += removed
		metrics.SnapshotsPruned.Add(float64(removed))
		log.Debug("Pruned snapshots", "name", res.Name, "removed", removed)
	}
	return nil
}
