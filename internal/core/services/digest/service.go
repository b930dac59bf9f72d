// Package digest turns the stored snapshot histories of the tracked players
// into leaderboards and change reports and hands them to publishers.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hiscore-tracker/internal/adapters/metrics"
	"hiscore-tracker/internal/config"
	"hiscore-tracker/internal/core/domain"
	"hiscore-tracker/internal/core/ports"
	"hiscore-tracker/internal/core/services/changes"
	"hiscore-tracker/internal/core/services/ranking"
	"hiscore-tracker/internal/core/services/refresh"
	"hiscore-tracker/internal/core/services/snapshots"
)

type Dependencies struct {
	Config     *config.Config
	Players    ports.PlayerListProvider
	Provider   ports.DataProvider
	Publishers []ports.DigestPublisher
	Schema     domain.Schema
	Now        func() time.Time
}

type Service struct {
	config     *config.Config
	players    ports.PlayerListProvider
	provider   ports.DataProvider
	publishers []ports.DigestPublisher
	schema     domain.Schema
	now        func() time.Time
}

func NewService(deps Dependencies) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		config:     deps.Config,
		players:    deps.Players,
		provider:   deps.Provider,
		publishers: deps.Publishers,
		schema:     deps.Schema,
		now:        now,
	}
}

// Build resolves every listed player once and computes the digest. Each call
// uses a fresh cache, so documents written since the last build are seen.
func (s *Service) Build(ctx context.Context) (*domain.Digest, error) {
	names, err := s.players.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	store := snapshots.NewStore(s.provider, snapshots.NewCache(), s.config.WorkerPoolSize)
	engine := ranking.NewEngine(store)

	latest, excluded, err := engine.Latest(ctx, names)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Later lookups are served from the store's cache.
	skillLeaders, err := engine.TopNSkillLeaders(ctx, names, s.config.TopN)
	if err != nil {
		return nil, err
	}
	activityLeaders, err := engine.TopNActivityLeaders(ctx, names, s.config.TopN)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d := &domain.Digest{
		GeneratedAt:     now,
		NextRefresh:     refresh.NextDailyRefresh(now, s.config.RefreshHour, s.config.Location),
		SkillOrder:      categoryOrder(s.schema.Skills, ranking.SkillNames(latest), skillLeaders),
		SkillLeaders:    skillLeaders,
		ActivityOrder:   categoryOrder(s.schema.Minigames, ranking.ActivityNames(latest), activityLeaders),
		ActivityLeaders: activityLeaders,
		Excluded:        excluded,
	}

	for _, ps := range latest {
		rec, err := store.Resolve(ctx, ps.Player)
		if err != nil {
			return nil, err
		}
		pc := changes.Detect(rec)
		if pc.Empty() {
			continue
		}
		pc.Player = ps.Player
		d.Changes = append(d.Changes, pc)
	}

	slog.Info("Digest built",
		"players", len(names),
		"ranked", len(latest),
		"excluded", len(excluded),
		"with_changes", len(d.Changes),
	)
	return d, nil
}

// Run builds a digest and publishes it to every publisher. A failing
// publisher does not stop the others; their errors are returned joined.
func (s *Service) Run(ctx context.Context) (*domain.Digest, error) {
	d, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}

	for _, pc := range d.Changes {
		metrics.TrackedLevelUps.Add(float64(len(pc.Skills)))
		metrics.TrackedScoreIncreases.Add(float64(len(pc.Activities)))
	}

	var errs []error
	for _, p := range s.publishers {
		if err := p.PublishDigest(ctx, d); err != nil {
			slog.Error("Failed to publish digest", "publisher", fmt.Sprintf("%T", p), "error", err)
			errs = append(errs, err)
		}
	}
	return d, errors.Join(errs...)
}

// categoryOrder lists the boards in schema order, followed by names the
// schema does not know in first-seen order.
func categoryOrder(schema, seen []string, boards map[string][]domain.LeaderboardEntry) []string {
	order := make([]string, 0, len(boards))
	added := make(map[string]struct{}, len(boards))
	for _, group := range [][]string{schema, seen} {
		for _, name := range group {
			if _, ok := boards[name]; !ok {
				continue
			}
			if _, dup := added[name]; dup {
				continue
			}
			added[name] = struct{}{}
			order = append(order, name)
		}
	}
	return order
}
