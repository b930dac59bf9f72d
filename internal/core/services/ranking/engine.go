package ranking

import (
	"context"
	"fmt"
	"log/slog"

	"hiscore-tracker/internal/core/domain"
	"hiscore-tracker/internal/core/services/snapshots"
)

type Resolver interface {
	ResolveAll(ctx context.Context, names []string) []snapshots.Result
}

// Engine ranks a player set resolved through a snapshot store.
type Engine struct {
	resolver Resolver
}

func NewEngine(resolver Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// Latest resolves names and returns each resolved player's last snapshot in
// input order, plus the names that were left out. It fails only when names is
// empty or nothing could be resolved.
func (e *Engine) Latest(ctx context.Context, names []string) ([]PlayerSnapshot, []string, error) {
	if len(names) == 0 {
		return nil, nil, domain.ErrNoPlayers
	}

	latest, excluded := LatestSnapshots(e.resolver.ResolveAll(ctx, names))
	if len(latest) == 0 {
		return nil, excluded, fmt.Errorf("%w: %d players", domain.ErrAllPlayersFailed, len(names))
	}
	return latest, excluded, nil
}

// LatestSnapshots picks each resolved player's last snapshot, in result
// order. Players that failed to resolve or have no snapshots are returned as
// excluded.
func LatestSnapshots(results []snapshots.Result) (latest []PlayerSnapshot, excluded []string) {
	for _, r := range results {
		if r.Err != nil {
			excluded = append(excluded, r.Name)
			continue
		}
		snap, ok := r.Record.Latest()
		if !ok {
			slog.Debug("Player has no snapshots", "name", r.Name)
			excluded = append(excluded, r.Name)
			continue
		}
		latest = append(latest, PlayerSnapshot{Player: r.Name, Snapshot: snap})
	}
	return latest, excluded
}

// TopNSkillLeaders returns the top n players for every skill.
func (e *Engine) TopNSkillLeaders(ctx context.Context, names []string, n int) (map[string][]domain.LeaderboardEntry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	latest, _, err := e.Latest(ctx, names)
	if err != nil {
		return nil, err
	}
	return RankSkills(latest, n), nil
}

// TopNActivityLeaders returns the top n players for every activity that has
// at least one positive score.
func (e *Engine) TopNActivityLeaders(ctx context.Context, names []string, n int) (map[string][]domain.LeaderboardEntry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	latest, _, err := e.Latest(ctx, names)
	if err != nil {
		return nil, err
	}
	return RankActivities(latest, n), nil
}
