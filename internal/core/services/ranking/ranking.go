// Package ranking builds top-N leaderboards from players' latest snapshots.
//
// Entries are ordered by value descending, then by hiscores rank ascending
// with unranked entries after ranked ones. Remaining ties keep the order of
// the input player list.
package ranking

import (
	"errors"
	"sort"

	"hiscore-tracker/internal/core/domain"
	"hiscore-tracker/internal/core/levels"
)

var ErrInvalidLimit = errors.New("leaderboard size must be at least 1")

// PlayerSnapshot pairs a player with the snapshot they are ranked by.
type PlayerSnapshot struct {
	Player   string
	Snapshot domain.Snapshot
}

// RankSkills returns the top n entries for every skill seen in any snapshot.
// A player without a skill ranks with level 0 and no rank. A negative n
// yields empty boards.
func RankSkills(latest []PlayerSnapshot, n int) map[string][]domain.LeaderboardEntry {
	boards := make(map[string][]domain.LeaderboardEntry)
	for _, skill := range SkillNames(latest) {
		entries := make([]domain.LeaderboardEntry, 0, len(latest))
		for _, ps := range latest {
			entry := domain.LeaderboardEntry{Player: ps.Player}
			if s, ok := ps.Snapshot.Skills.Get(skill); ok {
				entry.Value = int64(levels.DisplayedLevel(skill, s.Level, s.Experience))
				entry.Rank = copyRank(s.Rank)
			}
			entries = append(entries, entry)
		}
		boards[skill] = top(entries, n)
	}
	return boards
}

// TopNForActivity ranks players with a positive score for activity. Players
// without one are left out, so the result may be empty.
func TopNForActivity(activity string, latest []PlayerSnapshot, n int) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(latest))
	for _, ps := range latest {
		a, ok := ps.Snapshot.Minigames.Get(activity)
		if !ok || a.Score <= 0 {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			Player: ps.Player,
			Value:  a.Score,
			Rank:   copyRank(a.Rank),
		})
	}
	return top(entries, n)
}

// RankActivities returns the non-empty activity leaderboards.
func RankActivities(latest []PlayerSnapshot, n int) map[string][]domain.LeaderboardEntry {
	boards := make(map[string][]domain.LeaderboardEntry)
	for _, name := range ActivityNames(latest) {
		if entries := TopNForActivity(name, latest, n); len(entries) > 0 {
			boards[name] = entries
		}
	}
	return boards
}

// SkillNames is the union of skill names in first-seen order.
func SkillNames(latest []PlayerSnapshot) []string {
	return union(latest, func(s domain.Snapshot) []string { return s.Skills.Keys() })
}

// ActivityNames is the union of activity names in first-seen order.
func ActivityNames(latest []PlayerSnapshot) []string {
	return union(latest, func(s domain.Snapshot) []string { return s.Minigames.Keys() })
}

func union(latest []PlayerSnapshot, keys func(domain.Snapshot) []string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, ps := range latest {
		for _, k := range keys(ps.Snapshot) {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			names = append(names, k)
		}
	}
	return names
}

func top(entries []domain.LeaderboardEntry, n int) []domain.LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})
	n = max(n, 0)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func less(a, b domain.LeaderboardEntry) bool {
	if a.Value != b.Value {
		return a.Value > b.Value
	}
	return rankLess(a.Rank, b.Rank)
}

func rankLess(a, b *int64) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

func copyRank(r *int64) *int64 {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}
