// Package changes compares a player's two most recent snapshots.
package changes

import (
	"hiscore-tracker/internal/core/domain"
	"hiscore-tracker/internal/core/levels"
)

// SkillChanges reports skills whose displayed level rose between the last two
// snapshots, in the order of the latest snapshot's skills. A skill missing
// from the earlier snapshot is treated as unchanged.
func SkillChanges(snaps []domain.Snapshot) []domain.SkillChange {
	before, after, ok := lastPair(snaps)
	if !ok {
		return nil
	}

	var out []domain.SkillChange
	for _, skill := range after.Skills.Keys() {
		cur, _ := after.Skills.Get(skill)
		prev, found := before.Skills.Get(skill)
		if !found {
			prev = cur
		}

		oldLevel := levels.DisplayedLevel(skill, prev.Level, prev.Experience)
		newLevel := levels.DisplayedLevel(skill, cur.Level, cur.Experience)
		if newLevel > oldLevel {
			out = append(out, domain.SkillChange{
				Skill:    skill,
				OldLevel: oldLevel,
				NewLevel: newLevel,
				Diff:     newLevel - oldLevel,
			})
		}
	}
	return out
}

// ActivityChanges reports activities whose score rose between the last two
// snapshots. Missing entries count as a score of 0.
func ActivityChanges(snaps []domain.Snapshot) []domain.ActivityChange {
	before, after, ok := lastPair(snaps)
	if !ok {
		return nil
	}

	var out []domain.ActivityChange
	for _, name := range after.Minigames.Keys() {
		cur, _ := after.Minigames.Get(name)
		prev, _ := before.Minigames.Get(name)
		if cur.Score > prev.Score {
			out = append(out, domain.ActivityChange{
				Name:     name,
				OldScore: prev.Score,
				NewScore: cur.Score,
				Diff:     cur.Score - prev.Score,
			})
		}
	}
	return out
}

// Detect collects both change sets for one player.
func Detect(rec *domain.PlayerRecord) domain.PlayerChanges {
	if rec == nil {
		return domain.PlayerChanges{}
	}
	return domain.PlayerChanges{
		Player:     rec.PlayerName,
		Skills:     SkillChanges(rec.Snapshots),
		Activities: ActivityChanges(rec.Snapshots),
	}
}

func lastPair(snaps []domain.Snapshot) (domain.Snapshot, domain.Snapshot, bool) {
	n := len(snaps)
	if n < 2 {
		return domain.Snapshot{}, domain.Snapshot{}, false
	}
	return snaps[n-2], snaps[n-1], true
}
