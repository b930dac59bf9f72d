package hiscores

import (
	"fmt"

	"hiscore-tracker/internal/adapters/hiscores/scraper"
	"hiscore-tracker/internal/core/domain"
)

// snapshotFromRows lays personal page rows out in schema order. Categories
// the page omits are unranked.
func snapshotFromRows(rows []scraper.Row, schema domain.Schema) (*domain.Snapshot, error) {
	byName := make(map[string][]int64, len(rows))
	for _, r := range rows {
		if _, ok := byName[r.Name]; !ok {
			byName[r.Name] = r.Values
		}
	}

	if v := byName[domain.OverallSkill]; len(v) < 3 {
		return nil, fmt.Errorf("personal page has no %s row", domain.OverallSkill)
	}

	var snap domain.Snapshot
	for _, name := range schema.Skills {
		v := byName[name]
		if len(v) < 3 {
			snap.Skills.Set(name, domain.NewSkillEntry(-1, -1, -1))
			continue
		}
		snap.Skills.Set(name, domain.NewSkillEntry(v[0], v[1], v[2]))
	}
	for _, name := range schema.Minigames {
		v := byName[name]
		if len(v) < 2 {
			snap.Minigames.Set(name, domain.NewActivityEntry(-1, -1))
			continue
		}
		snap.Minigames.Set(name, domain.NewActivityEntry(v[0], v[1]))
	}
	return &snap, nil
}
