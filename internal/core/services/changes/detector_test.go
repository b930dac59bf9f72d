package changes

import (
	"testing"

	"hiscore-tracker/internal/core/domain"
	"hiscore-tracker/internal/core/levels"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(skills map[string][2]int64, order []string, minigames map[string]int64, mgOrder []string) domain.Snapshot {
	var s domain.Snapshot
	for _, name := range order {
		v := skills[name]
		s.Skills.Set(name, domain.NewSkillEntry(-1, v[0], v[1]))
	}
	for _, name := range mgOrder {
		s.Minigames.Set(name, domain.NewActivityEntry(-1, minigames[name]))
	}
	return s
}

func TestSkillChanges_SingleLevelUp(t *testing.T) {
	snaps := []domain.Snapshot{
		snapshot(map[string][2]int64{"Cooking": {50, 100}}, []string{"Cooking"}, nil, nil),
		snapshot(map[string][2]int64{"Cooking": {60, 500}}, []string{"Cooking"}, nil, nil),
	}

	x := levels.VirtualLevel(100)
	y := levels.VirtualLevel(500)
	require.Greater(t, y, x)

	got := SkillChanges(snaps)
	assert.Equal(t, []domain.SkillChange{{Skill: "Cooking", OldLevel: x, NewLevel: y, Diff: y - x}}, got)
}

func TestSkillChanges_FewerThanTwoSnapshots(t *testing.T) {
	assert.Empty(t, SkillChanges(nil))
	assert.Empty(t, SkillChanges([]domain.Snapshot{{}}))
	assert.Empty(t, ActivityChanges([]domain.Snapshot{{}}))
}

func TestSkillChanges_NewSkillProducesNoEvent(t *testing.T) {
	snaps := []domain.Snapshot{
		snapshot(map[string][2]int64{"Attack": {10, 1154}}, []string{"Attack"}, nil, nil),
		snapshot(map[string][2]int64{"Attack": {10, 1154}, "Sailing": {40, 40_000}}, []string{"Attack", "Sailing"}, nil, nil),
	}
	assert.Empty(t, SkillChanges(snaps))
}

func TestSkillChanges_UsesLastTwoSnapshotsOnly(t *testing.T) {
	snaps := []domain.Snapshot{
		snapshot(map[string][2]int64{"Attack": {1, 0}}, []string{"Attack"}, nil, nil),
		snapshot(map[string][2]int64{"Attack": {99, 13_034_431}}, []string{"Attack"}, nil, nil),
		snapshot(map[string][2]int64{"Attack": {99, 13_034_431}}, []string{"Attack"}, nil, nil),
	}
	assert.Empty(t, SkillChanges(snaps))
}

func TestSkillChanges_OverallUsesStoredLevel(t *testing.T) {
	snaps := []domain.Snapshot{
		snapshot(map[string][2]int64{"Overall": {1500, 50_000_000}}, []string{"Overall"}, nil, nil),
		snapshot(map[string][2]int64{"Overall": {1503, 50_000_001}}, []string{"Overall"}, nil, nil),
	}
	got := SkillChanges(snaps)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SkillChange{Skill: "Overall", OldLevel: 1500, NewLevel: 1503, Diff: 3}, got[0])
}

func TestSkillChanges_PreservesAfterOrder(t *testing.T) {
	order := []string{"Woodcutting", "Attack", "Magic"}
	before := snapshot(map[string][2]int64{"Woodcutting": {1, 0}, "Attack": {1, 0}, "Magic": {1, 0}}, order, nil, nil)
	after := snapshot(map[string][2]int64{"Woodcutting": {2, 83}, "Attack": {2, 83}, "Magic": {2, 83}}, order, nil, nil)

	got := SkillChanges([]domain.Snapshot{before, after})
	require.Len(t, got, 3)
	for i, name := range order {
		assert.Equal(t, name, got[i].Skill)
	}
}

func TestSkillChanges_IgnoresDecreases(t *testing.T) {
	snaps := []domain.Snapshot{
		snapshot(map[string][2]int64{"Attack": {50, 101_333}}, []string{"Attack"}, nil, nil),
		snapshot(map[string][2]int64{"Attack": {40, 40_000}}, []string{"Attack"}, nil, nil),
	}
	assert.Empty(t, SkillChanges(snaps))
}

func TestActivityChanges(t *testing.T) {
	before := snapshot(nil, nil, map[string]int64{"Zulrah": 10, "Vorkath": 5}, []string{"Zulrah", "Vorkath"})
	after := snapshot(nil, nil, map[string]int64{"Vorkath": 5, "Zulrah": 14, "Clue Scrolls (all)": 3, "Barrows": 0}, []string{"Vorkath", "Zulrah", "Clue Scrolls (all)", "Barrows"})

	got := ActivityChanges([]domain.Snapshot{before, after})
	assert.Equal(t, []domain.ActivityChange{
		{Name: "Zulrah", OldScore: 10, NewScore: 14, Diff: 4},
		{Name: "Clue Scrolls (all)", OldScore: 0, NewScore: 3, Diff: 3},
	}, got)
}

func TestDetect(t *testing.T) {
	rec := &domain.PlayerRecord{
		PlayerName: "Alice",
		Snapshots: []domain.Snapshot{
			snapshot(map[string][2]int64{"Attack": {1, 0}}, []string{"Attack"}, map[string]int64{"Zulrah": 1}, []string{"Zulrah"}),
			snapshot(map[string][2]int64{"Attack": {2, 83}}, []string{"Attack"}, map[string]int64{"Zulrah": 2}, []string{"Zulrah"}),
		},
	}

	got := Detect(rec)
	assert.Equal(t, "Alice", got.Player)
	assert.Len(t, got.Skills, 1)
	assert.Len(t, got.Activities, 1)
	assert.False(t, got.Empty())
	assert.True(t, Detect(nil).Empty())
}
