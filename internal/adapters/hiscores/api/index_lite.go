package api

import (
	"fmt"
	"strconv"
	"strings"

	"hiscore-tracker/internal/core/domain"
)

// ParseIndexLite maps index_lite CSV onto the schema. The response must have
// exactly one line per schema entry: skills first as rank,level,experience
// then minigames as rank,score. Fields that are not integers become -1.
// The returned snapshot has no timestamp.
func ParseIndexLite(raw string, schema domain.Schema) (domain.Snapshot, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) != schema.Lines() {
		return domain.Snapshot{}, fmt.Errorf(
			"%w: got %d lines, expected %d",
			domain.ErrSchemaMismatch, len(lines), schema.Lines(),
		)
	}

	var snap domain.Snapshot
	for i, name := range schema.Skills {
		parts := strings.Split(strings.TrimSpace(lines[i]), ",")
		if len(parts) < 3 {
			return domain.Snapshot{}, fmt.Errorf(
				"%w: malformed skill line %d for %q: %s",
				domain.ErrSchemaMismatch, i, name, lines[i],
			)
		}
		snap.Skills.Set(name, domain.NewSkillEntry(field(parts[0]), field(parts[1]), field(parts[2])))
	}

	offset := len(schema.Skills)
	for j, name := range schema.Minigames {
		line := lines[offset+j]
		parts := strings.Split(strings.TrimSpace(line), ",")
		if len(parts) < 2 {
			return domain.Snapshot{}, fmt.Errorf(
				"%w: malformed minigame line %d for %q: %s",
				domain.ErrSchemaMismatch, j, name, line,
			)
		}
		snap.Minigames.Set(name, domain.NewActivityEntry(field(parts[0]), field(parts[1])))
	}

	return snap, nil
}

func field(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return -1
	}
	return v
}
