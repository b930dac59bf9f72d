// Package levels converts skill experience into virtual levels.
package levels

import (
	"math"
	"sort"

	"hiscore-tracker/internal/core/domain"
)

// MaxLevel is the highest virtual level.
const MaxLevel = 126

var thresholds = buildThresholds()

func buildThresholds() [MaxLevel + 1]int64 {
	var table [MaxLevel + 1]int64
	var points int64
	for lvl := 2; lvl <= MaxLevel; lvl++ {
		n := float64(lvl - 1)
		points += int64(math.Floor(n + 300*math.Pow(2, n/7)))
		table[lvl] = points / 4
	}
	return table
}

// Threshold returns the experience required for lvl, or 0 outside [1, MaxLevel].
func Threshold(lvl int) int64 {
	if lvl < 1 || lvl > MaxLevel {
		return 0
	}
	return thresholds[lvl]
}

// VirtualLevel returns the greatest level whose threshold xp reaches.
// xp must be non-negative.
func VirtualLevel(xp int64) int {
	// Count of levels 1..MaxLevel with threshold <= xp.
	n := sort.Search(MaxLevel, func(i int) bool {
		return thresholds[i+1] > xp
	})
	return max(n, 1)
}

// DisplayedLevel keeps the server level for the Overall skill and derives
// every other skill's level from experience.
func DisplayedLevel(skill string, storedLevel int, storedXP int64) int {
	if skill == domain.OverallSkill {
		return storedLevel
	}
	return VirtualLevel(storedXP)
}
