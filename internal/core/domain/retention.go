package domain

import (
	"sort"
	"time"
)

// PruneSnapshots orders snapshots by capture time and drops those older than
// cutoff, always keeping the newest minKeep.
func PruneSnapshots(snaps []Snapshot, cutoff time.Time, minKeep int) ([]Snapshot, int) {
	sorted := make([]Snapshot, len(snaps))
	copy(sorted, snaps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	keepFrom := len(sorted) - minKeep
	kept := make([]Snapshot, 0, len(sorted))
	for i, s := range sorted {
		if i >= keepFrom || !s.Timestamp.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	return kept, len(sorted) - len(kept)
}
