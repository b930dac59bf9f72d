package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OverallSkill carries a server-computed composite level.
const OverallSkill = "Overall"

const timestampLayout = "2006-01-02T15:04:05Z"

type SkillEntry struct {
	Level      int
	Experience int64
	Rank       *int64
}

type ActivityEntry struct {
	Score int64
	Rank  *int64
}

// NewSkillEntry normalizes raw hiscores values: a rank <= 0 means unranked,
// negative level and experience collapse to 0.
func NewSkillEntry(rank, level, experience int64) SkillEntry {
	return SkillEntry{
		Level:      int(max(level, 0)),
		Experience: max(experience, 0),
		Rank:       normalizeRank(rank),
	}
}

func NewActivityEntry(rank, score int64) ActivityEntry {
	return ActivityEntry{
		Score: max(score, 0),
		Rank:  normalizeRank(rank),
	}
}

func normalizeRank(rank int64) *int64 {
	if rank <= 0 {
		return nil
	}
	return &rank
}

type skillEntryJSON struct {
	Level      int64  `json:"level"`
	Experience int64  `json:"experience"`
	Rank       *int64 `json:"rank"`
}

func (e *SkillEntry) UnmarshalJSON(data []byte) error {
	var raw skillEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rank := int64(-1)
	if raw.Rank != nil {
		rank = *raw.Rank
	}
	*e = NewSkillEntry(rank, raw.Level, raw.Experience)
	return nil
}

func (e SkillEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(skillEntryJSON{
		Level:      int64(e.Level),
		Experience: e.Experience,
		Rank:       e.Rank,
	})
}

type activityEntryJSON struct {
	Score int64  `json:"score"`
	Rank  *int64 `json:"rank"`
}

func (e *ActivityEntry) UnmarshalJSON(data []byte) error {
	var raw activityEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rank := int64(-1)
	if raw.Rank != nil {
		rank = *raw.Rank
	}
	*e = NewActivityEntry(rank, raw.Score)
	return nil
}

func (e ActivityEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(activityEntryJSON{Score: e.Score, Rank: e.Rank})
}

// Snapshot is one capture of a player's hiscores. Skills and Minigames keep
// the key order they were captured or decoded in.
type Snapshot struct {
	Timestamp time.Time
	Skills    OrderedMap[SkillEntry]
	Minigames OrderedMap[ActivityEntry]
}

type snapshotJSON struct {
	Timestamp        string                    `json:"timestamp"`
	Skills           OrderedMap[SkillEntry]    `json:"skills"`
	Minigames        OrderedMap[ActivityEntry] `json:"minigames"`
	CustomCategories map[string]any            `json:"custom_categories"`
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Snapshot{
		Timestamp: ParseTimestamp(raw.Timestamp),
		Skills:    raw.Skills,
		Minigames: raw.Minigames,
	}
	return nil
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	ts := ""
	if !s.Timestamp.IsZero() {
		ts = s.Timestamp.UTC().Format(timestampLayout)
	}
	return json.Marshal(snapshotJSON{
		Timestamp:        ts,
		Skills:           s.Skills,
		Minigames:        s.Minigames,
		CustomCategories: map[string]any{},
	})
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO-8601 timestamps (read as
// UTC). Unparseable values yield the zero time.
func ParseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC()
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

type PlayerRecord struct {
	PlayerName string     `json:"player_name"`
	Snapshots  []Snapshot `json:"snapshots"`
}

// Latest returns the last snapshot in capture order.
func (r *PlayerRecord) Latest() (Snapshot, bool) {
	if r == nil || len(r.Snapshots) == 0 {
		return Snapshot{}, false
	}
	return r.Snapshots[len(r.Snapshots)-1], true
}

// ParsePlayerRecord decodes a stored player document. Absent maps decode as
// empty; only structurally invalid JSON is an error.
func ParsePlayerRecord(data []byte) (*PlayerRecord, error) {
	var rec PlayerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode player record: %w", err)
	}
	return &rec, nil
}

type LeaderboardEntry struct {
	Player string `json:"player"`
	Value  int64  `json:"value"`
	Rank   *int64 `json:"rank"`
}

type SkillChange struct {
	Skill    string `json:"skill"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
	Diff     int    `json:"diff"`
}

type ActivityChange struct {
	Name     string `json:"name"`
	OldScore int64  `json:"old_score"`
	NewScore int64  `json:"new_score"`
	Diff     int64  `json:"diff"`
}

type PlayerChanges struct {
	Player     string           `json:"player"`
	Skills     []SkillChange    `json:"skills"`
	Activities []ActivityChange `json:"activities"`
}

func (c PlayerChanges) Empty() bool {
	return len(c.Skills) == 0 && len(c.Activities) == 0
}

// Digest is the output of one aggregation run.
type Digest struct {
	GeneratedAt     time.Time                     `json:"generated_at"`
	NextRefresh     time.Time                     `json:"next_refresh"`
	SkillOrder      []string                      `json:"skill_order"`
	SkillLeaders    map[string][]LeaderboardEntry `json:"skill_leaders"`
	ActivityOrder   []string                      `json:"activity_order"`
	ActivityLeaders map[string][]LeaderboardEntry `json:"activity_leaders"`
	Changes         []PlayerChanges               `json:"changes"`
	Excluded        []string                      `json:"excluded"`
}

// Schema lists hiscores rows in response order.
type Schema struct {
	Skills    []string
	Minigames []string
}

func (s Schema) Lines() int {
	return len(s.Skills) + len(s.Minigames)
}

// FetchResult is one player's outcome from a concurrent hiscores fetch.
type FetchResult struct {
	Name     string
	Snapshot *Snapshot
	Err      error
}
