package formatting

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"hiscore-tracker/internal/core/domain"
	"hiscore-tracker/internal/core/services/refresh"
)

// MaxMessageLength is Discord's limit for a single message.
const MaxMessageLength = 2000

const (
	MsgNoChanges     = "No level ups or new kills since the last snapshot."
	MsgNoLeaderboard = "No leaderboard data available."
)

var printer = message.NewPrinter(language.English)

// Number formats n with thousands separators.
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

func MsgHeader(generatedAt, nextRefresh, now time.Time) string {
	return fmt.Sprintf(
		"**Hiscores digest** (updated %s, next refresh %s at <t:%d:t>)",
		refresh.RelativeAgo(generatedAt, now),
		refresh.RelativeUntil(nextRefresh, now),
		nextRefresh.Unix(),
	)
}

func MsgLeaderboard(category string, entries []domain.LeaderboardEntry) string {
	parts := make([]string, 0, len(entries))
	for i, e := range entries {
		parts = append(parts, fmt.Sprintf("%d. %s (%s)", i+1, e.Player, Number(e.Value)))
	}
	return fmt.Sprintf("**%s**: %s", category, strings.Join(parts, " "))
}

func MsgPlayerChanges(c domain.PlayerChanges) string {
	parts := make([]string, 0, len(c.Skills)+len(c.Activities))
	for _, s := range c.Skills {
		parts = append(parts, fmt.Sprintf("%s %d → %d (+%d)", s.Skill, s.OldLevel, s.NewLevel, s.Diff))
	}
	for _, a := range c.Activities {
		parts = append(parts, fmt.Sprintf("%s +%s", a.Name, Number(a.Diff)))
	}
	return fmt.Sprintf("**%s**: %s", c.Player, strings.Join(parts, ", "))
}

func MsgExcluded(names []string) string {
	return fmt.Sprintf("_No data for: %s_", strings.Join(names, ", "))
}

// DigestLines renders a digest as Discord markdown lines.
func DigestLines(d *domain.Digest, now time.Time) []string {
	lines := []string{MsgHeader(d.GeneratedAt, d.NextRefresh, now), "", "__Skills__"}

	skills := 0
	for _, skill := range d.SkillOrder {
		if entries := d.SkillLeaders[skill]; len(entries) > 0 {
			lines = append(lines, MsgLeaderboard(skill, entries))
			skills++
		}
	}
	if skills == 0 {
		lines = append(lines, MsgNoLeaderboard)
	}

	activities := make([]string, 0, len(d.ActivityOrder))
	for _, name := range d.ActivityOrder {
		if entries := d.ActivityLeaders[name]; len(entries) > 0 {
			activities = append(activities, MsgLeaderboard(name, entries))
		}
	}
	if len(activities) > 0 {
		lines = append(lines, "", "__Activities__")
		lines = append(lines, activities...)
	}

	lines = append(lines, "", "__Since last snapshot__")
	changed := 0
	for _, c := range d.Changes {
		if !c.Empty() {
			lines = append(lines, MsgPlayerChanges(c))
			changed++
		}
	}
	if changed == 0 {
		lines = append(lines, MsgNoChanges)
	}

	if len(d.Excluded) > 0 {
		lines = append(lines, "", MsgExcluded(d.Excluded))
	}
	return lines
}

// Chunk joins lines into messages no longer than limit. A single line over
// the limit is cut.
func Chunk(lines []string, limit int) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if msg := strings.Trim(cur.String(), "\n"); msg != "" {
			out = append(out, msg)
		}
		cur.Reset()
	}

	for _, line := range lines {
		if len(line) > limit {
			line = truncate(line, limit)
		}
		if cur.Len()+len(line)+1 > limit {
			flush()
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	flush()
	return out
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	const ellipsis = "…"
	cut := limit - len(ellipsis)
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
