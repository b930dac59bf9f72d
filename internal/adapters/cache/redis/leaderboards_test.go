package redis

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiscore-tracker/internal/core/domain"
)

func rank(v int64) *int64 { return &v }

func testDigest() *domain.Digest {
	generated := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Digest{
		GeneratedAt: generated,
		NextRefresh: generated.Add(18 * time.Hour),
		SkillOrder:  []string{"Attack"},
		SkillLeaders: map[string][]domain.LeaderboardEntry{
			"Attack": {{Player: "Zezima", Value: 99, Rank: rank(3)}, {Player: "Woox", Value: 99}},
		},
		ActivityOrder: []string{"Zulrah"},
		ActivityLeaders: map[string][]domain.LeaderboardEntry{
			"Zulrah": {{Player: "Woox", Value: 5000, Rank: rank(1)}},
		},
	}
}

func TestDigestValues(t *testing.T) {
	values, err := digestValues(testDigest())
	require.NoError(t, err)
	require.Len(t, values, 3)

	var attack []domain.LeaderboardEntry
	require.NoError(t, json.Unmarshal(values["hiscores:skill:Attack"], &attack))
	require.Len(t, attack, 2)
	assert.Equal(t, "Zezima", attack[0].Player)
	assert.Nil(t, attack[1].Rank)

	assert.Contains(t, values, "hiscores:activity:Zulrah")
	assert.Contains(t, string(values[keyDigest]), `"next_refresh":"2024-05-11T03:00:00Z"`)
}

func TestDigestTTL(t *testing.T) {
	d := testDigest()
	assert.Equal(t, 18*time.Hour, digestTTL(d))

	d.NextRefresh = d.GeneratedAt.Add(-time.Hour)
	assert.Equal(t, minTTL, digestTTL(d))
}

// Runs against a real server when REDIS_TEST_URL is set.
func TestLeaderboardCache_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	cache := NewLeaderboardCache(client)
	require.NoError(t, cache.PublishDigest(ctx, testDigest()))

	got, err := cache.LatestDigest(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Attack"}, got.SkillOrder)

	leaders, err := cache.SkillLeaders(ctx, "Attack")
	require.NoError(t, err)
	assert.Len(t, leaders, 2)

	_, err = cache.SkillLeaders(ctx, "Not A Skill")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ttl, err := client.TTL(ctx, keyDigest).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Hour)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url")
	assert.Error(t, err)
}
