// Package redis publishes the latest digest and per-category leaderboards
// so other services can read them until the next daily refresh.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hiscore-tracker/internal/adapters/metrics"
	"hiscore-tracker/internal/core/domain"
)

const (
	keyDigest   = "hiscores:digest"
	keySkill    = "hiscores:skill:"
	keyActivity = "hiscores:activity:"

	minTTL = time.Minute
)

type LeaderboardCache struct {
	client redis.Cmdable
}

func NewLeaderboardCache(client redis.Cmdable) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// PublishDigest writes the digest and every leaderboard in one transaction.
// Keys expire at the digest's next refresh.
func (c *LeaderboardCache) PublishDigest(ctx context.Context, digest *domain.Digest) error {
	values, err := digestValues(digest)
	if err != nil {
		metrics.LeaderboardsPublished.WithLabelValues("error").Inc()
		return err
	}
	ttl := digestTTL(digest)

	pipe := c.client.TxPipeline()
	for key, value := range values {
		pipe.Set(ctx, key, value, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.LeaderboardsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("publish leaderboards: %w", err)
	}

	metrics.LeaderboardsPublished.WithLabelValues("success").Inc()
	return nil
}

// LatestDigest returns the last published digest, or domain.ErrNotFound once
// it has expired.
func (c *LeaderboardCache) LatestDigest(ctx context.Context) (*domain.Digest, error) {
	data, err := c.client.Get(ctx, keyDigest).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get digest: %w", err)
	}

	var digest domain.Digest
	if err := json.Unmarshal(data, &digest); err != nil {
		return nil, fmt.Errorf("decode digest: %w", err)
	}
	return &digest, nil
}

// SkillLeaders returns one published skill leaderboard.
func (c *LeaderboardCache) SkillLeaders(ctx context.Context, skill string) ([]domain.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, keySkill+skill).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, skill)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s leaders: %w", skill, err)
	}

	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s leaders: %w", skill, err)
	}
	return entries, nil
}

func digestValues(digest *domain.Digest) (map[string][]byte, error) {
	values := make(map[string][]byte, 1+len(digest.SkillLeaders)+len(digest.ActivityLeaders))

	data, err := json.Marshal(digest)
	if err != nil {
		return nil, fmt.Errorf("encode digest: %w", err)
	}
	values[keyDigest] = data

	for skill, entries := range digest.SkillLeaders {
		if values[keySkill+skill], err = json.Marshal(entries); err != nil {
			return nil, fmt.Errorf("encode %s leaders: %w", skill, err)
		}
	}
	for activity, entries := range digest.ActivityLeaders {
		if values[keyActivity+activity], err = json.Marshal(entries); err != nil {
			return nil, fmt.Errorf("encode %s leaders: %w", activity, err)
		}
	}
	return values, nil
}

func digestTTL(digest *domain.Digest) time.Duration {
	return max(digest.NextRefresh.Sub(digest.GeneratedAt), minTTL)
}
