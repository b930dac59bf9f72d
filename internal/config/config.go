package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// DefaultWOMGroupID is the clan group tracked out of the box. Set
// WOM_GROUP_ID=0 to skip the group lookup.
const DefaultWOMGroupID = 10348

// DefaultPlayers is the last-resort player list when neither the group nor
// the stored index yields names.
var DefaultPlayers = []string{"vaOPA", "vaPEEXI", "vaRautaMake", "vaROSQIS"}

type Config struct {
	StorageBackend string
	DataDir        string
	DatabaseURL    string
	FeedBaseURL    string
	RedisURL       string

	Token                string
	DiscordGuildID       string
	DiscordChannelDigest string

	SchemaPath      string
	HiscoresBaseURL string
	HiscoresRate    time.Duration
	HTMLFallback    bool
	WOMBaseURL      string
	WOMGroupID      int
	DefaultPlayers  []string

	RefreshHour     int
	RefreshTimezone string
	Location        *time.Location

	TopN           int
	WorkerPoolSize int
	KeepDays       int
	MinKeep        int

	MetricsAddr string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	token := readSecret("discord_token")
	if token == "" {
		token = os.Getenv("DISCORD_TOKEN")
	}

	dbURL := readSecret("database_url")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	cfg := &Config{
		StorageBackend:       strings.ToLower(envString("STORAGE_BACKEND", BackendFile)),
		DataDir:              envString("DATA_DIR", "docs/data"),
		DatabaseURL:          dbURL,
		FeedBaseURL:          envString("FEED_BASE_URL", ""),
		RedisURL:             envString("REDIS_URL", ""),
		Token:                token,
		DiscordGuildID:       envString("DISCORD_GUILD_ID", ""),
		DiscordChannelDigest: envString("DISCORD_CHANNEL_DIGEST", "hiscores"),
		SchemaPath:           envString("SCHEMA_PATH", ""),
		HiscoresBaseURL:      envString("HISCORES_BASE_URL", "https://secure.runescape.com/m=hiscore_oldschool"),
		HiscoresRate:         envDuration("HISCORES_RATE", 500*time.Millisecond),
		HTMLFallback:         envBool("HISCORES_HTML_FALLBACK", true),
		WOMBaseURL:           envString("WOM_BASE_URL", "https://api.wiseoldman.net/v2"),
		WOMGroupID:           envInt("WOM_GROUP_ID", DefaultWOMGroupID),
		DefaultPlayers:       envList("DEFAULT_PLAYERS", DefaultPlayers),
		RefreshHour:          envInt("REFRESH_HOUR", 6),
		RefreshTimezone:      envString("REFRESH_TIMEZONE", "Europe/Helsinki"),
		TopN:                 envInt("TOP_N", 5),
		WorkerPoolSize:       envInt("WORKER_POOL_SIZE", 10),
		KeepDays:             envInt("KEEP_DAYS", 7),
		MinKeep:              envInt("MIN_KEEP", 30),
		MetricsAddr:          envString("METRICS_ADDR", ":9090"),
	}

	loc, err := time.LoadLocation(cfg.RefreshTimezone)
	if err != nil {
		return nil, fmt.Errorf("REFRESH_TIMEZONE %q: %w", cfg.RefreshTimezone, err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DiscordEnabled reports whether digests should be posted to Discord.
func (c *Config) DiscordEnabled() bool {
	return c.Token != ""
}

var secretsDir = "/run/secrets/"

func readSecret(name string) string {
	data, err := os.ReadFile(secretsDir + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envList splits a comma separated value, dropping blank items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return slices.Clone(fallback)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
