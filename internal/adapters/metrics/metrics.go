package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlayerResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hiscore_tracker_player_resolutions_total",
		Help: "Snapshot store resolutions by outcome",
	}, []string{"outcome"})

	ProviderFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hiscore_tracker_provider_fetches_total",
		Help: "Data provider lookups by result",
	}, []string{"result"})

	TrackedLevelUps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hiscore_tracker_level_ups_total",
		Help: "The total number of detected skill level ups",
	})

	TrackedScoreIncreases = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hiscore_tracker_score_increases_total",
		Help: "The total number of detected activity score increases",
	})

	SnapshotsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hiscore_tracker_snapshots_appended_total",
		Help: "The total number of snapshots written",
	})

	SnapshotsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hiscore_tracker_snapshots_pruned_total",
		Help: "The total number of snapshots removed by retention",
	})

	CollectionRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hiscore_tracker_collection_runs_total",
		Help: "Collection runs by status",
	}, []string{"status"})

	CollectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hiscore_tracker_collection_duration_seconds",
		Help:    "Duration of a full collection run",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	HiscoresRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hiscores_request_duration_seconds",
		Help:    "Duration of hiscores requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	HiscoresRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hiscores_requests_total",
		Help: "Total number of hiscores requests",
	}, []string{"endpoint", "status"})

	WOMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiseoldman_requests_total",
		Help: "Total number of Wise Old Man API requests",
	}, []string{"status"})

	DiscordMessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discord_messages_sent_total",
		Help: "Total number of Discord messages sent",
	}, []string{"channel_type", "status"})

	LeaderboardsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hiscore_tracker_leaderboards_published_total",
		Help: "Leaderboard publications to the shared cache by status",
	}, []string{"status"})
)
