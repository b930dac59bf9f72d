package ports

import (
	"context"
	"time"

	"hiscore-tracker/internal/core/domain"
)

// DataProvider returns the raw stored document for one lookup key.
type DataProvider interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

type PlayerListProvider interface {
	ListPlayers(ctx context.Context) ([]string, error)
}

type SnapshotRepository interface {
	DataProvider
	PlayerListProvider
	SavePlayers(ctx context.Context, names []string) error
	AppendSnapshot(ctx context.Context, name string, snap domain.Snapshot) error
	PruneSnapshots(ctx context.Context, name string, cutoff time.Time, minKeep int) (int64, error)
	Close()
}

type HiscoresFetcher interface {
	FetchSnapshot(ctx context.Context, name string) (*domain.Snapshot, error)
	FetchSnapshots(ctx context.Context, names []string) (<-chan domain.FetchResult, error)
}

type GroupMembersFetcher interface {
	FetchGroupMembers(ctx context.Context, groupID int) ([]string, error)
}

type DigestPublisher interface {
	PublishDigest(ctx context.Context, digest *domain.Digest) error
}
