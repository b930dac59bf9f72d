package collector

import (
	"context"
	"sync"
	"time"

	"hiscore-tracker/internal/core/domain"
)

type appendCall struct {
	name string
	snap domain.Snapshot
}

type mockStorage struct {
	mu sync.Mutex

	listPlayersFunc    func(ctx context.Context) ([]string, error)
	savePlayersFunc    func(ctx context.Context, names []string) error
	appendSnapshotFunc func(ctx context.Context, name string, snap domain.Snapshot) error
	pruneSnapshotsFunc func(ctx context.Context, name string, cutoff time.Time, minKeep int) (int64, error)

	saved    []string
	appended []appendCall
}

func (m *mockStorage) Fetch(ctx context.Context, key string) ([]byte, error) {
	return nil, domain.ErrNotFound
}

func (m *mockStorage) ListPlayers(ctx context.Context) ([]string, error) {
	if m.listPlayersFunc != nil {
		return m.listPlayersFunc(ctx)
	}
	return nil, nil
}

func (m *mockStorage) SavePlayers(ctx context.Context, names []string) error {
	m.mu.Lock()
	m.saved = append([]string(nil), names...)
	m.mu.Unlock()
	if m.savePlayersFunc != nil {
		return m.savePlayersFunc(ctx, names)
	}
	return nil
}

func (m *mockStorage) AppendSnapshot(ctx context.Context, name string, snap domain.Snapshot) error {
	if m.appendSnapshotFunc != nil {
		if err := m.appendSnapshotFunc(ctx, name, snap); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.appended = append(m.appended, appendCall{name: name, snap: snap})
	m.mu.Unlock()
	return nil
}

func (m *mockStorage) PruneSnapshots(ctx context.Context, name string, cutoff time.Time, minKeep int) (int64, error) {
	if m.pruneSnapshotsFunc != nil {
		return m.pruneSnapshotsFunc(ctx, name, cutoff, minKeep)
	}
	return 0, nil
}

func (m *mockStorage) Close() {}

type mockFetcher struct {
	fetchSnapshotFunc func(ctx context.Context, name string) (*domain.Snapshot, error)
	requested         []string
}

func (m *mockFetcher) FetchSnapshot(ctx context.Context, name string) (*domain.Snapshot, error) {
	if m.fetchSnapshotFunc != nil {
		return m.fetchSnapshotFunc(ctx, name)
	}
	return &domain.Snapshot{}, nil
}

// FetchSnapshots runs sequentially so tests see a deterministic order.
func (m *mockFetcher) FetchSnapshots(ctx context.Context, names []string) (<-chan domain.FetchResult, error) {
	m.requested = append([]string(nil), names...)
	ch := make(chan domain.FetchResult, len(names))
	for _, name := range names {
		snap, err := m.FetchSnapshot(ctx, name)
		ch <- domain.FetchResult{Name: name, Snapshot: snap, Err: err}
	}
	close(ch)
	return ch, nil
}

type mockGroups struct {
	fetchGroupMembersFunc func(ctx context.Context, groupID int) ([]string, error)
}

func (m *mockGroups) FetchGroupMembers(ctx context.Context, groupID int) ([]string, error) {
	if m.fetchGroupMembersFunc != nil {
		return m.fetchGroupMembersFunc(ctx, groupID)
	}
	return nil, nil
}
