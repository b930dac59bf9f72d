package digest

import (
	"context"
	"errors"
	"sync"

	"hiscore-tracker/internal/core/domain"
)

type mockPlayers struct {
	listPlayersFunc func(ctx context.Context) ([]string, error)
}

func (m *mockPlayers) ListPlayers(ctx context.Context) ([]string, error) {
	if m.listPlayersFunc != nil {
		return m.listPlayersFunc(ctx)
	}
	return nil, nil
}

type mockProvider struct {
	docs  map[string]string
	mu    sync.Mutex
	calls map[string]int
}

func (m *mockProvider) Fetch(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[key]++
	m.mu.Unlock()
	if doc, ok := m.docs[key]; ok {
		return []byte(doc), nil
	}
	return nil, errors.New("not stored")
}

type mockPublisher struct {
	publishDigestFunc func(ctx context.Context, d *domain.Digest) error
	published         []*domain.Digest
}

func (m *mockPublisher) PublishDigest(ctx context.Context, d *domain.Digest) error {
	m.published = append(m.published, d)
	if m.publishDigestFunc != nil {
		return m.publishDigestFunc(ctx, d)
	}
	return nil
}
