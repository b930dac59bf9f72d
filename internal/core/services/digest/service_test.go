package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"hiscore-tracker/internal/config"
	"hiscore-tracker/internal/core/domain"
	"hiscore-tracker/internal/core/services/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceDoc = `{"player_name": "Alice", "snapshots": [
		{"timestamp": "2024-05-01T06:00:00Z",
		 "skills": {"Overall": {"level": 100, "experience": 50000, "rank": 900}, "Attack": {"level": 40, "experience": 40000, "rank": 500}},
		 "minigames": {"Zulrah": {"score": 10, "rank": 80}}},
		{"timestamp": "2024-05-02T06:00:00Z",
		 "skills": {"Overall": {"level": 110, "experience": 120000, "rank": 850}, "Attack": {"level": 50, "experience": 101333, "rank": 400}},
		 "minigames": {"Zulrah": {"score": 14, "rank": 70}, "Barrows": {"score": 0, "rank": -1}}}
	]}`
	bobDoc = `{"player_name": "Bob", "snapshots": [
		{"timestamp": "2024-05-02T06:00:00Z",
		 "skills": {"Attack": {"level": 99, "experience": 13034431, "rank": 3}, "Sailing": {"level": 2, "experience": 83, "rank": -1}, "Overall": {"level": 500, "experience": 14000000, "rank": 100}},
		 "minigames": {"Barrows": {"score": 0, "rank": -1}}}
	]}`
	emptyDoc = `{"player_name": "Empty", "snapshots": []}`
)

var testSchema = domain.Schema{
	Skills:    []string{"Overall", "Attack", "Defence"},
	Minigames: []string{"Barrows", "Zulrah"},
}

func newTestService(names []string, publishers ...*mockPublisher) *Service {
	deps := Dependencies{
		Config: &config.Config{TopN: 5, WorkerPoolSize: 2, RefreshHour: 6},
		Players: &mockPlayers{listPlayersFunc: func(ctx context.Context) ([]string, error) {
			return names, nil
		}},
		Provider: &mockProvider{docs: map[string]string{
			"Alice": aliceDoc,
			"bob":   bobDoc,
			"Empty": emptyDoc,
		}},
		Schema: testSchema,
		Now: func() time.Time {
			return time.Date(2024, 5, 2, 7, 30, 0, 0, time.UTC)
		},
	}
	for _, p := range publishers {
		deps.Publishers = append(deps.Publishers, p)
	}
	return NewService(deps)
}

func TestBuild(t *testing.T) {
	svc := newTestService([]string{"Alice", "Bob", "Ghost", "Empty"})

	d, err := svc.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 2, 7, 30, 0, 0, time.UTC), d.GeneratedAt)
	assert.Equal(t, time.Date(2024, 5, 3, 6, 0, 0, 0, time.UTC), d.NextRefresh)
	assert.Equal(t, []string{"Ghost", "Empty"}, d.Excluded)

	assert.Equal(t, []string{"Overall", "Attack", "Sailing"}, d.SkillOrder, "schema order first, then unknown skills")
	attack := d.SkillLeaders["Attack"]
	require.Len(t, attack, 2)
	assert.Equal(t, "Bob", attack[0].Player)
	assert.Equal(t, int64(99), attack[0].Value)
	assert.Equal(t, "Alice", attack[1].Player)

	assert.Equal(t, []string{"Zulrah"}, d.ActivityOrder, "activities without a positive score are omitted")
	assert.NotContains(t, d.ActivityLeaders, "Barrows")

	require.Len(t, d.Changes, 1)
	assert.Equal(t, "Alice", d.Changes[0].Player)
	assert.Equal(t, []domain.ActivityChange{{Name: "Zulrah", OldScore: 10, NewScore: 14, Diff: 4}}, d.Changes[0].Activities)
	require.Len(t, d.Changes[0].Skills, 2)
	assert.Equal(t, domain.SkillChange{Skill: "Overall", OldLevel: 100, NewLevel: 110, Diff: 10}, d.Changes[0].Skills[0])
	assert.Equal(t, "Attack", d.Changes[0].Skills[1].Skill)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		players func(ctx context.Context) ([]string, error)
		wantErr error
	}{
		{
			name:    "empty player list",
			players: func(ctx context.Context) ([]string, error) { return nil, nil },
			wantErr: domain.ErrNoPlayers,
		},
		{
			name:    "nobody resolves",
			players: func(ctx context.Context) ([]string, error) { return []string{"Ghost", "Empty"}, nil },
			wantErr: domain.ErrAllPlayersFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(nil)
			svc.players = &mockPlayers{listPlayersFunc: tt.players}

			_, err := svc.Build(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("list failure is wrapped", func(t *testing.T) {
		boom := errors.New("disk gone")
		svc := newTestService(nil)
		svc.players = &mockPlayers{listPlayersFunc: func(ctx context.Context) ([]string, error) {
			return nil, boom
		}}

		_, err := svc.Build(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "list players")
	})
}

func TestBuild_SeesNewDataOnEachCall(t *testing.T) {
	provider := &mockProvider{docs: map[string]string{}}
	svc := newTestService([]string{"Alice"})
	svc.provider = provider

	_, err := svc.Build(context.Background())
	require.ErrorIs(t, err, domain.ErrAllPlayersFailed)

	provider.docs["Alice"] = aliceDoc
	d, err := svc.Build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, d.Excluded)
}

func TestBuild_ResolvesEachPlayerOnce(t *testing.T) {
	provider := &mockProvider{docs: map[string]string{"Alice": aliceDoc, "bob": bobDoc}}
	svc := newTestService([]string{"Alice", "Bob", "Ghost"})
	svc.provider = provider

	_, err := svc.Build(context.Background())
	require.NoError(t, err)

	for key, n := range provider.calls {
		assert.Equal(t, 1, n, "key %q fetched more than once", key)
	}
	assert.Equal(t, 1, provider.calls["Alice"])
	assert.Equal(t, 1, provider.calls["ghost"], "misses are cached too")
}

func TestBuild_InvalidLimit(t *testing.T) {
	svc := newTestService([]string{"Alice"})
	svc.config.TopN = 0

	_, err := svc.Build(context.Background())
	assert.ErrorIs(t, err, ranking.ErrInvalidLimit)
}

func TestRun_PublishesToAll(t *testing.T) {
	first := &mockPublisher{publishDigestFunc: func(ctx context.Context, d *domain.Digest) error {
		return errors.New("discord down")
	}}
	second := &mockPublisher{}
	svc := newTestService([]string{"Alice", "Bob"}, first, second)

	d, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord down")
	require.NotNil(t, d)

	require.Len(t, first.published, 1)
	require.Len(t, second.published, 1)
	assert.Same(t, d, second.published[0])
}

func TestRun_BuildFailureSkipsPublishers(t *testing.T) {
	pub := &mockPublisher{}
	svc := newTestService(nil, pub)

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoPlayers)
	assert.Empty(t, pub.published)
}

func TestCategoryOrder(t *testing.T) {
	boards := map[string][]domain.LeaderboardEntry{
		"Attack":  {{Player: "a"}},
		"Sailing": {{Player: "a"}},
		"Overall": {{Player: "a"}},
	}
	got := categoryOrder([]string{"Overall", "Defence", "Attack"}, []string{"Sailing", "Attack", "Unused"}, boards)
	assert.Equal(t, []string{"Overall", "Attack", "Sailing"}, got)
}
