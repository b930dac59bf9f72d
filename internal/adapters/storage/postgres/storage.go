package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"hiscore-tracker/internal/adapters/storage/postgres/db"
	"hiscore-tracker/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrFileKeyConflict means two distinct player names map to the same file
// key, for example "A B" and "A_B".
var ErrFileKeyConflict = errors.New("player file key already taken")

type PostgresStore struct {
	pool *pgxpool.Pool
	q    *db.Queries
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{
		pool: pool,
		q:    db.New(pool),
	}
	if err := store.q.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// -- Data Provider Methods --

// Fetch returns the player document stored under key, in the same shape the
// file store serves.
func (s *PostgresStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.q.GetPlayerDocument(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get player document: %w", err)
	}
	return []byte(doc), nil
}

// -- Player Index Methods --

func (s *PostgresStore) ListPlayers(ctx context.Context) ([]string, error) {
	names, err := s.q.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return names, nil
}

// SavePlayers replaces the listed player index with names, in order.
func (s *PostgresStore) SavePlayers(ctx context.Context, names []string) error {
	if names == nil {
		names = []string{}
	}
	if err := s.q.SavePlayers(ctx, names); err != nil {
		if isFileKeyConflict(err) {
			return fmt.Errorf("save players: %w: %v", ErrFileKeyConflict, err)
		}
		return fmt.Errorf("save players: %w", err)
	}
	return nil
}

// -- Snapshot Methods --

func (s *PostgresStore) AppendSnapshot(ctx context.Context, name string, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	fileKey := strings.ReplaceAll(name, " ", "_")
	if err := s.q.EnsurePlayer(ctx, db.EnsurePlayerParams{
		Name:    name,
		FileKey: fileKey,
	}); err != nil {
		if isFileKeyConflict(err) {
			return fmt.Errorf("%w: %q maps to %q", ErrFileKeyConflict, name, fileKey)
		}
		return fmt.Errorf("ensure player: %w", err)
	}

	if err := s.q.InsertSnapshot(ctx, db.InsertSnapshotParams{
		PlayerName: name,
		TakenAt:    snap.Timestamp.UTC(),
		Data:       string(data),
	}); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) PruneSnapshots(ctx context.Context, name string, cutoff time.Time, minKeep int) (int64, error) {
	tag, err := s.q.PruneSnapshots(ctx, db.PruneSnapshotsParams{
		PlayerName: name,
		Cutoff:     cutoff.UTC(),
		MinKeep:    int32(min(max(minKeep, 0), math.MaxInt32)),
	})
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

func isFileKeyConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23505" && // unique_violation
		pgErr.ConstraintName == db.FileKeyConstraint
}
