package db

import "context"

// Snapshot payloads are stored as json, not jsonb, so skill and minigame
// key order survives the round trip.
const migrate = `
CREATE TABLE IF NOT EXISTS players (
    name       TEXT PRIMARY KEY,
    file_key   TEXT NOT NULL UNIQUE,
    position   INTEGER NOT NULL DEFAULT 0,
    listed     BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshots (
    id          BIGSERIAL PRIMARY KEY,
    player_name TEXT NOT NULL REFERENCES players (name) ON DELETE CASCADE,
    taken_at    TIMESTAMPTZ NOT NULL,
    data        JSON NOT NULL
);

CREATE INDEX IF NOT EXISTS snapshots_player_taken_at_idx ON snapshots (player_name, taken_at);
`

// FileKeyConstraint is the unique index Postgres names for players.file_key.
const FileKeyConstraint = "players_file_key_key"

func (q *Queries) Migrate(ctx context.Context) error {
	_, err := q.db.Exec(ctx, migrate)
	return err
}
