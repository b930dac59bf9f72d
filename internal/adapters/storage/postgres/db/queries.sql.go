package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const getPlayerDocument = `-- name: GetPlayerDocument :one
SELECT json_build_object(
    'player_name', p.name,
    'snapshots', COALESCE(
        (SELECT json_agg(s.data ORDER BY s.taken_at, s.id) FROM snapshots s WHERE s.player_name = p.name),
        '[]'::json
    )
)::text
FROM players p
WHERE p.file_key = $1
`

func (q *Queries) GetPlayerDocument(ctx context.Context, fileKey string) (string, error) {
	row := q.db.QueryRow(ctx, getPlayerDocument, fileKey)
	var document string
	err := row.Scan(&document)
	return document, err
}

const listPlayers = `-- name: ListPlayers :many
SELECT name FROM players
WHERE listed
ORDER BY position, name
`

func (q *Queries) ListPlayers(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listPlayers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const savePlayers = `-- name: SavePlayers :exec
WITH input AS (
    SELECT t.name, t.ord
    FROM unnest($1::text[]) WITH ORDINALITY AS t(name, ord)
), upserted AS (
    INSERT INTO players (name, file_key, position, listed)
    SELECT name, replace(name, ' ', '_'), ord, true FROM input
    ON CONFLICT (name) DO UPDATE SET position = EXCLUDED.position, listed = true
    RETURNING name
)
UPDATE players SET listed = false
WHERE listed AND name NOT IN (SELECT name FROM upserted)
`

func (q *Queries) SavePlayers(ctx context.Context, names []string) error {
	_, err := q.db.Exec(ctx, savePlayers, names)
	return err
}

const ensurePlayer = `-- name: EnsurePlayer :exec
INSERT INTO players (name, file_key)
VALUES ($1, $2)
ON CONFLICT (name) DO NOTHING
`

type EnsurePlayerParams struct {
	Name    string
	FileKey string
}

func (q *Queries) EnsurePlayer(ctx context.Context, arg EnsurePlayerParams) error {
	_, err := q.db.Exec(ctx, ensurePlayer, arg.Name, arg.FileKey)
	return err
}

const insertSnapshot = `-- name: InsertSnapshot :exec
INSERT INTO snapshots (player_name, taken_at, data)
VALUES ($1, $2, $3::json)
`

type InsertSnapshotParams struct {
	PlayerName string
	TakenAt    time.Time
	Data       string
}

func (q *Queries) InsertSnapshot(ctx context.Context, arg InsertSnapshotParams) error {
	_, err := q.db.Exec(ctx, insertSnapshot, arg.PlayerName, arg.TakenAt, arg.Data)
	return err
}

const pruneSnapshots = `-- name: PruneSnapshots :execresult
DELETE FROM snapshots
WHERE player_name = $1
  AND taken_at < $2
  AND id NOT IN (
    SELECT id FROM snapshots
    WHERE player_name = $1
    ORDER BY taken_at DESC, id DESC
    LIMIT $3
  )
`

type PruneSnapshotsParams struct {
	PlayerName string
	Cutoff     time.Time
	MinKeep    int32
}

func (q *Queries) PruneSnapshots(ctx context.Context, arg PruneSnapshotsParams) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, pruneSnapshots, arg.PlayerName, arg.Cutoff, arg.MinKeep)
}
