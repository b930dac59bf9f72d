package domain

import "errors"

var (
	// ErrNotFound means no lookup key produced a player record.
	ErrNotFound = errors.New("player data not found")

	// ErrNoPlayers means the configured player set is empty.
	ErrNoPlayers = errors.New("no players configured")

	// ErrAllPlayersFailed means every player in a batch failed to resolve.
	ErrAllPlayersFailed = errors.New("all players failed to resolve")

	// ErrSchemaMismatch means a hiscores response does not match the schema.
	ErrSchemaMismatch = errors.New("hiscores schema mismatch")
)
