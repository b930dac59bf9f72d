// Package filestore keeps one JSON document per player plus a players.json
// index in a directory, the layout served to the static leaderboard site.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hiscore-tracker/internal/core/domain"
)

const playersFile = "players.json"

var ErrInvalidKey = errors.New("invalid lookup key")

type Store struct {
	dir string
	mu  sync.Mutex
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// FileKey is the document key a player's snapshots are written under.
func FileKey(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

func (s *Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// ListPlayers returns the saved player index. A missing index is empty.
func (s *Store) ListPlayers(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, playersFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read player index: %w", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("decode player index: %w", err)
	}
	return names, nil
}

func (s *Store) SavePlayers(ctx context.Context, names []string) error {
	if names == nil {
		names = []string{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(filepath.Join(s.dir, playersFile), names)
}

func (s *Store) AppendSnapshot(ctx context.Context, name string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(name)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &domain.PlayerRecord{PlayerName: name}
	}
	rec.Snapshots = append(rec.Snapshots, snap)

	return s.save(name, rec)
}

// PruneSnapshots drops snapshots older than cutoff while keeping at least
// the newest minKeep, and returns how many were removed.
func (s *Store) PruneSnapshots(ctx context.Context, name string, cutoff time.Time, minKeep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(name)
	if err != nil || rec == nil || len(rec.Snapshots) == 0 {
		return 0, err
	}

	kept, removed := domain.PruneSnapshots(rec.Snapshots, cutoff, minKeep)
	if removed == 0 {
		return 0, nil
	}
	rec.Snapshots = kept
	if err := s.save(name, rec); err != nil {
		return 0, err
	}
	return int64(removed), nil
}

func (s *Store) Close() {}

func (s *Store) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// load returns nil without error when the player has no document yet.
func (s *Store) load(name string) (*domain.PlayerRecord, error) {
	path, err := s.path(FileKey(name))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return domain.ParsePlayerRecord(data)
}

func (s *Store) save(name string, rec *domain.PlayerRecord) error {
	path, err := s.path(FileKey(name))
	if err != nil {
		return err
	}
	return s.writeJSON(path, rec)
}

// writeJSON replaces path atomically so readers never see a partial file.
func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
