// Package application contains use-case orchestration services.
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
)

// LocalStore is the typed view over the durable key-value medium. Reads never
// fail: absent or corrupt entries resolve to the caller's fallback. Writes
// replace the whole value synchronously.
type LocalStore struct {
	kv     driven.KVStore
	logger *slog.Logger
}

// NewLocalStore creates a LocalStore over kv.
func NewLocalStore(kv driven.KVStore, logger *slog.Logger) *LocalStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalStore{kv: kv, logger: logger}
}

// Get decodes the JSON entry at key into a T. It returns fallback when the
// entry is missing, unreadable or fails to parse.
func Get[T any](ctx context.Context, s *LocalStore, key model.StoreKey, fallback T) T {
	raw, ok := s.GetRaw(ctx, key)
	if !ok {
		return fallback
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("stored entry is corrupt, using fallback", "key", key, "error", err)
		return fallback
	}
	return v
}

// Set encodes v as JSON and stores it at key.
func Set[T any](ctx context.Context, s *LocalStore, key model.StoreKey, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.SetRaw(ctx, key, string(data))
}

// GetRaw returns the stored string at key. ok is false when the entry is
// missing or the medium could not be read.
func (s *LocalStore) GetRaw(ctx context.Context, key model.StoreKey) (string, bool) {
	raw, ok, err := s.kv.Get(ctx, string(key))
	if err != nil {
		s.logger.Warn("reading stored entry failed, using fallback", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

// SetRaw stores value at key verbatim.
func (s *LocalStore) SetRaw(ctx context.Context, key model.StoreKey, value string) error {
	if err := s.kv.Set(ctx, string(key), value); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// Lookup is GetRaw with the medium error surfaced, for callers that must not
// mistake an unreadable entry for a missing one.
func (s *LocalStore) Lookup(ctx context.Context, key model.StoreKey) (string, bool, error) {
	raw, ok, err := s.kv.Get(ctx, string(key))
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return raw, ok, nil
}

// Remove deletes the entry at key.
func (s *LocalStore) Remove(ctx context.Context, key model.StoreKey) error {
	if err := s.kv.Delete(ctx, string(key)); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
