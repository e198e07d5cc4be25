package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
)

// CredentialVault owns the GitHub sync config: it validates it, keeps the
// decrypted copy in memory and persists only the sealed form.
type CredentialVault struct {
	store  *LocalStore
	box    *SecretBox
	logger *slog.Logger

	mu     sync.RWMutex
	config *model.GitHubConfig
}

// NewCredentialVault creates a vault that seals entries with box and persists
// them in store. Call Load to pick up a previously saved config.
func NewCredentialVault(store *LocalStore, box *SecretBox, logger *slog.Logger) *CredentialVault {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialVault{store: store, box: box, logger: logger}
}

// Save validates cfg, seals and persists it, then makes it the active config.
// An invalid config returns ErrConfigInvalid with no side effects. A failed
// write leaves the previous config active.
func (v *CredentialVault) Save(ctx context.Context, cfg model.GitHubConfig) error {
	if !cfg.Valid() {
		return model.ErrConfigInvalid
	}

	plaintext, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode github config: %w", err)
	}

	sealed, err := v.box.Seal(ctx, plaintext)
	if err != nil {
		return fmt.Errorf("seal github config: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.store.SetRaw(ctx, model.StoreKeyGitHubConfig, sealed); err != nil {
		return err
	}
	v.config = &cfg

	v.logger.Info("github config saved", "repo", cfg.FullName())
	return nil
}

// Load reads the sealed config from storage into memory and reports whether
// a valid config is now active. Any failure along the way (no entry, bad
// ciphertext, bad JSON, missing field) leaves the vault unconfigured.
func (v *CredentialVault) Load(ctx context.Context) bool {
	cfg, err := v.read(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.logger.Warn("stored github config ignored", "error", err)
		v.config = nil
		return false
	}
	v.config = cfg
	return cfg != nil
}

// read returns nil, nil when nothing is stored.
func (v *CredentialVault) read(ctx context.Context) (*model.GitHubConfig, error) {
	sealed, ok := v.store.GetRaw(ctx, model.StoreKeyGitHubConfig)
	if !ok {
		return nil, nil
	}

	plaintext, err := v.box.Open(ctx, sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDecode, err)
	}

	var cfg model.GitHubConfig
	if err := json.Unmarshal(plaintext, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDecode, err)
	}
	if !cfg.Valid() {
		return nil, fmt.Errorf("%w: %w", model.ErrDecode, model.ErrConfigInvalid)
	}
	return &cfg, nil
}

// Clear forgets the active config and removes the stored entry. Memory is
// cleared even when the delete fails.
func (v *CredentialVault) Clear(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.config = nil
	if err := v.store.Remove(ctx, model.StoreKeyGitHubConfig); err != nil {
		return err
	}

	v.logger.Info("github config cleared")
	return nil
}

// Config returns the active config. ok is false when none is configured.
func (v *CredentialVault) Config() (cfg model.GitHubConfig, ok bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.config == nil {
		return model.GitHubConfig{}, false
	}
	return *v.config, true
}

// IsConfigured reports whether a config is active.
func (v *CredentialVault) IsConfigured() bool {
	_, ok := v.Config()
	return ok
}
