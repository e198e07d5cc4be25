package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
)

const (
	// RemoteDataPath is the repository path the portfolio document lives at.
	RemoteDataPath = "public/data.json"
	// DefaultCommitMessage is used when a push has no message.
	DefaultCommitMessage = "Update portfolio data"
)

// SyncStatus is a point-in-time view of the remote sync state.
type SyncStatus struct {
	Configured bool       `json:"configured"`
	Owner      string     `json:"owner,omitempty"`
	Repo       string     `json:"repo,omitempty"`
	Syncing    bool       `json:"syncing"`
	LastSync   *time.Time `json:"lastSync,omitempty"`
	LastError  string     `json:"lastError,omitempty"`
	Revision   string     `json:"revision,omitempty"`
}

// SyncService moves the portfolio aggregate between the manager and the
// configured GitHub repository. Only one fetch or push runs at a time.
type SyncService struct {
	vault    *CredentialVault
	manager  *PortfolioManager
	provider *ContentClientProvider
	logger   *slog.Logger
	now      func() time.Time

	isSyncing atomic.Bool

	mu        sync.RWMutex
	lastSync  time.Time
	lastError string
	revision  string
}

// NewSyncService creates a sync service. now may be nil, in which case
// time.Now is used.
func NewSyncService(
	vault *CredentialVault,
	manager *PortfolioManager,
	provider *ContentClientProvider,
	logger *slog.Logger,
	now func() time.Time,
) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &SyncService{
		vault:    vault,
		manager:  manager,
		provider: provider,
		logger:   logger,
		now:      now,
	}
}

// Fetch reads the remote document. It returns nil, nil when the repository has
// no document yet. The manager is not touched.
func (s *SyncService) Fetch(ctx context.Context) (*model.PortfolioData, error) {
	if !s.isSyncing.CompareAndSwap(false, true) {
		return nil, model.ErrSyncInProgress
	}
	defer s.isSyncing.Store(false)

	data, err := s.fetch(ctx)
	s.record(model.SyncOperationFetch, err)
	return data, err
}

// Pull fetches the remote document and adopts it through the manager's update
// path. It reports whether anything was adopted.
func (s *SyncService) Pull(ctx context.Context) (bool, error) {
	data, err := s.Fetch(ctx)
	if err != nil {
		return false, err
	}
	if data == nil {
		s.logger.Info("remote has no portfolio data, nothing to pull")
		return false, nil
	}

	if _, err := s.manager.Update(ctx, model.FullPatch(*data)); err != nil {
		return false, fmt.Errorf("adopt remote portfolio: %w", err)
	}
	s.logger.Info("remote portfolio adopted")
	return true, nil
}

// PushRemote writes data to the remote document. An empty message uses
// DefaultCommitMessage. A write rejected because the remote moved since it
// was read returns ErrStaleRevision; it is not retried.
func (s *SyncService) PushRemote(ctx context.Context, data model.PortfolioData, message string) error {
	if !s.isSyncing.CompareAndSwap(false, true) {
		return model.ErrSyncInProgress
	}
	defer s.isSyncing.Store(false)

	err := s.push(ctx, data, message)
	s.record(model.SyncOperationPush, err)
	return err
}

// Push writes the manager's current aggregate to the remote document.
func (s *SyncService) Push(ctx context.Context, message string) error {
	data, err := s.manager.Data()
	if err != nil {
		return err
	}
	return s.PushRemote(ctx, data, message)
}

// Status returns the current sync state.
func (s *SyncService) Status() SyncStatus {
	cfg, ok := s.vault.Config()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := SyncStatus{
		Configured: ok,
		Owner:      cfg.Owner,
		Repo:       cfg.Repo,
		Syncing:    s.isSyncing.Load(),
		LastError:  s.lastError,
		Revision:   s.revision,
	}
	if !s.lastSync.IsZero() {
		t := s.lastSync
		st.LastSync = &t
	}
	return st
}

// Disconnect clears the stored credentials, the cached client and the sync
// status.
func (s *SyncService) Disconnect(ctx context.Context) error {
	err := s.vault.Clear(ctx)
	s.provider.Reset()

	s.mu.Lock()
	s.lastSync = time.Time{}
	s.lastError = ""
	s.revision = ""
	s.mu.Unlock()

	return err
}

func (s *SyncService) fetch(ctx context.Context) (*model.PortfolioData, error) {
	cfg, store, err := s.client()
	if err != nil {
		return nil, err
	}

	file, err := store.GetFile(ctx, cfg.Owner, cfg.Repo, RemoteDataPath)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", model.ErrNetwork, cfg.FullName(), err)
	}
	if file == nil {
		s.setRevision("")
		return nil, nil
	}

	data, err := model.DecodePortfolio(file.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: parse remote portfolio: %w", model.ErrNetwork, err)
	}

	s.setRevision(file.SHA)
	s.logger.Info("remote portfolio fetched", "repo", cfg.FullName(), "sha", file.SHA)
	return &data, nil
}

func (s *SyncService) push(ctx context.Context, data model.PortfolioData, message string) error {
	if message == "" {
		message = DefaultCommitMessage
	}

	cfg, store, err := s.client()
	if err != nil {
		return err
	}

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}

	current, err := store.GetFile(ctx, cfg.Owner, cfg.Repo, RemoteDataPath)
	if err != nil {
		return fmt.Errorf("%w: read remote revision %s: %w", model.ErrNetwork, cfg.FullName(), err)
	}
	var sha string
	if current != nil {
		sha = current.SHA
	}

	newSHA, err := store.PutFile(ctx, cfg.Owner, cfg.Repo, RemoteDataPath, driven.FileWrite{
		Content: content,
		Message: message,
		SHA:     sha,
	})
	if err != nil {
		if errors.Is(err, model.ErrStaleRevision) {
			return err
		}
		return fmt.Errorf("%w: push %s: %w", model.ErrNetwork, cfg.FullName(), err)
	}

	s.setRevision(newSHA)
	s.logger.Info("portfolio pushed", "repo", cfg.FullName(), "sha", newSHA, "first_write", sha == "")
	return nil
}

func (s *SyncService) client() (model.GitHubConfig, driven.ContentStore, error) {
	cfg, ok := s.vault.Config()
	if !ok {
		return model.GitHubConfig{}, nil, model.ErrNotConfigured
	}
	store, err := s.provider.For(cfg.Token)
	if err != nil {
		return model.GitHubConfig{}, nil, fmt.Errorf("create github client: %w", err)
	}
	return cfg, store, nil
}

func (s *SyncService) setRevision(sha string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revision = sha
}

func (s *SyncService) record(op model.SyncOperation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastError = err.Error()
		if !errors.Is(err, model.ErrNotConfigured) {
			s.logger.Warn("sync failed", "operation", op, "error", err)
		}
		return
	}
	s.lastSync = s.now()
	s.lastError = ""
}
