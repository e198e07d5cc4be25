package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
)

// ExportFilename is the suggested file name for exported portfolio data.
const ExportFilename = "portfolio-data.json"

// ManagerState is the lifecycle phase of a PortfolioManager.
type ManagerState int

const (
	// StateLoading is the phase before Init has resolved the initial content.
	StateLoading ManagerState = iota
	// StateReady is entered once, after Init.
	StateReady
)

// String returns a human-readable name for the state.
func (s ManagerState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// PortfolioManager owns the in-memory PortfolioData aggregate and is the only
// writer of its LocalStore entry. Mutations are last-writer-wins at whole
// aggregate granularity: an import or pull racing a slower update can discard
// it. That is acceptable because there is a single admin session.
type PortfolioManager struct {
	store  *LocalStore
	seed   driven.SeedSource
	logger *slog.Logger

	mu    sync.RWMutex
	state ManagerState
	data  model.PortfolioData
}

// NewPortfolioManager creates a manager in the Loading state. seed may be nil,
// in which case an empty store bootstraps straight to the default content.
func NewPortfolioManager(store *LocalStore, seed driven.SeedSource, logger *slog.Logger) *PortfolioManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortfolioManager{
		store:  store,
		seed:   seed,
		logger: logger,
		state:  StateLoading,
	}
}

// Init resolves the initial aggregate and moves the manager to Ready. Sources,
// in priority order: the existing store entry, the seed document, the default
// content. An existing entry is never overwritten here; a corrupt one loads as
// the default until the next write replaces it. Calling Init again is a no-op.
func (m *PortfolioManager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateReady {
		return nil
	}

	raw, exists, err := m.store.Lookup(ctx, model.StoreKeyPortfolioData)
	if err != nil {
		return fmt.Errorf("load portfolio: %w", err)
	}

	if exists {
		data, err := model.DecodePortfolio([]byte(raw))
		if err != nil {
			m.logger.Warn("stored portfolio is corrupt, using defaults", "error", err)
			data = model.DefaultPortfolio()
		}
		m.data = data
		m.state = StateReady
		m.logger.Info("portfolio loaded", "source", "store")
		return nil
	}

	data, source := m.bootstrap(ctx)
	if err := m.persist(ctx, data); err != nil {
		return fmt.Errorf("persist initial portfolio: %w", err)
	}
	m.data = data
	m.state = StateReady
	m.logger.Info("portfolio loaded", "source", source)
	return nil
}

// bootstrap picks the first-run content from the seed, falling back to the
// default content when the seed is absent, the placeholder, or invalid.
func (m *PortfolioManager) bootstrap(ctx context.Context) (model.PortfolioData, string) {
	if m.seed == nil {
		return model.DefaultPortfolio(), "default"
	}

	raw, err := m.seed.FetchSeed(ctx)
	switch {
	case err != nil:
		m.logger.Warn("seed fetch failed, using defaults", "error", err)
		return model.DefaultPortfolio(), "default"
	case raw == nil:
		return model.DefaultPortfolio(), "default"
	case model.IsSeedPlaceholder(raw):
		m.logger.Debug("seed is the placeholder, using defaults")
		return model.DefaultPortfolio(), "default"
	}

	data, err := model.DecodePortfolio(raw)
	if err != nil {
		m.logger.Warn("seed is invalid, using defaults", "error", err)
		return model.DefaultPortfolio(), "default"
	}
	return data, "seed"
}

// State returns the current lifecycle phase.
func (m *PortfolioManager) State() ManagerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Data returns a deep copy of the current aggregate.
func (m *PortfolioManager) Data() (model.PortfolioData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateReady {
		return model.PortfolioData{}, model.ErrNotReady
	}
	return m.data.Clone(), nil
}

// Update merges patch into the aggregate at top-level granularity and
// persists the result. Fields absent from the patch are unchanged. List
// entries submitted without an id are assigned one. The merged aggregate must
// pass validation; on any failure the previous aggregate stays.
func (m *PortfolioManager) Update(ctx context.Context, patch model.PortfolioPatch) (model.PortfolioData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return model.PortfolioData{}, model.ErrNotReady
	}

	next, assigned := patch.Apply(m.data).WithEntityIDs()
	if assigned > 0 {
		m.logger.Debug("assigned ids to new list entries", "count", assigned)
	}
	if err := next.Validate(); err != nil {
		return model.PortfolioData{}, err
	}
	if err := m.replace(ctx, next); err != nil {
		return model.PortfolioData{}, err
	}
	return next.Clone(), nil
}

// Reset replaces the aggregate with the default content and persists it.
func (m *PortfolioManager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return model.ErrNotReady
	}
	if err := m.replace(ctx, model.DefaultPortfolio()); err != nil {
		return err
	}
	m.logger.Info("portfolio reset to defaults")
	return nil
}

// Export writes the aggregate to w as pretty-printed JSON. Stored state is
// not touched.
func (m *PortfolioManager) Export(w io.Writer) error {
	data, err := m.Data()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("export portfolio: %w", err)
	}
	return nil
}

// Import replaces the aggregate with the document in raw and persists it.
// Malformed JSON returns ErrImportParse; a well-formed document of the wrong
// shape returns ErrInvalidPortfolio. Either way the aggregate is unchanged.
func (m *PortfolioManager) Import(ctx context.Context, raw []byte) error {
	data, err := model.DecodePortfolio(raw)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPortfolio) {
			return err
		}
		return fmt.Errorf("%w: %w", model.ErrImportParse, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return model.ErrNotReady
	}
	if err := m.replace(ctx, data); err != nil {
		return err
	}
	m.logger.Info("portfolio imported")
	return nil
}

// Close flushes the current aggregate to the store. The manager must not be
// used afterwards.
func (m *PortfolioManager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return nil
	}
	if err := m.persist(ctx, m.data); err != nil {
		return fmt.Errorf("flush portfolio: %w", err)
	}
	m.state = StateLoading
	return nil
}

// replace persists next and swaps it in. Must be called with mu held.
func (m *PortfolioManager) replace(ctx context.Context, next model.PortfolioData) error {
	if err := m.persist(ctx, next); err != nil {
		return err
	}
	m.data = next
	return nil
}

func (m *PortfolioManager) persist(ctx context.Context, data model.PortfolioData) error {
	return Set(ctx, m.store, model.StoreKeyPortfolioData, data)
}
